package main

import (
	"bytes"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	for _, key := range []string{"API_KEY", "GEMINI_API_KEY", "SEED_FILE", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}
	t.Setenv("DISPLAY_TIMEZONE", "UTC")
	t.Setenv("DISPLAY_LOCALE", "zh-CN")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("chronoctl %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestUsersCommand(t *testing.T) {
	out := runCLI(t, "users")
	for _, id := range []string{"u1", "u2", "u3"} {
		if !strings.Contains(out, id) {
			t.Fatalf("expected %s in output:\n%s", id, out)
		}
	}
}

func TestAgendaCommandFiltersByType(t *testing.T) {
	out := runCLI(t, "agenda", "--user", "u2", "--type", "class")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected one heading and two events, got:\n%s", out)
	}
	if !strings.Contains(lines[1], "08:00-09:40") || !strings.Contains(lines[2], "14:00-16:00") {
		t.Fatalf("unexpected order:\n%s", out)
	}
}

func TestExportCommandWritesCalendar(t *testing.T) {
	out := runCLI(t, "export", "--user", "u3")
	if !strings.Contains(out, "BEGIN:VCALENDAR") || strings.Count(out, "BEGIN:VEVENT") != 1 {
		t.Fatalf("unexpected calendar:\n%s", out)
	}
}

func TestGenerateWithoutCredentialFails(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SEED_FILE", "")
	rootCmd.SetArgs([]string{"generate", "--user", "u1", "plan my day"})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected missing credential error")
	}
}
