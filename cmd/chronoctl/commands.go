package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/chronoplan/internal/agenda"
	"github.com/spec-kit/chronoplan/internal/calendar"
	"github.com/spec-kit/chronoplan/internal/domain"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the seeded profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newCLIApp(cmd.Context())
		if err != nil {
			return err
		}
		users, err := app.schedule.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, u := range users {
			fmt.Fprintf(out, "%-4s %-14s %s\n", u.ID, u.Name, u.Role)
		}
		return nil
	},
}

var (
	agendaUser   string
	agendaType   string
	agendaLocale string
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Print a user's timeline grouped by day",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newCLIApp(cmd.Context())
		if err != nil {
			return err
		}
		events, err := app.schedule.ListEventsForUser(cmd.Context(), agendaUser)
		if err != nil {
			return err
		}
		return printAgenda(cmd.OutOrStdout(), app, events, agendaType, agendaLocale)
	},
}

func initAgendaCommand() {
	agendaCmd.Flags().StringVarP(&agendaUser, "user", "u", "u1", "profile id")
	agendaCmd.Flags().StringVarP(&agendaType, "type", "t", agenda.FilterAll, "event type filter ("+agenda.FilterAll+", "+strings.Join(domain.EventTypeStrings(), ", ")+")")
	agendaCmd.Flags().StringVar(&agendaLocale, "locale", "", "label locale, defaults to DISPLAY_LOCALE")
	rootCmd.AddCommand(agendaCmd)
}

var (
	generateUser    string
	generateSession string
	generateTimeout time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate events from a free-text prompt and print the updated agenda",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if generateTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, generateTimeout)
			defer cancel()
		}
		app, err := newCLIApp(ctx)
		if err != nil {
			return err
		}
		result, err := app.generation.Generate(ctx, generateSession, generateUser, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "generated %d event(s)\n\n", len(result.Created))
		return printAgenda(cmd.OutOrStdout(), app, result.Timeline, agenda.FilterAll, "")
	},
}

func initGenerateCommand() {
	generateCmd.Flags().StringVarP(&generateUser, "user", "u", "u1", "profile id")
	generateCmd.Flags().StringVar(&generateSession, "session", "cli", "session id")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 0, "overall deadline, e.g. 90s")
	rootCmd.AddCommand(generateCmd)
}

var (
	exportUser string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a user's timeline as an iCalendar feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newCLIApp(cmd.Context())
		if err != nil {
			return err
		}
		user, err := app.schedule.GetUser(cmd.Context(), exportUser)
		if err != nil {
			return err
		}
		events, err := app.schedule.ListEventsForUser(cmd.Context(), user.ID)
		if err != nil {
			return err
		}
		body := calendar.Render(*user, events, time.Now())
		if exportOut == "" || exportOut == "-" {
			_, err = cmd.OutOrStdout().Write(body)
			return err
		}
		return os.WriteFile(exportOut, body, 0o644)
	},
}

func initExportCommand() {
	exportCmd.Flags().StringVarP(&exportUser, "user", "u", "u1", "profile id")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")
	rootCmd.AddCommand(exportCmd)
}

func printAgenda(w io.Writer, app *cliApp, events []domain.ScheduleEvent, filter, locale string) error {
	if locale == "" {
		locale = app.cfg.Display.Locale
	}
	groups, err := agenda.GroupByDay(events, agenda.Options{Type: filter, Location: app.location, Locale: locale})
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(w, "no events")
		return nil
	}
	lang := agenda.Language(locale)
	for _, g := range groups {
		fmt.Fprintln(w, g.Label)
		for _, e := range g.Events {
			fmt.Fprintf(w, "  %s-%s  %-12s %s", e.StartTime.In(app.location).Format("15:04"),
				e.EndTime.In(app.location).Format("15:04"), e.Type.Label(lang), e.Title)
			if e.Location != "" {
				fmt.Fprintf(w, " @ %s", e.Location)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}
