package generation

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/spec-kit/chronoplan/internal/domain"
)

// SystemInstruction frames the model as an itinerary generator.
const SystemInstruction = "You are a helpful schedule assistant. You generate realistic itinerary data for a database application."

// BuildPrompt composes the user content sent to the model. now anchors
// relative expressions such as "tomorrow".
func BuildPrompt(prompt, userContext string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Context: %s\n", userContext)
	fmt.Fprintf(&b, "Current Date: %s\n\n", now.Format(time.RFC3339))
	fmt.Fprintf(&b, "Task: Create a realistic schedule based on the user request: %q.\n", prompt)
	b.WriteString("Generate at least 3-5 events if the prompt implies a full day or list.\n")
	b.WriteString("Ensure dates are in the future relative to Current Date unless specified otherwise.\n")
	return b.String()
}

var requiredFields = []string{"title", "type", "startTime", "endTime", "location"}

// ResponseSchema is the structured-output contract: an array of event objects.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title": {Type: genai.TypeString},
				"type":  {Type: genai.TypeString, Enum: domain.EventTypeStrings()},
				"startTime": {
					Type:        genai.TypeString,
					Description: "ISO 8601 Date string, assume current year/month if not specified, relative to now.",
				},
				"endTime":     {Type: genai.TypeString, Description: "ISO 8601 Date string"},
				"location":    {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
			},
			Required:         append([]string(nil), requiredFields...),
			PropertyOrdering: []string{"title", "type", "startTime", "endTime", "location", "description"},
		},
	}
}
