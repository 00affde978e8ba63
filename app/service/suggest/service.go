// Package suggest asks the model for activity suggestions derived from
// the user's upcoming schedule and recent workouts. The model reply is
// treated as untrusted: a JSON array is fished out of the text and any
// failure falls back to static suggestions.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"jaws/app/service/datastore"
	"jaws/app/service/gateway"

	"github.com/samber/do"
)

type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)

var fallbackSuggestions = []Suggestion{
	{Title: "Stay hydrated", Description: "Drink at least 8 glasses of water throughout your day"},
	{Title: "Take breaks", Description: "Remember to take short breaks during work to stretch and rest your eyes"},
	{Title: "Plan meals", Description: "Prepare healthy meals in advance for the week"},
}

type Service struct {
	store *datastore.Service
	model gateway.Model
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		store: do.MustInvoke[*datastore.Service](di),
		model: do.MustInvoke[gateway.Model](di),
	}, nil
}

func (s *Service) Suggestions(ctx context.Context) ([]Suggestion, error) {
	scheduleItems := s.store.UpcomingSchedule(7)
	workouts := s.store.RecentWorkouts(10)

	raw, err := s.model.Generate(ctx, buildPrompt(scheduleItems, workouts))
	if err != nil {
		return nil, fmt.Errorf("model.Generate: %w", err)
	}

	return parseSuggestions(raw), nil
}

func buildPrompt(scheduleItems []datastore.ScheduleItem, workouts []datastore.Workout) string {
	var builder strings.Builder

	builder.WriteString("Based on the following user data, suggest 3 activities or tasks that would complement their routine. Keep each suggestion under 100 characters.\n\n")

	if len(scheduleItems) > 0 {
		builder.WriteString("Upcoming schedule:\n")
		for i, item := range scheduleItems {
			if i == 5 {
				break
			}
			builder.WriteString(fmt.Sprintf("- %s on %s at %s\n", item.Title, item.Date, item.Time))
		}
	}

	if len(workouts) > 0 {
		builder.WriteString("\nRecent workouts:\n")
		for i, workout := range workouts {
			if i == 5 {
				break
			}
			builder.WriteString(fmt.Sprintf("- %s: %d reps at %g kg on %s\n",
				workout.Exercise, workout.Reps, workout.Weight, workout.Date))
		}
	}

	builder.WriteString("\nProvide 3 suggestions in a JSON array format with 'title' and 'description' fields.")

	return builder.String()
}

func parseSuggestions(raw string) []Suggestion {
	match := jsonArrayPattern.FindString(raw)
	if match == "" {
		return fallbackSuggestions
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(match), &suggestions); err != nil {
		slog.Warn("Model returned unparsable suggestions", "error", err)
		return fallbackSuggestions
	}

	return suggestions
}
