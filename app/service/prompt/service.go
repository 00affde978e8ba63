// Package prompt assembles the full model directive for a single query:
// persona, wall-clock context, today's conversation window, long-term
// memory, the command grammars the model must echo to trigger side
// effects, and query-dependent hints.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"jaws/app/service/datastore"

	_ "embed"

	"github.com/samber/do"
)

//go:embed system_prompt.txt
var systemPromptTemplate string

const recentWindow = 5

var fitnessKeywords = []string{"workout", "exercise", "fitness", "gym", "training"}

var appointmentKeywords = []string{"appointment", "meeting", "schedule", "event", "reminder"}

var (
	timePhrasePattern = regexp.MustCompile(`(?i)\b(?:at|on|for)\s+(?:\d{1,2}(?::\d{2})?\s*(?:am|pm)|\d{1,2}(?::\d{2})?)\b`)
	datePhrasePattern = regexp.MustCompile(`(?i)\b(?:today|tomorrow|next\s+\w+|\d{1,2}(?:st|nd|rd|th)?\s+(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?))\b`)
)

type Service struct {
	store *datastore.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		store: do.MustInvoke[*datastore.Service](di),
	}, nil
}

// Build renders the complete prompt for the given query as of the given
// wall-clock moment. The query itself goes last.
func (s *Service) Build(query string, asOf time.Time) string {
	templateValues := map[string]string{
		"user_name":        s.store.UserName(),
		"current_time":     asOf.Format("03:04 PM"),
		"current_day":      asOf.Format("Monday"),
		"current_date":     asOf.Format("January 02, 2006"),
		"time_of_day":      timeOfDay(asOf),
		"recent_context":   s.recentContext(asOf),
		"long_term_memory": s.memoryContext(),
	}

	text := systemPromptTemplate
	for key, value := range templateValues {
		text = strings.ReplaceAll(text, "{"+key+"}", value)
	}

	var builder strings.Builder
	builder.WriteString(text)

	lowerQuery := strings.ToLower(query)

	if containsAny(lowerQuery, fitnessKeywords) {
		if workouts := s.store.RecentWorkouts(recentWindow); len(workouts) > 0 {
			builder.WriteString("\nRecent workout history:\n")
			for _, workout := range workouts {
				builder.WriteString(fmt.Sprintf("- %s: %d reps at %g kg on %s\n",
					workout.Exercise, workout.Reps, workout.Weight, workout.Date))
			}
		}
	}

	if containsAny(lowerQuery, appointmentKeywords) &&
		(timePhrasePattern.MatchString(query) || datePhrasePattern.MatchString(query)) {
		builder.WriteString("\nNote: The user mentioned an appointment. Please suggest adding it to their schedule and ask for any missing details (date/time).\n")
	}

	builder.WriteString("\n")
	builder.WriteString(query)

	return builder.String()
}

// recentContext renders the last few conversations of the current
// calendar day, oldest first, as alternating User/JAWS lines.
func (s *Service) recentContext(asOf time.Time) string {
	conversations := s.store.ConversationsForDate(asOf.Format("2006-01-02"))
	if len(conversations) > recentWindow {
		conversations = conversations[len(conversations)-recentWindow:]
	}

	if len(conversations) == 0 {
		return ""
	}

	lines := make([]string, 0, len(conversations))
	for _, conv := range conversations {
		lines = append(lines, fmt.Sprintf("User: %s\nJAWS: %s", conv.Query, conv.Response))
	}

	return strings.Join(lines, "\n")
}

func (s *Service) memoryContext() string {
	memory := s.store.LongTermMemory()
	if len(memory) == 0 {
		return "No significant memory points."
	}

	return strings.Join(memory, "\n")
}

func timeOfDay(t time.Time) string {
	switch hour := t.Hour(); {
	case hour >= 5 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 17:
		return "Afternoon"
	case hour >= 17 && hour < 22:
		return "Evening"
	default:
		return "Night"
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}

	return false
}
