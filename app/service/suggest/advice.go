package suggest

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

type FitnessAdvice struct {
	Advice          string   `json:"advice"`
	Recommendations []string `json:"recommendations"`
}

// The model is asked for prose advice followed by bullet
// recommendations; the bullet block is split off when it is present.
var (
	recommendationsBlockPattern = regexp.MustCompile(`(?i)recommendations?:?\s*(?:\n\s*[-*]\s*.+)+`)
	bulletPattern               = regexp.MustCompile(`[-*]\s*(.+)`)
)

var defaultRecommendations = []string{
	"Continue your current workout routine",
	"Focus on proper form and technique",
	"Ensure adequate rest between workouts",
}

// FitnessAdvice asks the model for personalized advice over the recent
// workout history. Under two recorded workouts there is nothing to
// personalize and a static answer is returned without a model call.
func (s *Service) FitnessAdvice(ctx context.Context) (*FitnessAdvice, error) {
	workouts := s.store.RecentWorkouts(10)

	if len(workouts) < 2 {
		return &FitnessAdvice{
			Advice: "Not enough workout data to provide personalized advice.",
			Recommendations: []string{
				"Start tracking your workouts regularly",
				"Aim for at least 3 workouts per week",
				"Include both cardio and strength training",
			},
		}, nil
	}

	var builder strings.Builder
	builder.WriteString("Based on the following workout history, provide personalized fitness advice and 3-5 specific recommendations. Keep the advice under 200 words.\n\n")
	builder.WriteString("Recent workouts:\n")
	for _, workout := range workouts {
		builder.WriteString(fmt.Sprintf("- %s: %d reps at %g kg on %s\n",
			workout.Exercise, workout.Reps, workout.Weight, workout.Date))
	}

	raw, err := s.model.Generate(ctx, builder.String())
	if err != nil {
		return nil, fmt.Errorf("model.Generate: %w", err)
	}

	return parseFitnessAdvice(raw), nil
}

func parseFitnessAdvice(raw string) *FitnessAdvice {
	advice := &FitnessAdvice{
		Advice:          raw,
		Recommendations: defaultRecommendations,
	}

	if !recommendationsBlockPattern.MatchString(raw) {
		return advice
	}

	bullets := bulletPattern.FindAllStringSubmatch(raw, -1)
	if len(bullets) == 0 {
		return advice
	}

	recommendations := make([]string, 0, len(bullets))
	for _, bullet := range bullets {
		recommendations = append(recommendations, strings.TrimSpace(bullet[1]))
	}

	advice.Recommendations = recommendations
	advice.Advice = strings.TrimSpace(recommendationsBlockPattern.ReplaceAllString(raw, ""))

	return advice
}
