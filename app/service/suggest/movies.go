package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

type MovieRecommendation struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// MovieRecommendations asks the model for movies in the user's top
// genres. The full genre preference list is returned alongside the
// recommendations; with no recorded preferences the model is not
// consulted at all.
func (s *Service) MovieRecommendations(ctx context.Context) ([]string, []MovieRecommendation, error) {
	genres := s.store.MoviePreferences()
	if len(genres) == 0 {
		return []string{}, []MovieRecommendation{}, nil
	}

	topGenres := genres
	if len(topGenres) > 3 {
		topGenres = topGenres[:3]
	}

	prompt := fmt.Sprintf(
		"Suggest 5 movies in the following genres: %s. Return the results as a JSON array with each movie having 'title', 'genre', and 'description' fields. Keep descriptions brief (under 100 characters).",
		strings.Join(topGenres, ", "))

	raw, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("model.Generate: %w", err)
	}

	return genres, parseMovieRecommendations(raw, topGenres), nil
}

func parseMovieRecommendations(raw string, topGenres []string) []MovieRecommendation {
	if match := jsonArrayPattern.FindString(raw); match != "" {
		var recommendations []MovieRecommendation
		if err := json.Unmarshal([]byte(match), &recommendations); err == nil {
			return recommendations
		}

		slog.Warn("Model returned unparsable movie recommendations")
	}

	fallback := make([]MovieRecommendation, 0, len(topGenres))
	for _, genre := range topGenres {
		fallback = append(fallback, MovieRecommendation{
			Title:       "Recommendation for " + genre,
			Genre:       genre,
			Description: "AI-generated recommendation",
		})
	}

	return fallback
}
