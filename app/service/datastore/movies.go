package datastore

import (
	"sort"
)

func (s *Service) AddMoviePreference(genre, title string, rating int) error {
	preference := MoviePreference{
		Timestamp: s.now().Format(timestampLayout),
		Genre:     genre,
		Title:     title,
	}

	if rating >= 1 && rating <= 10 {
		preference.Rating = rating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.MoviePreferences = append(s.doc.MoviePreferences, preference)

	return s.save()
}

// MoviePreferences returns preferred genres ordered by how often they
// were recorded.
func (s *Service) MoviePreferences() []string {
	s.mu.RLock()
	counts := make(map[string]int)
	for _, pref := range s.doc.MoviePreferences {
		counts[pref.Genre]++
	}
	s.mu.RUnlock()

	genres := make([]string, 0, len(counts))
	for genre := range counts {
		genres = append(genres, genre)
	}

	sort.SliceStable(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return genres[i] < genres[j]
	})

	return genres
}
