package datastore

import (
	"sort"
	"strings"

	"github.com/elliotchance/pie/v2"
)

func (s *Service) AddWorkout(exercise string, reps int, weight float64, date string) (Workout, error) {
	if date == "" {
		date = s.now().Format(dateLayout)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Counters.Workouts++

	workout := Workout{
		ID:       s.doc.Counters.Workouts,
		Date:     date,
		Exercise: exercise,
		Reps:     reps,
		Weight:   weight,
	}

	s.doc.Fitness.Workouts = append(s.doc.Fitness.Workouts, workout)

	if err := s.save(); err != nil {
		return Workout{}, err
	}

	return workout, nil
}

func (s *Service) DeleteWorkout(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Fitness.Workouts {
		if s.doc.Fitness.Workouts[i].ID == id {
			s.doc.Fitness.Workouts = append(s.doc.Fitness.Workouts[:i], s.doc.Fitness.Workouts[i+1:]...)
			return s.save()
		}
	}

	return ErrNotFound
}

// RecentWorkouts returns up to limit workouts, most recent date first.
func (s *Service) RecentWorkouts(limit int) []Workout {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	workouts := append([]Workout{}, s.doc.Fitness.Workouts...)
	s.mu.RUnlock()

	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date > workouts[j].Date
	})

	if len(workouts) > limit {
		workouts = workouts[:limit]
	}

	return workouts
}

func (s *Service) ExerciseProgress(exercise string) []Workout {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pie.Filter(s.doc.Fitness.Workouts, func(w Workout) bool {
		return strings.EqualFold(w.Exercise, exercise)
	})
}

// CalculateFitnessProgress compares the first and latest workout of one
// exercise by weight, reps and total volume.
func (s *Service) CalculateFitnessProgress(exercise string) FitnessProgress {
	entries := s.ExerciseProgress(exercise)

	if len(entries) < 2 {
		return FitnessProgress{
			Status:  "insufficient_data",
			Message: "Need more workout data to calculate progress",
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})

	first := entries[0]
	latest := entries[len(entries)-1]

	progress := FitnessProgress{
		Status:       "success",
		Exercise:     exercise,
		FirstDate:    first.Date,
		LatestDate:   latest.Date,
		WeightChange: latest.Weight - first.Weight,
		RepsChange:   latest.Reps - first.Reps,
	}

	if first.Weight > 0 {
		progress.WeightChangePercent = progress.WeightChange / first.Weight * 100
	}
	if first.Reps > 0 {
		progress.RepsChangePercent = float64(progress.RepsChange) / float64(first.Reps) * 100
	}

	firstVolume := first.Weight * float64(first.Reps)
	latestVolume := latest.Weight * float64(latest.Reps)
	if firstVolume > 0 {
		progress.VolumeChangePercent = (latestVolume - firstVolume) / firstVolume * 100
	}
	progress.OnTrack = progress.VolumeChangePercent > 0

	return progress
}

func (s *Service) SetNutritionGoals(goals NutritionGoals) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Fitness.Nutrition.Goals = goals

	return s.save()
}

func (s *Service) LogFood(foodName string, calories int, protein, carbs, fats float64) (NutritionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Counters.NutritionLogs++

	entry := NutritionLog{
		ID:        s.doc.Counters.NutritionLogs,
		Timestamp: s.now().Format(timestampLayout),
		FoodName:  foodName,
		Calories:  calories,
		Protein:   protein,
		Carbs:     carbs,
		Fats:      fats,
	}

	s.doc.Fitness.Nutrition.Logs = append(s.doc.Fitness.Nutrition.Logs, entry)

	if err := s.save(); err != nil {
		return NutritionLog{}, err
	}

	return entry, nil
}

func (s *Service) LogWeight(weight float64, date string) (WeightLog, error) {
	if date == "" {
		date = s.now().Format(dateLayout)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Counters.WeightLogs++

	entry := WeightLog{
		ID:     s.doc.Counters.WeightLogs,
		Date:   date,
		Weight: weight,
	}

	s.doc.Fitness.Nutrition.WeightLogs = append(s.doc.Fitness.Nutrition.WeightLogs, entry)

	if err := s.save(); err != nil {
		return WeightLog{}, err
	}

	return entry, nil
}

func (s *Service) NutritionSummary(date string) NutritionSummary {
	if date == "" {
		date = s.now().Format(dateLayout)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.summarizeNutrition(date)
}

// summarizeNutrition must be called with at least the read lock held.
func (s *Service) summarizeNutrition(date string) NutritionSummary {
	logs := pie.Filter(s.doc.Fitness.Nutrition.Logs, func(l NutritionLog) bool {
		return strings.HasPrefix(l.Timestamp, date)
	})

	summary := NutritionSummary{
		Date:     date,
		GoalType: s.doc.Fitness.Nutrition.Goals.GoalType,
		Logs:     logs,
	}

	for _, l := range logs {
		summary.TotalCalories += l.Calories
		summary.TotalProtein += l.Protein
		summary.TotalCarbs += l.Carbs
		summary.TotalFats += l.Fats
	}

	goals := s.doc.Fitness.Nutrition.Goals
	if goals.Calories > 0 {
		summary.RemainingCalories = goals.Calories - summary.TotalCalories
	}
	if goals.Protein > 0 {
		summary.RemainingProtein = float64(goals.Protein) - summary.TotalProtein
	}

	return summary
}

// ResetDailyNutrition archives yesterday's food logs (with their summary)
// under nutrition_history and drops every log older than today. Running it
// more than once a day is harmless.
func (s *Service) ResetDailyNutrition() error {
	today := s.now().Format(dateLayout)
	yesterday := s.now().AddDate(0, 0, -1).Format(dateLayout)

	s.mu.Lock()
	defer s.mu.Unlock()

	yesterdayLogs := pie.Filter(s.doc.Fitness.Nutrition.Logs, func(l NutritionLog) bool {
		return strings.HasPrefix(l.Timestamp, yesterday)
	})

	if len(yesterdayLogs) > 0 {
		if s.doc.Fitness.NutritionHistory == nil {
			s.doc.Fitness.NutritionHistory = map[string]NutritionArchive{}
		}

		s.doc.Fitness.NutritionHistory[yesterday] = NutritionArchive{
			Logs:    yesterdayLogs,
			Summary: s.summarizeNutrition(yesterday),
		}
	}

	s.doc.Fitness.Nutrition.Logs = pie.Filter(s.doc.Fitness.Nutrition.Logs, func(l NutritionLog) bool {
		return strings.HasPrefix(l.Timestamp, today)
	})

	return s.save()
}

// WeightHistory returns the last days entries ordered by date ascending.
func (s *Service) WeightHistory(days int) []WeightLog {
	s.mu.RLock()
	logs := append([]WeightLog{}, s.doc.Fitness.Nutrition.WeightLogs...)
	s.mu.RUnlock()

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Date < logs[j].Date
	})

	if days > 0 && len(logs) > days {
		logs = logs[len(logs)-days:]
	}

	return logs
}
