package datastore

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Service {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	return s
}

func TestAddConversationExtractsKeyPoints(t *testing.T) {
	s := newTestStore(t)

	conv, err := s.AddConversation(
		"Please remember that my birthday is in June. What time is it?",
		"Noted, sir. It is noon.",
	)
	if err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}

	if len(conv.KeyPoints) != 1 {
		t.Fatalf("KeyPoints = %v, want exactly one", conv.KeyPoints)
	}
	if conv.KeyPoints[0] != "Please remember that my birthday is in June" {
		t.Fatalf("KeyPoints[0] = %q", conv.KeyPoints[0])
	}
}

func TestKeyPointsIgnoreShortAndKeywordlessSentences(t *testing.T) {
	s := newTestStore(t)

	conv, err := s.AddConversation("noted sir. The sky looks very blue and clear today.", "Indeed.")
	if err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}

	if len(conv.KeyPoints) != 0 {
		t.Fatalf("KeyPoints = %v, want none", conv.KeyPoints)
	}
}

func TestRetentionMovesOldKeyPointsToLongTermMemory(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

	s.nowFn = func() time.Time { return base.Add(-25 * time.Hour) }
	if _, err := s.AddConversation("Don't forget the dentist appointment on Friday please.", "Noted."); err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}

	s.nowFn = func() time.Time { return base }
	if _, err := s.AddConversation("hello", "hi"); err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}

	memory := s.LongTermMemory()
	if len(memory) != 1 {
		t.Fatalf("LongTermMemory() = %v, want one entry", memory)
	}
	if memory[0] != "Don't forget the dentist appointment on Friday please" {
		t.Fatalf("memory[0] = %q", memory[0])
	}

	for _, conv := range s.RecentConversations(10) {
		if conv.Query == "Don't forget the dentist appointment on Friday please." {
			t.Fatalf("evicted conversation still present")
		}
	}
}

func TestRetentionDeduplicatesKeyPoints(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

	// The same key point lands in two conversations that will both be
	// evicted; it must survive exactly once no matter how many times
	// retention runs afterwards.
	s.nowFn = func() time.Time { return base.Add(-26 * time.Hour) }
	if _, err := s.AddConversation("Remember my anniversary is May 2nd.", "Noted."); err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}
	s.nowFn = func() time.Time { return base.Add(-25 * time.Hour) }
	if _, err := s.AddConversation("Remember my anniversary is May 2nd.", "Noted."); err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}

	s.nowFn = func() time.Time { return base }
	for i := 0; i < 3; i++ {
		if _, err := s.AddConversation("hello", "hi"); err != nil {
			t.Fatalf("AddConversation() error = %v", err)
		}
	}

	count := 0
	for _, point := range s.LongTermMemory() {
		if point == "Remember my anniversary is May 2nd" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("key point stored %d times, want 1", count)
	}
}

func TestRetentionCapsRecentConversations(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 8; i++ {
		offset := time.Duration(i) * time.Minute
		s.nowFn = func() time.Time { return base.Add(offset) }
		if _, err := s.AddConversation("query", "response"); err != nil {
			t.Fatalf("AddConversation() error = %v", err)
		}
	}

	conversations := s.RecentConversations(100)
	if len(conversations) != maxRecentConversations {
		t.Fatalf("len(conversations) = %d, want %d", len(conversations), maxRecentConversations)
	}

	// The survivors are the most recent five by storage order.
	want := base.Add(3 * time.Minute).Format(timestampLayout)
	if conversations[0].Timestamp != want {
		t.Fatalf("oldest survivor = %q, want %q", conversations[0].Timestamp, want)
	}
}

func TestRetentionKeepsUnparsableTimestamps(t *testing.T) {
	s := newTestStore(t)

	s.doc.Conversations = append(s.doc.Conversations, Conversation{
		Timestamp: "not-a-timestamp",
		Query:     "q",
		Response:  "r",
	})

	if _, err := s.AddConversation("hello", "hi"); err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}

	found := false
	for _, conv := range s.RecentConversations(10) {
		if conv.Timestamp == "not-a-timestamp" {
			found = true
		}
	}
	if !found {
		t.Fatalf("conversation with unparsable timestamp was dropped")
	}
}

func TestConversationsForDate(t *testing.T) {
	s := newTestStore(t)

	s.nowFn = func() time.Time { return time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC) }
	if _, err := s.AddConversation("first", "one"); err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}
	s.nowFn = func() time.Time { return time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC) }
	if _, err := s.AddConversation("second", "two"); err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}

	got := s.ConversationsForDate("2024-03-14")
	if len(got) != 1 || got[0].Query != "first" {
		t.Fatalf("ConversationsForDate() = %+v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if _, err = s.AddScheduleItem("Dentist", "2024-03-15", "09:00", "Regular checkup"); err != nil {
		t.Fatalf("AddScheduleItem() error = %v", err)
	}
	if _, err = s.AddConversation("Remember I have a dentist appointment.", "Noted, sir."); err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}
	s.mu.Lock()
	s.doc.LongTermMemory.KeyPoints = append(s.doc.LongTermMemory.KeyPoints, "User dislikes mornings")
	err = s.save()
	s.mu.Unlock()
	if err != nil {
		t.Fatalf("save() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() reopen error = %v", err)
	}

	if len(reopened.doc.Schedule) != 1 || reopened.doc.Schedule[0].Title != "Dentist" {
		t.Fatalf("schedule after reload = %+v", reopened.doc.Schedule)
	}
	if len(reopened.doc.Conversations) != 1 || reopened.doc.Conversations[0].Query != s.doc.Conversations[0].Query {
		t.Fatalf("conversations after reload = %+v", reopened.doc.Conversations)
	}
	if len(reopened.LongTermMemory()) != 1 || reopened.LongTermMemory()[0] != "User dislikes mornings" {
		t.Fatalf("long-term memory after reload = %v", reopened.LongTermMemory())
	}
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if got := s.UserName(); got != "Rowan" {
		t.Fatalf("UserName() = %q, want default", got)
	}
	if len(s.RecentConversations(10)) != 0 {
		t.Fatalf("expected empty conversation list")
	}
}

func TestScheduleIDsDoNotCollideAfterDelete(t *testing.T) {
	s := newTestStore(t)

	first, err := s.AddScheduleItem("a", "2024-03-15", "09:00", "")
	if err != nil {
		t.Fatalf("AddScheduleItem() error = %v", err)
	}
	second, err := s.AddScheduleItem("b", "2024-03-15", "10:00", "")
	if err != nil {
		t.Fatalf("AddScheduleItem() error = %v", err)
	}

	if err = s.DeleteScheduleItem(first.ID); err != nil {
		t.Fatalf("DeleteScheduleItem() error = %v", err)
	}

	third, err := s.AddScheduleItem("c", "2024-03-15", "11:00", "")
	if err != nil {
		t.Fatalf("AddScheduleItem() error = %v", err)
	}

	if third.ID == second.ID {
		t.Fatalf("id collision: %d reused", third.ID)
	}
	if third.ID <= second.ID {
		t.Fatalf("ids not monotonic: %d after %d", third.ID, second.ID)
	}
}

func TestCounterSeededFromLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	legacy := `{
  "user": {"name": "Rowan", "preferences": {}},
  "conversations": [],
  "schedule": [
    {"id": 1, "title": "a", "date": "2024-03-15", "time": "09:00", "description": "", "completed": false},
    {"id": 3, "title": "b", "date": "2024-03-15", "time": "10:00", "description": "", "completed": false}
  ],
  "fitness": {"workouts": [], "goals": {}, "nutrition": {"goals": {"calories": 0, "protein": 0, "carbs": 0, "fats": 0, "goal_type": ""}, "logs": [], "weight_logs": []}},
  "movie_preferences": [],
  "long_term_memory": {"key_points": []}
}`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	item, err := s.AddScheduleItem("c", "2024-03-16", "11:00", "")
	if err != nil {
		t.Fatalf("AddScheduleItem() error = %v", err)
	}
	if item.ID != 4 {
		t.Fatalf("item.ID = %d, want 4", item.ID)
	}
}

func TestDeleteScheduleItemNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddScheduleItem("a", "2024-03-15", "09:00", ""); err != nil {
		t.Fatalf("AddScheduleItem() error = %v", err)
	}

	if err := s.DeleteScheduleItem(42); err != ErrNotFound {
		t.Fatalf("DeleteScheduleItem(42) = %v, want ErrNotFound", err)
	}

	if got := s.ScheduleForDate("2024-03-15"); len(got) != 1 || got[0].Title != "a" {
		t.Fatalf("schedule changed by failed delete: %+v", got)
	}
}

func TestMarkScheduleCompleted(t *testing.T) {
	s := newTestStore(t)

	item, err := s.AddScheduleItem("a", "2024-03-15", "09:00", "")
	if err != nil {
		t.Fatalf("AddScheduleItem() error = %v", err)
	}

	if err = s.MarkScheduleCompleted(item.ID, true); err != nil {
		t.Fatalf("MarkScheduleCompleted() error = %v", err)
	}
	if got := s.ScheduleForDate("2024-03-15"); !got[0].Completed {
		t.Fatalf("item not marked completed")
	}

	if err = s.MarkScheduleCompleted(42, true); err != ErrNotFound {
		t.Fatalf("MarkScheduleCompleted(42) = %v, want ErrNotFound", err)
	}
}

func TestUpcomingScheduleRange(t *testing.T) {
	s := newTestStore(t)
	s.nowFn = func() time.Time { return time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC) }

	for _, date := range []string{"2024-03-14", "2024-03-20", "2024-03-21"} {
		if _, err := s.AddScheduleItem("x", date, "09:00", ""); err != nil {
			t.Fatalf("AddScheduleItem() error = %v", err)
		}
	}

	got := s.UpcomingSchedule(7)
	if len(got) != 2 {
		t.Fatalf("UpcomingSchedule(7) = %+v, want today and today+6 only", got)
	}
	for _, item := range got {
		if item.Date == "2024-03-21" {
			t.Fatalf("item beyond the window included: %+v", item)
		}
	}
}

func TestConcurrentWorkoutIDsUnique(t *testing.T) {
	s := newTestStore(t)

	const workers = 20

	var wg sync.WaitGroup
	ids := make(chan int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			workout, err := s.AddWorkout("bench press", 10, 60, "2024-03-14")
			if err != nil {
				t.Errorf("AddWorkout() error = %v", err)
				return
			}
			ids <- workout.ID
		}()
	}

	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate workout id %d", id)
		}
		seen[id] = true
	}
}

func TestFitnessProgress(t *testing.T) {
	s := newTestStore(t)

	if progress := s.CalculateFitnessProgress("squat"); progress.Status != "insufficient_data" {
		t.Fatalf("Status = %q, want insufficient_data", progress.Status)
	}

	if _, err := s.AddWorkout("squat", 10, 100, "2024-03-01"); err != nil {
		t.Fatalf("AddWorkout() error = %v", err)
	}
	if _, err := s.AddWorkout("Squat", 12, 110, "2024-03-10"); err != nil {
		t.Fatalf("AddWorkout() error = %v", err)
	}

	progress := s.CalculateFitnessProgress("squat")
	if progress.Status != "success" {
		t.Fatalf("Status = %q, want success", progress.Status)
	}
	if progress.WeightChange != 10 || progress.RepsChange != 2 {
		t.Fatalf("progress = %+v", progress)
	}
	if !progress.OnTrack {
		t.Fatalf("expected OnTrack")
	}
}

func TestResetDailyNutrition(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC)

	s.nowFn = func() time.Time { return base.AddDate(0, 0, -2) }
	if _, err := s.LogFood("stale oats", 300, 10, 40, 5); err != nil {
		t.Fatalf("LogFood() error = %v", err)
	}

	s.nowFn = func() time.Time { return base.AddDate(0, 0, -1) }
	if _, err := s.LogFood("chicken", 500, 45, 0, 20); err != nil {
		t.Fatalf("LogFood() error = %v", err)
	}

	s.nowFn = func() time.Time { return base }
	if _, err := s.LogFood("eggs", 200, 14, 1, 15); err != nil {
		t.Fatalf("LogFood() error = %v", err)
	}

	if err := s.ResetDailyNutrition(); err != nil {
		t.Fatalf("ResetDailyNutrition() error = %v", err)
	}

	logs := s.doc.Fitness.Nutrition.Logs
	if len(logs) != 1 || logs[0].FoodName != "eggs" {
		t.Fatalf("logs after reset = %+v, want only today's", logs)
	}

	archive, ok := s.doc.Fitness.NutritionHistory["2024-03-13"]
	if !ok {
		t.Fatalf("yesterday not archived: %+v", s.doc.Fitness.NutritionHistory)
	}
	if len(archive.Logs) != 1 || archive.Logs[0].FoodName != "chicken" {
		t.Fatalf("archive.Logs = %+v", archive.Logs)
	}
	if archive.Summary.TotalCalories != 500 {
		t.Fatalf("archive.Summary = %+v", archive.Summary)
	}

	if _, ok = s.doc.Fitness.NutritionHistory["2024-03-12"]; ok {
		t.Fatalf("logs older than yesterday must be dropped, not archived")
	}

	// A second run the same day changes nothing.
	if err := s.ResetDailyNutrition(); err != nil {
		t.Fatalf("ResetDailyNutrition() error = %v", err)
	}
	if len(s.doc.Fitness.Nutrition.Logs) != 1 || len(s.doc.Fitness.NutritionHistory) != 1 {
		t.Fatalf("second reset changed state: logs=%+v history=%+v",
			s.doc.Fitness.Nutrition.Logs, s.doc.Fitness.NutritionHistory)
	}
}

func TestMoviePreferencesOrderedByFrequency(t *testing.T) {
	s := newTestStore(t)

	for _, genre := range []string{"sci-fi", "comedy", "sci-fi"} {
		if err := s.AddMoviePreference(genre, "", 0); err != nil {
			t.Fatalf("AddMoviePreference() error = %v", err)
		}
	}

	got := s.MoviePreferences()
	if len(got) != 2 || got[0] != "sci-fi" {
		t.Fatalf("MoviePreferences() = %v", got)
	}
}

func TestNutritionSummary(t *testing.T) {
	s := newTestStore(t)
	s.nowFn = func() time.Time { return time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC) }

	if err := s.SetNutritionGoals(NutritionGoals{Calories: 2000, Protein: 150, GoalType: "cut"}); err != nil {
		t.Fatalf("SetNutritionGoals() error = %v", err)
	}
	if _, err := s.LogFood("oats", 400, 15, 60, 8); err != nil {
		t.Fatalf("LogFood() error = %v", err)
	}

	summary := s.NutritionSummary("")
	if summary.TotalCalories != 400 || summary.RemainingCalories != 1600 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.GoalType != "cut" {
		t.Fatalf("GoalType = %q", summary.GoalType)
	}
}
