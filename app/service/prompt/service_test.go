package prompt

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jaws/app/service/datastore"
)

func newTestService(t *testing.T) (*Service, *datastore.Service) {
	t.Helper()

	store, err := datastore.Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("datastore.Open() error = %v", err)
	}

	return &Service{store: store}, store
}

func TestBuildSubstitutesClockContext(t *testing.T) {
	svc, _ := newTestService(t)

	asOf := time.Date(2024, 3, 14, 14, 30, 0, 0, time.UTC)

	prompt := svc.Build("hello", asOf)

	for _, want := range []string{
		"Rowan",
		"02:30 PM",
		"Thursday",
		"March 14, 2024",
		"Afternoon",
		"No significant memory points.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if strings.Contains(prompt, "{") {
		t.Errorf("prompt has unsubstituted placeholders:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "hello") {
		t.Errorf("query not appended last")
	}
}

func TestTimeOfDayBuckets(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, "Morning"},
		{11, "Morning"},
		{12, "Afternoon"},
		{16, "Afternoon"},
		{17, "Evening"},
		{21, "Evening"},
		{22, "Night"},
		{4, "Night"},
		{0, "Night"},
	}

	for _, tt := range tests {
		at := time.Date(2024, 3, 14, tt.hour, 0, 0, 0, time.UTC)
		if got := timeOfDay(at); got != tt.want {
			t.Errorf("timeOfDay(hour=%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestBuildIncludesRecentConversations(t *testing.T) {
	svc, store := newTestService(t)

	if _, err := store.AddConversation("how are you", "Operational, sir."); err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}

	prompt := svc.Build("hello", time.Now())

	if !strings.Contains(prompt, "User: how are you\nJAWS: Operational, sir.") {
		t.Fatalf("recent context missing:\n%s", prompt)
	}
}

func TestBuildIncludesWorkoutHistoryForFitnessQueries(t *testing.T) {
	svc, store := newTestService(t)

	if _, err := store.AddWorkout("bench press", 10, 62.5, "2024-03-10"); err != nil {
		t.Fatalf("AddWorkout() error = %v", err)
	}

	asOf := time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

	withHint := svc.Build("how is my workout progress?", asOf)
	if !strings.Contains(withHint, "Recent workout history:") {
		t.Fatalf("workout history missing")
	}
	if !strings.Contains(withHint, "- bench press: 10 reps at 62.5 kg on 2024-03-10") {
		t.Fatalf("workout line malformed:\n%s", withHint)
	}

	without := svc.Build("what's the weather like?", asOf)
	if strings.Contains(without, "Recent workout history:") {
		t.Fatalf("workout history included for non-fitness query")
	}
}

func TestBuildAppointmentHint(t *testing.T) {
	svc, _ := newTestService(t)

	asOf := time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

	const hint = "The user mentioned an appointment."

	tests := []struct {
		query string
		want  bool
	}{
		{"I have a meeting at 3pm", true},
		{"schedule an appointment tomorrow", true},
		{"I enjoy a good meeting", false},
		{"what happens at 3pm", false},
	}

	for _, tt := range tests {
		got := strings.Contains(svc.Build(tt.query, asOf), hint)
		if got != tt.want {
			t.Errorf("Build(%q) hint = %v, want %v", tt.query, got, tt.want)
		}
	}
}
