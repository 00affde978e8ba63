package assistant

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jaws/app/observability"
	"jaws/app/service/actions"
	"jaws/app/service/datastore"
	"jaws/app/service/gateway"
	"jaws/app/service/prompt"

	"github.com/samber/do"
)

// Shared across tests; prometheus instruments register globally and can
// only be created once per namespace.
var testMetrics = observability.NewMetrics("assistant_test")

func newTestService(t *testing.T, model gateway.Model) (*Service, *datastore.Service) {
	t.Helper()

	store, err := datastore.Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("datastore.Open() error = %v", err)
	}

	di := do.New()
	do.ProvideValue(di, store)

	promptSvc, err := prompt.New(di)
	if err != nil {
		t.Fatalf("prompt.New() error = %v", err)
	}
	actionsSvc, err := actions.New(di)
	if err != nil {
		t.Fatalf("actions.New() error = %v", err)
	}

	return &Service{
		store:      store,
		promptSvc:  promptSvc,
		actionsSvc: actionsSvc,
		model:      model,
		metrics:    testMetrics,
	}, store
}

func TestAskCommitsActionsAndRecordsConversation(t *testing.T) {
	mock := &gateway.Mock{
		Response: "Certainly, sir.\nschedule/Team Meeting/tomorrow/14:30/Weekly update",
	}
	svc, store := newTestService(t, mock)

	asOf := time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

	result, err := svc.Ask(context.Background(), "set up the team meeting", asOf)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if len(result.Actions) != 1 || result.Actions[0].Kind != actions.KindSchedule {
		t.Fatalf("Actions = %+v", result.Actions)
	}
	if strings.Contains(result.Response, "schedule/") {
		t.Fatalf("token not stripped: %q", result.Response)
	}

	if got := store.ScheduleForDate("2024-03-15"); len(got) != 1 || got[0].Title != "Team Meeting" {
		t.Fatalf("stored schedule = %+v", got)
	}

	conversations := store.RecentConversations(5)
	if len(conversations) != 1 {
		t.Fatalf("conversations = %+v", conversations)
	}
	if conversations[0].Response != result.Response {
		t.Fatalf("recorded response %q differs from returned %q",
			conversations[0].Response, result.Response)
	}
}

func TestAskModelFailureCommitsNothing(t *testing.T) {
	mock := &gateway.Mock{Err: errors.New("quota exceeded")}
	svc, store := newTestService(t, mock)

	_, err := svc.Ask(context.Background(), "schedule something", time.Now())
	if err == nil {
		t.Fatalf("Ask() error = nil, want failure")
	}
	if !errors.Is(err, gateway.ErrGenerationFailed) {
		t.Fatalf("Ask() error = %v, want ErrGenerationFailed", err)
	}

	if got := store.RecentConversations(5); len(got) != 0 {
		t.Fatalf("conversation recorded despite model failure: %+v", got)
	}
	if got := store.UpcomingSchedule(7); len(got) != 0 {
		t.Fatalf("schedule committed despite model failure: %+v", got)
	}
}

func TestAskMalformedNotifyStillRecordsConversation(t *testing.T) {
	mock := &gateway.Mock{Response: "Done.\nnotify/25:99/bad time"}
	svc, store := newTestService(t, mock)

	result, err := svc.Ask(context.Background(), "remind me", time.Now())
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if len(result.Actions) != 0 {
		t.Fatalf("Actions = %+v, want none", result.Actions)
	}
	if !strings.Contains(result.Response, "I couldn't set up the notification due to an invalid time format.") {
		t.Fatalf("missing failure sentence: %q", result.Response)
	}

	if got := store.UpcomingSchedule(7); len(got) != 0 {
		t.Fatalf("schedule = %+v, want empty", got)
	}
	if got := store.RecentConversations(5); len(got) != 1 {
		t.Fatalf("conversations = %+v, want the exchange recorded", got)
	}
}

func TestAskStripsMarkdownBeforeTokenExtraction(t *testing.T) {
	mock := &gateway.Mock{
		Response: "**Noted.**\nschedule/Dentist/2024-03-15/09:00/`Checkup`",
	}
	svc, _ := newTestService(t, mock)

	result, err := svc.Ask(context.Background(), "book it", time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if len(result.Actions) != 1 {
		t.Fatalf("Actions = %+v", result.Actions)
	}
	if result.Actions[0].Item.Description != "Checkup" {
		t.Fatalf("Description = %q, want markdown stripped first", result.Actions[0].Item.Description)
	}
	if strings.Contains(result.Response, "**") {
		t.Fatalf("markdown left in response: %q", result.Response)
	}
}

func TestAskSendsStatefulPrompt(t *testing.T) {
	mock := &gateway.Mock{Response: "Hello, sir."}
	svc, store := newTestService(t, mock)

	if _, err := store.AddConversation("earlier question", "earlier answer"); err != nil {
		t.Fatalf("AddConversation() error = %v", err)
	}

	if _, err := svc.Ask(context.Background(), "what did I just ask?", time.Now()); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if len(mock.Prompts) != 1 {
		t.Fatalf("Prompts = %d calls, want 1", len(mock.Prompts))
	}

	sent := mock.Prompts[0]
	if !strings.Contains(sent, "User: earlier question") {
		t.Fatalf("prompt missing conversation context:\n%s", sent)
	}
	if !strings.HasSuffix(sent, "what did I just ask?") {
		t.Fatalf("query not last in prompt")
	}
}
