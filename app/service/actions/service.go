// Package actions parses model output for embedded command tokens and
// commits the side effects they describe. The grammar is deliberately
// tiny: one schedule token and one notify token per response, first match
// wins, everything else in the text is left alone.
package actions

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"jaws/app/service/datastore"

	"github.com/samber/do"
)

const (
	KindSchedule     = "schedule"
	KindNotification = "notification"
)

// Action is one side effect committed while cleaning a model response.
type Action struct {
	Kind string                 `json:"kind"`
	Item datastore.ScheduleItem `json:"item"`
}

var (
	scheduleTokenPattern = regexp.MustCompile(`schedule/([^/\n]+)/([^/\n]+)/([^/\n]+)/([^\n]+)`)
	notifyTokenPattern   = regexp.MustCompile(`notify/([^/\n]+)/([^\n]+)`)
)

type Service struct {
	store *datastore.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		store: do.MustInvoke[*datastore.Service](di),
	}, nil
}

// Apply extracts and commits the schedule and notify tokens embedded in
// text, evaluated as of the given moment. It returns the user-visible
// text with tokens stripped and confirmation (or failure) sentences
// appended, plus the committed actions. A store failure on commit is
// logged and degrades to no confirmation; it never aborts.
func (s *Service) Apply(text string, asOf time.Time) (string, []Action) {
	committed := []Action{}

	text, committed = s.applySchedule(text, asOf, committed)
	text, committed = s.applyNotify(text, asOf, committed)

	return text, committed
}

func (s *Service) applySchedule(text string, asOf time.Time, committed []Action) (string, []Action) {
	match := scheduleTokenPattern.FindStringSubmatch(text)
	if match == nil {
		return text, committed
	}

	name := match[1]
	date := ResolveDate(match[2], asOf)
	timeOfDay := match[3]
	description := match[4]

	item, err := s.store.AddScheduleItem(name, date, timeOfDay, description)
	if err != nil {
		slog.Error("Failed to commit schedule item", "title", name, "error", err)
		return text, committed
	}

	text = strings.Replace(text, match[0], "", 1)
	text += fmt.Sprintf("\n\nI've added this to your schedule: %s on %s at %s", name, date, timeOfDay)

	return text, append(committed, Action{Kind: KindSchedule, Item: item})
}

func (s *Service) applyNotify(text string, asOf time.Time, committed []Action) (string, []Action) {
	match := notifyTokenPattern.FindStringSubmatch(text)
	if match == nil {
		return text, committed
	}

	notifyTime := match[1]
	message := match[2]

	parsed, err := time.Parse("15:04", notifyTime)
	if err != nil {
		slog.Warn("Invalid notification time format", "time", notifyTime)

		text = strings.Replace(text, match[0], "", 1)
		text += "\n\nI couldn't set up the notification due to an invalid time format."

		return text, committed
	}

	date := asOf
	moment := time.Date(asOf.Year(), asOf.Month(), asOf.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, asOf.Location())

	// A time already behind us today means tomorrow.
	if moment.Before(asOf) {
		date = date.AddDate(0, 0, 1)
	}

	item, err := s.store.AddScheduleItem("Notification", date.Format("2006-01-02"), notifyTime, message)
	if err != nil {
		slog.Error("Failed to commit notification", "time", notifyTime, "error", err)
		return text, committed
	}

	text = strings.Replace(text, match[0], "", 1)
	text += fmt.Sprintf("\n\nI'll notify you at %s: %s", notifyTime, message)

	return text, append(committed, Action{Kind: KindNotification, Item: item})
}
