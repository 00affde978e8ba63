// Package assistant wires the conversation pipeline: assemble a stateful
// prompt, call the model once, extract and commit embedded actions, then
// record the exchange. Each query runs the pipeline linearly; a gateway
// failure short-circuits before anything is committed.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jaws/app/observability"
	"jaws/app/service/actions"
	"jaws/app/service/datastore"
	"jaws/app/service/gateway"
	"jaws/app/service/prompt"

	"github.com/samber/do"
)

// Result is the outcome of one query: the cleaned response text and the
// side effects that were committed while producing it.
type Result struct {
	Response string           `json:"response"`
	Actions  []actions.Action `json:"committed_actions"`
}

type Service struct {
	store      *datastore.Service
	promptSvc  *prompt.Service
	actionsSvc *actions.Service
	model      gateway.Model
	metrics    *observability.Metrics
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		store:      do.MustInvoke[*datastore.Service](di),
		promptSvc:  do.MustInvoke[*prompt.Service](di),
		actionsSvc: do.MustInvoke[*actions.Service](di),
		model:      do.MustInvoke[gateway.Model](di),
		metrics:    do.MustInvoke[*observability.Metrics](di),
	}, nil
}

// Ask runs the full pipeline for one query as of the given wall-clock
// moment. On model failure nothing is recorded and no action is
// committed. A malformed action inside a successful reply degrades to an
// annotated response; the conversation is still recorded.
func (s *Service) Ask(ctx context.Context, query string, asOf time.Time) (*Result, error) {
	s.metrics.QueriesTotal.Inc()

	fullPrompt := s.promptSvc.Build(query, asOf)

	start := time.Now()
	raw, err := s.model.Generate(ctx, fullPrompt)
	s.metrics.ObserveModelLatency(time.Since(start))

	if err != nil {
		s.metrics.ModelErrors.Inc()
		return nil, fmt.Errorf("model.Generate: %w", err)
	}

	text := actions.CleanMarkdown(raw)

	text, committed := s.actionsSvc.Apply(text, asOf)
	for _, action := range committed {
		s.metrics.ActionsCommitted.WithLabelValues(action.Kind).Inc()
	}

	if _, err = s.store.AddConversation(query, text); err != nil {
		// The reply already exists and its actions are committed; losing
		// the history entry is not worth failing the request over.
		slog.Error("Failed to record conversation", "error", err)
	}

	slog.Info("Processed query",
		"query", query,
		"actions", len(committed),
		"duration", time.Since(start))

	return &Result{
		Response: text,
		Actions:  committed,
	}, nil
}
