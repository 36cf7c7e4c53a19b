// Package planner asks a language model to turn free-text tasks into a
// schedule: either a full event list or incremental calendar actions.
package planner

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"vibe-planner/internal/reconcile"
	"vibe-planner/models"
)

// Generator sends a prompt to a text model and returns its raw reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request is one scheduling request.
type Request struct {
	Tasks          string
	Date           string
	ExistingEvents []models.ScheduledEvent
}

// Planner builds prompts, calls the model and parses the result.
type Planner struct {
	gen     Generator
	limiter *rate.Limiter
	timeout time.Duration
	loc     *time.Location
}

// New returns a Planner. A nil gen means no API key is configured; every
// Plan call then fails with ErrMissingAPIKey. ratePerMinute <= 0 disables
// rate limiting and timeout <= 0 disables the per-call timeout.
func New(gen Generator, ratePerMinute int, timeout time.Duration) *Planner {
	p := &Planner{gen: gen, timeout: timeout}
	if ratePerMinute > 0 {
		p.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), ratePerMinute)
	}
	return p
}

// WithLocation sets the zone used for proposed times that carry no offset.
// Without it those times are read as UTC.
func (p *Planner) WithLocation(loc *time.Location) *Planner {
	p.loc = loc
	return p
}

// Plan generates a schedule. Model-proposed actions that fail validation are
// returned in Rejected instead of Actions.
func (p *Planner) Plan(ctx context.Context, req Request) (models.ScheduleResponse, error) {
	if strings.TrimSpace(req.Tasks) == "" {
		return models.ScheduleResponse{}, ErrNoTasks
	}
	if p.gen == nil {
		return models.ScheduleResponse{}, ErrMissingAPIKey
	}
	if p.limiter != nil && !p.limiter.Allow() {
		return models.ScheduleResponse{}, ErrRateLimited
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	raw, err := p.gen.Generate(ctx, BuildPrompt(req))
	if err != nil {
		return models.ScheduleResponse{}, err
	}

	resp, err := ParseResponse(raw)
	if err != nil {
		// Raw content stays in the log; callers only see the sentinel.
		slog.Error("Failed to parse JSON from AI", "response", raw, "error", err)
		return models.ScheduleResponse{}, ErrUnparseableResponse
	}

	if len(resp.Actions) > 0 {
		resp.Actions, resp.Rejected = reconcile.Partition(resp.Actions, p.loc)
		if len(resp.Rejected) > 0 {
			slog.Warn("AI proposed invalid calendar actions", "rejected", len(resp.Rejected), "accepted", len(resp.Actions))
		}
	}
	return resp, nil
}
