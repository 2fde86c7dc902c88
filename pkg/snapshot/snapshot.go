// Package snapshot periodically publishes the dashboard summary on the event bus.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukex/flowdesk/pkg/dashboard"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
	"github.com/dukex/flowdesk/pkg/services"
	"github.com/robfig/cron/v3"
)

var ErrAlreadyStarted = errors.New("snapshotter already started")

// Summarizer computes a dashboard summary.
type Summarizer interface {
	Summary(ctx context.Context, filter services.DashboardFilter) (dashboard.Summary, error)
}

type Snapshotter struct {
	summarizer Summarizer
	publisher  eventbus.EventPublisher
	schedule   string
	filter     services.DashboardFilter
	logger     *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// New validates schedule, a standard cron expression or descriptor such as
// "@every 5m".
func New(
	summarizer Summarizer,
	publisher eventbus.EventPublisher,
	schedule string,
	filter services.DashboardFilter,
	logger *slog.Logger,
) (*Snapshotter, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}

	return &Snapshotter{
		summarizer: summarizer,
		publisher:  publisher,
		schedule:   schedule,
		filter:     filter,
		logger:     logger,
	}, nil
}

// Start runs RunOnce on the schedule until Stop is called or ctx is done.
func (s *Snapshotter) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return ErrAlreadyStarted
	}

	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Dashboard snapshot failed", "error", err)
		}
	})
	if err != nil {
		s.cron = nil

		return fmt.Errorf("failed to schedule snapshot: %w", err)
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "Dashboard snapshots scheduled", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the schedule and waits for a running snapshot to finish.
func (s *Snapshotter) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// RunOnce computes the summary and publishes it as a dashboard.snapshot event.
func (s *Snapshotter) RunOnce(ctx context.Context) (dashboard.Summary, error) {
	summary, err := s.summarizer.Summary(ctx, s.filter)
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("failed to compute summary: %w", err)
	}

	event := events.DashboardSnapshot{
		BaseEvent: events.NewBaseEvent(events.DashboardSnapshotEvent, ""),
		Summary:   summary,
	}
	event.OrganizationID = s.filter.OrganizationID

	err = s.publisher.Publish(ctx, "dashboard", event)
	if err != nil {
		return summary, fmt.Errorf("failed to publish snapshot: %w", err)
	}

	s.logger.DebugContext(ctx, "Published dashboard snapshot", "total_flows", summary.TotalFlows)

	return summary, nil
}
