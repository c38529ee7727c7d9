package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Sync fetches the next days of events and caches them.
func (s *Service) Sync(ctx context.Context, kv KV, calendarID string, days int) ([]Event, error) {
	if days <= 0 {
		days = 7
	}
	from := s.now()
	events, err := s.Events(ctx, calendarID, from, from.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	if err := SaveCache(kv, events, from); err != nil {
		return nil, fmt.Errorf("cache events: %w", err)
	}
	s.log.Info().Int("events", len(events)).Msg("calendar synced")
	return events, nil
}

// Watch runs fn on schedule (a cron spec such as "@every 15m") until ctx is
// done, then waits for a running fn to finish.
func Watch(ctx context.Context, schedule string, fn func(context.Context)) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { fn(ctx) }); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	c.Start()
	<-ctx.Done()
	stopped := c.Stop()
	select {
	case <-stopped.Done():
	case <-time.After(30 * time.Second):
	}
	return nil
}
