// Package scheduler fires the dispatch flow on a recurring trigger
// derived from {frequency, time-of-day, timezone}.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"linkdigest/internal/digest"
	"linkdigest/internal/logger"
)

// Clock abstracts wall-clock access so the trigger loop is testable
// without real waits.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

// Config is the schedule portion of the service configuration.
type Config struct {
	Frequency  string // "daily" | "weekly" | "monthly"
	TimeToSend string // "HH:MM", 24-hour
	Timezone   string // IANA zone name
}

// Scheduler runs an explicit timer loop: it computes the next fire
// time from a cron schedule evaluated in the configured timezone and
// sleeps until then. Triggers never overlap a running dispatch; the
// dispatch service skips the run instead.
type Scheduler struct {
	service  *digest.Service
	schedule cron.Schedule
	location *time.Location
	spec     string
	clock    Clock
	stopCh   chan struct{}
	logger   logger.Logger
}

// New builds a scheduler. An unknown frequency or timezone is a fatal
// configuration error; an invalid time-of-day only degrades to 09:00.
func New(service *digest.Service, cfg Config, clock Clock, log logger.Logger) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	hour, minute := ParseTimeOfDay(cfg.TimeToSend, log)

	spec, err := cronSpec(cfg.Frequency, hour, minute)
	if err != nil {
		return nil, err
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cron spec %q: %w", spec, err)
	}

	return &Scheduler{
		service:  service,
		schedule: schedule,
		location: location,
		spec:     spec,
		clock:    clock,
		stopCh:   make(chan struct{}),
		logger:   log,
	}, nil
}

// cronSpec translates a frequency and time-of-day into a standard
// cron expression: daily at HH:MM, weekly on Monday, monthly on the
// first day of the month.
func cronSpec(frequency string, hour, minute int) (string, error) {
	switch frequency {
	case "daily":
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	case "weekly":
		return fmt.Sprintf("%d %d * * 1", minute, hour), nil
	case "monthly":
		return fmt.Sprintf("%d %d 1 * *", minute, hour), nil
	default:
		return "", fmt.Errorf("invalid notification frequency: %q", frequency)
	}
}

// Spec returns the derived cron expression.
func (s *Scheduler) Spec() string { return s.spec }

// Next returns the fire time following now, evaluated in the
// configured timezone.
func (s *Scheduler) Next(now time.Time) time.Time {
	return s.schedule.Next(now.In(s.location))
}

// Start launches the trigger loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler started",
		logger.String("spec", s.spec),
		logger.String("timezone", s.location.String()),
		logger.Time("next_fire", s.Next(s.clock.Now())))

	go s.loop(ctx)
}

// Stop terminates the trigger loop.
func (s *Scheduler) Stop() {
	close(s.stopCh)
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		now := s.clock.Now()
		next := s.Next(now)

		select {
		case <-s.clock.After(next.Sub(now)):
			s.run(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// run executes one scheduled dispatch. Failures abort this cycle only;
// the next trigger is unaffected.
func (s *Scheduler) run(ctx context.Context) {
	err := s.service.Run(ctx)
	switch {
	case errors.Is(err, digest.ErrRunInProgress):
		s.logger.Warn("skipping scheduled run, previous dispatch still in flight")
	case err != nil:
		s.logger.Error("scheduled dispatch failed", logger.Error(err))
	}
}
