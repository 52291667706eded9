package modcatalog

import (
	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/modcatalog/pkg/errors"
	"github.com/agentstation/modcatalog/pkg/sources"
)

// Option is a function that configures an Updater.
type Option func(*Updater) error

// WithScraper registers the collector that reports automatically discovered
// facts. A nil collector unregisters it.
func WithScraper(c sources.Collector) Option {
	return withCollector(sources.ScraperID, c)
}

// WithImporter registers the collector that reports manual overrides. A nil
// collector unregisters it.
func WithImporter(c sources.Collector) Option {
	return withCollector(sources.ImporterID, c)
}

func withCollector(id sources.ID, c sources.Collector) Option {
	return func(u *Updater) error {
		if c == nil {
			u.collectors.Delete(id)
			return nil
		}
		if c.ID() != id {
			return &errors.ValidationError{Field: "collector", Value: c.ID(), Message: "must report ID " + id.String()}
		}
		u.collectors.Set(c)
		return nil
	}
}

// WithScraperEnabled configures whether the scraper runs.
func WithScraperEnabled(enabled bool) Option {
	return func(u *Updater) error {
		u.enabled[sources.ScraperID] = enabled
		return nil
	}
}

// WithImporterEnabled configures whether the importer runs.
func WithImporterEnabled(enabled bool) Option {
	return func(u *Updater) error {
		u.enabled[sources.ImporterID] = enabled
		return nil
	}
}

// WithRecorder sets the hook that records every finished run.
func WithRecorder(r RunRecorder) Option {
	return func(u *Updater) error {
		u.recorder = r
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(u *Updater) error {
		if logger == nil {
			return &errors.ValidationError{Field: "logger", Message: "cannot be nil"}
		}
		u.logger = logger
		return nil
	}
}

// WithClock sets the time source.
func WithClock(now func() utc.Time) Option {
	return func(u *Updater) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		u.now = now
		return nil
	}
}

// WithRetirementMonths sets how long an author may be inactive before retirement.
func WithRetirementMonths(months int) Option {
	return func(u *Updater) error {
		if months <= 0 {
			return &errors.ValidationError{Field: "retirement_months", Value: months, Message: "must be positive"}
		}
		u.retirementMonths = months
		return nil
	}
}
