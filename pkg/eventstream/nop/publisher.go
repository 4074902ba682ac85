// Package nop provides the default events driver, which publishes nothing.
package nop

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/deencompass/compass/pkg/eventstream"
)

// Publisher validates and discards exchange events, logging each at debug.
type Publisher struct {
	logger    *slog.Logger
	discarded atomic.Int64
}

// NewPublisher creates a discarding publisher. A nil logger is allowed.
func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{logger: logger}
}

func (p *Publisher) PublishExchange(_ context.Context, event *eventstream.ExchangeEvent) error {
	if err := eventstream.Validate(event); err != nil {
		return err
	}

	p.discarded.Add(1)
	p.logger.Debug("exchange event discarded",
		"event_id", event.EventID,
		"provider", event.Source.Provider,
		"duration_ms", event.RequestMeta.DurationMs,
	)
	return nil
}

// Discarded returns how many valid events were accepted and dropped.
func (p *Publisher) Discarded() int64 {
	return p.discarded.Load()
}

func (p *Publisher) Close() error {
	return nil
}
