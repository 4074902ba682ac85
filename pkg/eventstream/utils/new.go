package eventstreamutils

import (
	"fmt"
	"log/slog"

	"github.com/deencompass/compass/pkg/eventstream"
	"github.com/deencompass/compass/pkg/eventstream/kafka"
	"github.com/deencompass/compass/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	Driver  string
	Brokers []string
	Topic   string

	// Logger receives the nop driver's debug output.
	Logger *slog.Logger
}

// NewPublisher builds the publisher for o.Driver. An empty driver means nop.
func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.Driver {
	case "", "nop":
		return nop.NewPublisher(o.Logger), nil
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers: o.Brokers,
			Topic:   o.Topic,
		})
	default:
		return nil, fmt.Errorf("unsupported events driver: %q (supported: nop, kafka)", o.Driver)
	}
}
