package service

import (
	"log/slog"

	"github.com/AdamBeresnev/racquet-draw/internal/events"
	"github.com/AdamBeresnev/racquet-draw/internal/logging"
	"github.com/AdamBeresnev/racquet-draw/internal/metrics"
)

// Observers are the side channels a service reports to. Every field is optional.
type Observers struct {
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	Events  events.Publisher
}

func (o Observers) withDefaults() Observers {
	o.Logger = logging.OrDefault(o.Logger)
	if o.Events == nil {
		o.Events = events.Discard{}
	}
	return o
}
