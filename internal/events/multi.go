package events

import (
	"context"

	"activity-registry/internal/common/logger"
	"activity-registry/internal/common/metrics"
)

// Multi publishes to every sink. A failing sink is logged and counted and
// does not stop delivery to the others.
type Multi struct {
	sinks  []Publisher
	logger logger.Logger
}

func NewMulti(log logger.Logger, sinks ...Publisher) *Multi {
	return &Multi{sinks: sinks, logger: log}
}

func (m *Multi) Name() string { return "multi" }

// Len reports how many sinks are configured.
func (m *Multi) Len() int { return len(m.sinks) }

// Publish returns the first sink error, after trying all sinks.
func (m *Multi) Publish(ctx context.Context, event Event) error {
	var first error
	for _, sink := range m.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			metrics.EventPublishFailures.WithLabelValues(sink.Name()).Inc()
			m.logger.Warn("Failed to publish enrollment event", map[string]interface{}{
				"sink":     sink.Name(),
				"eventId":  event.ID,
				"type":     event.Type,
				"activity": event.Activity,
				"error":    err.Error(),
			})
			if first == nil {
				first = err
			}
		}
	}
	return first
}
