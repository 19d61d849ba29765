package messaging

// Each event type gets its own stream so the worker only reads the types it
// registered handlers for.
const (
	streamPrefix = "cobranza:events:"
	streamMaxLen = 100000
)

func eventStream(eventType string) string {
	return streamPrefix + eventType
}
