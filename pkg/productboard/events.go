package productboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Static errors for err113 compliance.
var (
	ErrNATSURLRequired          = errors.New("NATS URL required for the nats event publisher")
	ErrUnsupportedPublisherType = errors.New("unsupported event publisher type")
)

// Diagnostic event types emitted by the dispatcher.
const (
	EventRequestAttempted = "request_attempted"
	EventResponseReceived = "response_received"
	EventRequestFailed    = "request_failed"
)

// DiagnosticEvent is one structured dispatcher event. The authorization
// header is redacted before the event is built; the credential itself never
// leaves the process.
type DiagnosticEvent struct {
	Time    time.Time `json:"time"`
	Type    string    `json:"type"`
	Method  string    `json:"method"`
	Path    string    `json:"path"`
	Attempt int       `json:"attempt,omitempty"`
	Status  int       `json:"status,omitempty"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// EventPublisher mirrors dispatcher diagnostics to an external sink.
type EventPublisher interface {
	Publish(event DiagnosticEvent)
	Close()
}

// PublisherType selects the event publisher backend.
type PublisherType string

const (
	// PublisherTypeNone discards events.
	PublisherTypeNone PublisherType = "none"

	// PublisherTypeLog writes events to the configured logger.
	PublisherTypeLog PublisherType = "log"

	// PublisherTypeNATS publishes events to a NATS subject.
	PublisherTypeNATS PublisherType = "nats"
)

// EventsConfig configures the diagnostic-event mirror. The zero value
// disables it.
type EventsConfig struct {
	// Type is the publisher backend.
	Type PublisherType

	// URL is the NATS server URL, e.g. "nats://localhost:4222".
	URL string

	// Subject is the NATS subject events are published to.
	Subject string
}

// DefaultEventsSubject is used when no subject is configured.
const DefaultEventsSubject = "productboard.diagnostics"

// NewEventPublisher creates an event publisher from configuration.
func NewEventPublisher(config EventsConfig, logger Logger) (EventPublisher, error) {
	switch config.Type {
	case PublisherTypeNone, "":
		return NoopPublisher{}, nil

	case PublisherTypeLog:
		return &LogPublisher{logger: logger}, nil

	case PublisherTypeNATS:
		if config.URL == "" {
			return nil, ErrNATSURLRequired
		}

		subject := config.Subject
		if subject == "" {
			subject = DefaultEventsSubject
		}

		return NewNATSPublisher(config.URL, subject)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPublisherType, config.Type)
	}
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// Publish does nothing.
func (NoopPublisher) Publish(event DiagnosticEvent) {}

// Close does nothing.
func (NoopPublisher) Close() {}

// LogPublisher writes events to a structured logger.
type LogPublisher struct {
	logger Logger
}

// NewLogPublisher creates a publisher over the given logger.
func NewLogPublisher(logger Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event at debug level.
func (p *LogPublisher) Publish(event DiagnosticEvent) {
	if p.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"method":  event.Method,
		"path":    event.Path,
		"attempt": event.Attempt,
	}

	if event.Status != 0 {
		fields["status"] = event.Status
	}

	if event.Error != "" {
		fields["error"] = event.Error
	}

	p.logger.Debug("Diagnostic Event: "+event.Type, fields)
}

// Close does nothing.
func (p *LogPublisher) Close() {}

// NATSPublisher mirrors events to a NATS subject. Publish failures are
// swallowed: diagnostics must never affect the call they describe.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the NATS server and publishes to subject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish sends the event as JSON.
func (p *NATSPublisher) Publish(event DiagnosticEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	_ = p.conn.Publish(p.subject, payload)
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	_ = p.conn.Drain()
	p.conn.Close()
}
