package productboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingLogger records debug messages for assertions.
type capturingLogger struct {
	messages []string
	fields   []map[string]interface{}
}

func (l *capturingLogger) Debug(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
	l.fields = append(l.fields, fields)
}

func (l *capturingLogger) Info(msg string, fields map[string]interface{})  {}
func (l *capturingLogger) Warn(msg string, fields map[string]interface{})  {}
func (l *capturingLogger) Error(msg string, fields map[string]interface{}) {}

func TestNewEventPublisher(t *testing.T) {
	t.Run("zero config disables events", func(t *testing.T) {
		publisher, err := NewEventPublisher(EventsConfig{}, nil)
		require.NoError(t, err)
		assert.IsType(t, NoopPublisher{}, publisher)
	})

	t.Run("explicit none", func(t *testing.T) {
		publisher, err := NewEventPublisher(EventsConfig{Type: PublisherTypeNone}, nil)
		require.NoError(t, err)
		assert.IsType(t, NoopPublisher{}, publisher)
	})

	t.Run("log publisher", func(t *testing.T) {
		publisher, err := NewEventPublisher(EventsConfig{Type: PublisherTypeLog}, &capturingLogger{})
		require.NoError(t, err)
		assert.IsType(t, &LogPublisher{}, publisher)
	})

	t.Run("nats requires a URL", func(t *testing.T) {
		_, err := NewEventPublisher(EventsConfig{Type: PublisherTypeNATS}, nil)
		require.ErrorIs(t, err, ErrNATSURLRequired)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := NewEventPublisher(EventsConfig{Type: "kafka"}, nil)
		require.ErrorIs(t, err, ErrUnsupportedPublisherType)
	})
}

func TestLogPublisher_Publish(t *testing.T) {
	logger := &capturingLogger{}
	publisher := NewLogPublisher(logger)

	publisher.Publish(DiagnosticEvent{
		Time:    time.Now(),
		Type:    EventRequestFailed,
		Method:  "GET",
		Path:    "/features",
		Attempt: 2,
		Status:  503,
		Kind:    ErrorKindServerError,
		Error:   "Service Unavailable",
	})

	require.Len(t, logger.messages, 1)
	assert.Equal(t, "Diagnostic Event: request_failed", logger.messages[0])

	fields := logger.fields[0]
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/features", fields["path"])
	assert.Equal(t, 2, fields["attempt"])
	assert.Equal(t, 503, fields["status"])
	assert.Equal(t, "Service Unavailable", fields["error"])
}

func TestLogPublisher_OmitsZeroFields(t *testing.T) {
	logger := &capturingLogger{}
	publisher := NewLogPublisher(logger)

	publisher.Publish(DiagnosticEvent{
		Type:    EventRequestAttempted,
		Method:  "GET",
		Path:    "/features",
		Attempt: 1,
	})

	fields := logger.fields[0]
	assert.NotContains(t, fields, "status")
	assert.NotContains(t, fields, "error")
}

func TestLogPublisher_NilLogger(t *testing.T) {
	publisher := NewLogPublisher(nil)

	// Must not panic.
	publisher.Publish(DiagnosticEvent{Type: EventResponseReceived})
	publisher.Close()
}

func TestNoopPublisher(t *testing.T) {
	publisher := NoopPublisher{}

	publisher.Publish(DiagnosticEvent{Type: EventRequestAttempted})
	publisher.Close()
}
