package mq

import (
	"context"
	"testing"

	"github.com/easyjob/apiserver/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

func TestNewBackendSelection(t *testing.T) {
	broker, err := New(context.Background(), config.MQConfig{})
	if err != nil || broker != nil {
		t.Fatalf("New(empty) = %v, %v", broker, err)
	}
	if _, err := New(context.Background(), config.MQConfig{Backend: "kafka"}); err == nil {
		t.Fatalf("New(kafka) expected error")
	}
}

func TestHeadersToAttributes(t *testing.T) {
	if attrs := headersToAttributes(nil); attrs != nil {
		t.Fatalf("headersToAttributes(nil) = %v", attrs)
	}

	attrs := headersToAttributes(amqp.Table{
		"event":   "application.created",
		"raw":     []byte("bytes"),
		"attempt": int32(3),
	})
	want := map[string]string{"event": "application.created", "raw": "bytes", "attempt": "3"}
	for key, value := range want {
		if attrs[key] != value {
			t.Errorf("attrs[%q] = %q, want %q", key, attrs[key], value)
		}
	}
}

type recordingBackend struct {
	channel string
	data    []byte
}

func (r *recordingBackend) Publish(_ context.Context, channel string, data []byte, _ map[string]string) (string, error) {
	r.channel = channel
	r.data = data
	return "msg-1", nil
}

func (r *recordingBackend) Subscribe(context.Context, string, Handler) error { return nil }

func (r *recordingBackend) Close() error { return nil }

func TestWrapDelegates(t *testing.T) {
	backend := &recordingBackend{}
	broker := Wrap(backend)

	id, err := broker.Publish(context.Background(), "applications", []byte("{}"), nil)
	if err != nil || id != "msg-1" {
		t.Fatalf("Publish() = %q, %v", id, err)
	}
	if backend.channel != "applications" || string(backend.data) != "{}" {
		t.Fatalf("backend saw channel=%q data=%q", backend.channel, backend.data)
	}
}
