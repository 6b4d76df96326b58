package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/easyjob/apiserver/internal/mq"
	"github.com/easyjob/apiserver/types"
)

// Application event types.
const (
	EventApplicationCreated       = "application.created"
	EventApplicationStatusChanged = "application.status_changed"
)

// ApplicationEvent is published after an application write commits.
type ApplicationEvent struct {
	Type          string                  `json:"type"`
	ApplicationID int                     `json:"application_id"`
	VacancyID     int                     `json:"vacancy_id"`
	UserID        int                     `json:"user_id"`
	Status        types.ApplicationStatus `json:"status"`
	OccurredAt    time.Time               `json:"occurred_at"`
}

// Publisher sends raw messages to a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Events publishes application events. A nil publisher makes it a no-op.
type Events struct {
	publisher Publisher
	channel   string
	logger    *slog.Logger
}

func NewEvents(publisher Publisher, channel string, logger *slog.Logger) *Events {
	if logger == nil {
		logger = slog.Default()
	}
	return &Events{publisher: publisher, channel: channel, logger: logger}
}

func (e *Events) application(ctx context.Context, eventType string, application types.Application) {
	if e == nil || e.publisher == nil {
		return
	}
	event := ApplicationEvent{
		Type:          eventType,
		ApplicationID: application.ID,
		VacancyID:     application.VacancyID,
		UserID:        application.UserID,
		Status:        application.Status,
		OccurredAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		e.logger.Error("encode application event", "type", eventType, "error", err)
		return
	}
	attrs := map[string]string{
		"type":             eventType,
		mq.AttrOrderingKey: "application-" + strconv.Itoa(application.ID),
	}
	if _, err := e.publisher.Publish(ctx, e.channel, data, attrs); err != nil {
		e.logger.Error("publish application event",
			"type", eventType,
			"application_id", application.ID,
			"error", err,
		)
	}
}

// DecodeApplicationEvent parses a message body published by Events.
func DecodeApplicationEvent(data []byte) (ApplicationEvent, error) {
	var event ApplicationEvent
	err := json.Unmarshal(data, &event)
	return event, err
}
