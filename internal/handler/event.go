// Package handler adapts EC2 launch events to the alarm provisioner.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	provisionevents "github.com/ab0utbla-k/ec2-alarm-provisioner/internal/events"
	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/provision"
)

const (
	MessageNotMarked   = "Instance does not meet the tag criteria. No alarm created."
	MessageProvisioned = "Alarms processed and 'ALARM' tag removed successfully."
)

// Response is the invocation result. Body holds a JSON encoded message.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Provisioner provisions the alarms of a single instance.
type Provisioner interface {
	Provision(ctx context.Context, instanceID string) (*provision.Result, error)
}

// Publisher announces completed provisioning runs.
type Publisher interface {
	Publish(ctx context.Context, event *provisionevents.ProvisionedEvent) error
}

type EventHandler struct {
	provisioner Provisioner
	publisher   Publisher
	logger      *slog.Logger
}

// NewEventHandler creates an EventHandler. publisher may be nil.
func NewEventHandler(provisioner Provisioner, publisher Publisher, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		provisioner: provisioner,
		publisher:   publisher,
		logger:      logger,
	}
}

// HandleRequest never returns an error; failures are reported as a 500 response.
func (h *EventHandler) HandleRequest(ctx context.Context, event events.CloudWatchEvent) (Response, error) {
	result, err := h.handle(ctx, event)
	if err != nil {
		h.logger.ErrorContext(
			ctx,
			"cannot provision alarms",
			slog.String("error", err.Error()),
		)
		return newResponse(http.StatusInternalServerError, fmt.Sprintf("Error: %s", err)), nil
	}

	if !result.Provisioned {
		return newResponse(http.StatusOK, MessageNotMarked), nil
	}

	h.publish(ctx, event, result)

	return newResponse(http.StatusOK, MessageProvisioned), nil
}

func (h *EventHandler) handle(ctx context.Context, event events.CloudWatchEvent) (*provision.Result, error) {
	var detail struct {
		InstanceID string `json:"instance-id"`
	}

	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return nil, fmt.Errorf("cannot parse event detail: %w", err)
	}

	if detail.InstanceID == "" {
		return nil, errors.New("instance id is empty")
	}

	return h.provisioner.Provision(ctx, detail.InstanceID)
}

func (h *EventHandler) publish(ctx context.Context, event events.CloudWatchEvent, result *provision.Result) {
	if h.publisher == nil {
		return
	}

	err := h.publisher.Publish(ctx, &provisionevents.ProvisionedEvent{
		AccountID:    event.AccountID,
		Region:       event.Region,
		Timestamp:    time.Now().UTC(),
		InstanceID:   result.InstanceID,
		InstanceName: result.InstanceName,
		Created:      result.Created,
		Skipped:      result.Skipped,
	})
	if err != nil {
		h.logger.WarnContext(
			ctx,
			"cannot publish provisioning event",
			slog.String("instanceID", result.InstanceID),
			slog.String("error", err.Error()),
		)
	}
}

func newResponse(statusCode int, message string) Response {
	body, _ := json.Marshal(message)
	return Response{StatusCode: statusCode, Body: string(body)}
}
