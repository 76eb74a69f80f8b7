// Package provision creates the monitoring alarms of a newly launched EC2 instance.
package provision

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/alarm"
	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/instance"
)

var tracer = otel.Tracer("github.com/ab0utbla-k/ec2-alarm-provisioner/internal/provision")

const (
	// MarkerTagKey is the tag that requests alarm provisioning. It is removed once processed.
	MarkerTagKey = "ALARM"
	// MarkerValue must be contained in the marker tag value for provisioning to occur.
	MarkerValue = "first_run"
)

// InstanceProvider reads instance metadata and removes instance tags.
type InstanceProvider interface {
	Describe(ctx context.Context, instanceID string) (*instance.Info, error)
	RemoveTag(ctx context.Context, instanceID, key string) error
}

// AlarmRegistry checks for and creates named alarms.
type AlarmRegistry interface {
	Exists(ctx context.Context, name string) (bool, error)
	Put(ctx context.Context, spec alarm.Spec) error
}

// Result summarizes a single provisioning run.
type Result struct {
	InstanceID   string   `json:"instanceID"`
	InstanceName string   `json:"instanceName"`
	Provisioned  bool     `json:"provisioned"`
	Created      []string `json:"created"`
	Skipped      []string `json:"skipped"`
}

// Provisioner evaluates the marker tag of an instance and creates its missing alarms.
type Provisioner struct {
	instances InstanceProvider
	alarms    AlarmRegistry
	logger    *slog.Logger
}

// NewProvisioner creates a new Provisioner instance.
func NewProvisioner(instances InstanceProvider, alarms AlarmRegistry, logger *slog.Logger) *Provisioner {
	return &Provisioner{
		instances: instances,
		alarms:    alarms,
		logger:    logger,
	}
}

// Provision creates the CPU, memory and disk alarms of the instance if it carries
// the marker tag, then removes the marker tag. Alarms that already exist are left untouched.
// Any error aborts the run; alarms created before the error are kept and the marker
// tag is not removed.
func (p *Provisioner) Provision(ctx context.Context, instanceID string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "provision.run")
	defer span.End()
	span.SetAttributes(attribute.String("instance.id", instanceID))

	info, err := p.instances.Describe(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		InstanceID:   instanceID,
		InstanceName: info.Name(),
		Created:      []string{},
		Skipped:      []string{},
	}

	if !info.HasMarker(MarkerTagKey, MarkerValue) {
		p.logger.InfoContext(
			ctx,
			"instance does not carry marker tag; skipping",
			slog.String("instanceID", instanceID),
		)
		return result, nil
	}

	for _, spec := range alarm.BuildSpecs(info) {
		exists, err := p.alarms.Exists(ctx, spec.Name)
		if err != nil {
			return nil, err
		}

		if exists {
			p.logger.InfoContext(
				ctx,
				"alarm already exists; skipping creation",
				slog.String("alarmName", spec.Name),
			)
			result.Skipped = append(result.Skipped, spec.Name)
			continue
		}

		if err := p.alarms.Put(ctx, spec); err != nil {
			return nil, err
		}

		p.logger.InfoContext(ctx, "created alarm", slog.String("alarmName", spec.Name))
		result.Created = append(result.Created, spec.Name)
	}

	if err := p.instances.RemoveTag(ctx, instanceID, MarkerTagKey); err != nil {
		return nil, fmt.Errorf("alarms processed but marker tag not removed: %w", err)
	}

	p.logger.InfoContext(
		ctx,
		"removed marker tag",
		slog.String("instanceID", instanceID),
		slog.String("tagKey", MarkerTagKey),
	)

	result.Provisioned = true
	span.SetAttributes(
		attribute.Int("alarms.created", len(result.Created)),
		attribute.Int("alarms.skipped", len(result.Skipped)),
	)

	return result, nil
}
