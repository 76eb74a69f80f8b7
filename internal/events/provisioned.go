// Package events provides the event types emitted by the alarm provisioner.
package events

import "time"

const (
	// Source identifies provisioner events on the event bus.
	Source = "ec2.alarm.provisioner"
	// DetailTypeProvisioned is the detail type of ProvisionedEvent.
	DetailTypeProvisioned = "EC2 Alarms Provisioned"
)

// ProvisionedEvent reports the alarms handled for an instance whose marker tag was processed.
type ProvisionedEvent struct {
	AccountID    string    `json:"accountID"`
	Region       string    `json:"region"`
	Timestamp    time.Time `json:"timestamp"`
	InstanceID   string    `json:"instanceID"`
	InstanceName string    `json:"instanceName"`
	Created      []string  `json:"created"`
	Skipped      []string  `json:"skipped"`
}
