package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/events"
	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/provision"
)

// ProvisionerMock is a mock implementation of the Provisioner interface.
type ProvisionerMock struct {
	mock.Mock
}

func (m *ProvisionerMock) Provision(ctx context.Context, instanceID string) (*provision.Result, error) {
	args := m.Called(ctx, instanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provision.Result), args.Error(1)
}

// PublisherMock is a mock implementation of the Publisher interface.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, event *events.ProvisionedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
