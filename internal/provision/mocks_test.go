package provision

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/alarm"
	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/instance"
)

// InstanceProviderMock is a mock implementation of the InstanceProvider interface.
type InstanceProviderMock struct {
	mock.Mock
}

func (m *InstanceProviderMock) Describe(ctx context.Context, instanceID string) (*instance.Info, error) {
	args := m.Called(ctx, instanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*instance.Info), args.Error(1)
}

func (m *InstanceProviderMock) RemoveTag(ctx context.Context, instanceID, key string) error {
	args := m.Called(ctx, instanceID, key)
	return args.Error(0)
}

// AlarmRegistryMock is a mock implementation of the AlarmRegistry interface.
type AlarmRegistryMock struct {
	mock.Mock
}

func (m *AlarmRegistryMock) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *AlarmRegistryMock) Put(ctx context.Context, spec alarm.Spec) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}
