// Package instance reads EC2 instance metadata and mutates instance tags.
package instance

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/ab0utbla-k/ec2-alarm-provisioner/internal/instance")

const (
	DefaultName         = "UnnamedInstance"
	DefaultImageID      = "UnknownImageId"
	DefaultInstanceType = "UnknownInstanceType"

	nameTagKey = "Name"
)

// Tag is a single instance tag. Keys are not guaranteed to be unique.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Info is a read-only snapshot of the instance attributes used for alarm provisioning.
type Info struct {
	ID           string `json:"id"`
	Tags         []Tag  `json:"tags"`
	ImageID      string `json:"imageId"`
	InstanceType string `json:"instanceType"`
}

// TagValue returns the value of the first tag with the given key,
// or defaultValue if no such tag exists.
func (i *Info) TagValue(key, defaultValue string) string {
	for _, t := range i.Tags {
		if t.Key == key {
			return t.Value
		}
	}
	return defaultValue
}

// Name returns the Name tag of the instance.
func (i *Info) Name() string {
	return i.TagValue(nameTagKey, DefaultName)
}

// HasMarker reports whether any tag with the given key has a value containing substr.
func (i *Info) HasMarker(key, substr string) bool {
	for _, t := range i.Tags {
		if t.Key == key && strings.Contains(t.Value, substr) {
			return true
		}
	}
	return false
}

// EC2API defines the EC2 operations required for instance inspection.
type EC2API interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)

	DeleteTags(
		ctx context.Context,
		params *ec2.DeleteTagsInput,
		optFns ...func(*ec2.Options)) (*ec2.DeleteTagsOutput, error)
}

// Provider exposes instance metadata and tag removal backed by EC2.
type Provider struct {
	client EC2API
}

// NewProvider creates a new Provider instance.
func NewProvider(client EC2API) *Provider {
	return &Provider{client: client}
}

// Describe fetches the instance with the given id.
func (p *Provider) Describe(ctx context.Context, instanceID string) (*Info, error) {
	ctx, span := tracer.Start(ctx, "instance.describe")
	defer span.End()
	span.SetAttributes(attribute.String("instance.id", instanceID))

	out, err := p.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot describe instance %q: %w", instanceID, err)
	}

	if len(out.Reservations) == 0 || len(out.Reservations[0].Instances) == 0 {
		return nil, fmt.Errorf("instance %q not found", instanceID)
	}

	return newInfo(instanceID, &out.Reservations[0].Instances[0]), nil
}

// RemoveTag deletes every tag with the given key from the instance, whatever its value.
func (p *Provider) RemoveTag(ctx context.Context, instanceID, key string) error {
	ctx, span := tracer.Start(ctx, "instance.remove_tag")
	defer span.End()
	span.SetAttributes(
		attribute.String("instance.id", instanceID),
		attribute.String("tag.key", key),
	)

	_, err := p.client.DeleteTags(ctx, &ec2.DeleteTagsInput{
		Resources: []string{instanceID},
		Tags:      []types.Tag{{Key: aws.String(key)}},
	})
	if err != nil {
		return fmt.Errorf("cannot remove tag %q from instance %q: %w", key, instanceID, err)
	}

	return nil
}

func newInfo(instanceID string, inst *types.Instance) *Info {
	info := &Info{
		ID:           instanceID,
		Tags:         make([]Tag, 0, len(inst.Tags)),
		ImageID:      DefaultImageID,
		InstanceType: DefaultInstanceType,
	}

	for _, t := range inst.Tags {
		info.Tags = append(info.Tags, Tag{
			Key:   aws.ToString(t.Key),
			Value: aws.ToString(t.Value),
		})
	}

	if inst.ImageId != nil {
		info.ImageID = aws.ToString(inst.ImageId)
	}

	if inst.InstanceType != "" {
		info.InstanceType = string(inst.InstanceType)
	}

	return info
}
