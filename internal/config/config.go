// Package config loads the provisioner configuration from the environment.
package config

import (
	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/env"
)

type Config struct {
	AWSRegion string

	// AlarmTopicARN is the single alarm action attached to every created alarm.
	AlarmTopicARN string

	// EventBusName enables publishing of provisioning results when set.
	EventBusName string
}

func Load() (*Config, error) {
	cfg := &Config{}

	region, err := env.GetRequired("AWS_REGION", env.ParseNonEmptyString)
	if err != nil {
		return nil, err
	}
	cfg.AWSRegion = region

	topicARN, err := env.GetRequired("ALARM_TOPIC_ARN", env.ParseARN)
	if err != nil {
		return nil, err
	}
	cfg.AlarmTopicARN = topicARN

	cfg.EventBusName = env.Get("EVENT_BUS_NAME", "", env.ParseString)

	return cfg, nil
}

// PublishEnabled reports whether provisioning results are sent to EventBridge.
func (c *Config) PublishEnabled() bool {
	return c.EventBusName != ""
}
