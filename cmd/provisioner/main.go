package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/alarm"
	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/config"
	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/handler"
	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/instance"
	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/provision"
	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/publish"
	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/telemetry"
)

func main() {
	startTime := time.Now()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("cannot load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("cannot load aws config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	instances := instance.NewProvider(ec2.NewFromConfig(awsCfg))
	registry := alarm.NewRegistry(cloudwatch.NewFromConfig(awsCfg), cfg.AlarmTopicARN)
	provisioner := provision.NewProvisioner(instances, registry, logger)

	var publisher handler.Publisher
	if cfg.PublishEnabled() {
		publisher = publish.NewPublisher(eventbridge.NewFromConfig(awsCfg), cfg.EventBusName)
	}

	tp, err := telemetry.NewTracerProvider(ctx)
	if err != nil {
		logger.Error("cannot initialize tracer provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("cannot shutdown tracer provider", slog.String("error", err.Error()))
		}
	}()

	logger.Info(
		"started ec2 alarm provisioner",
		slog.String("region", cfg.AWSRegion),
		slog.String("alarmTopicARN", cfg.AlarmTopicARN),
		slog.String("eventBus", cfg.EventBusName),
		slog.Float64("initDurationSec", time.Since(startTime).Seconds()),
	)

	h := handler.NewEventHandler(provisioner, publisher, logger)
	lambda.Start(
		otellambda.InstrumentHandler(
			h.HandleRequest,
			otellambda.WithTracerProvider(tp),
			otellambda.WithFlusher(tp)),
	)
}
