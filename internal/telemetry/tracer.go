// Package telemetry configures OpenTelemetry tracing for the Lambda runtime.
package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	lambdadetector "go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// DefaultServiceName is used outside Lambda, where AWS_LAMBDA_FUNCTION_NAME is unset.
const DefaultServiceName = "ec2-alarm-provisioner"

// NewTracerProvider registers a global tracer provider exporting spans to the X-Ray daemon.
func NewTracerProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	res, err := buildResource(ctx, lambdadetector.NewResourceDetector(), serviceName())
	if err != nil {
		return nil, err
	}

	exp, err := xrayudp.NewSpanExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot create xray udp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exp)),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(xray.Propagator{})

	return tp, nil
}

func serviceName() string {
	if name := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); name != "" {
		return name
	}
	return DefaultServiceName
}

// buildResource merges the detected environment resource with the service name.
func buildResource(ctx context.Context, detector resource.Detector, service string) (*resource.Resource, error) {
	detected, err := detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot detect lambda resource: %w", err)
	}

	custom := resource.NewWithAttributes(
		semconv.SchemaURL,
		attribute.KeyValue{Key: semconv.ServiceNameKey, Value: attribute.StringValue(service)},
	)

	merged, err := resource.Merge(detected, custom)
	if err != nil {
		return nil, fmt.Errorf("cannot merge otel resources: %w", err)
	}

	return merged, nil
}
