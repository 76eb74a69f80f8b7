package alarm

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/ab0utbla-k/ec2-alarm-provisioner/internal/alarm")

// Fixed parameters applied to every created alarm.
const (
	Statistic          = types.StatisticAverage
	PeriodSeconds      = 300
	EvaluationPeriods  = 1
	DatapointsToAlarm  = 1
	Threshold          = 85.0
	ComparisonOperator = types.ComparisonOperatorGreaterThanThreshold
	TreatMissingData   = "missing"
)

// CloudWatchAPI defines the CloudWatch operations required for alarm provisioning.
type CloudWatchAPI interface {
	DescribeAlarms(
		ctx context.Context,
		input *cloudwatch.DescribeAlarmsInput,
		optFns ...func(*cloudwatch.Options)) (*cloudwatch.DescribeAlarmsOutput, error)

	PutMetricAlarm(
		ctx context.Context,
		input *cloudwatch.PutMetricAlarmInput,
		optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricAlarmOutput, error)
}

// Registry checks for and creates named metric alarms in CloudWatch.
type Registry struct {
	cw       CloudWatchAPI
	topicARN string
}

// NewRegistry creates a Registry whose alarms notify topicARN.
func NewRegistry(cw CloudWatchAPI, topicARN string) *Registry {
	return &Registry{
		cw:       cw,
		topicARN: topicARN,
	}
}

// Exists reports whether a metric alarm with exactly this name exists.
func (r *Registry) Exists(ctx context.Context, name string) (bool, error) {
	ctx, span := tracer.Start(ctx, "alarm.exists")
	defer span.End()
	span.SetAttributes(attribute.String("alarm.name", name))

	out, err := r.cw.DescribeAlarms(ctx, &cloudwatch.DescribeAlarmsInput{
		AlarmNames: []string{name},
		MaxRecords: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("cannot describe alarm %q: %w", name, err)
	}

	exists := len(out.MetricAlarms) > 0
	span.SetAttributes(attribute.Bool("alarm.exists", exists))

	return exists, nil
}

// Put creates the alarm, replacing any alarm with the same name.
func (r *Registry) Put(ctx context.Context, spec Spec) error {
	ctx, span := tracer.Start(ctx, "alarm.put")
	defer span.End()
	span.SetAttributes(
		attribute.String("alarm.name", spec.Name),
		attribute.String("alarm.namespace", spec.Namespace),
		attribute.String("alarm.metric", spec.MetricName),
	)

	_, err := r.cw.PutMetricAlarm(ctx, r.newPutMetricAlarmInput(spec))
	if err != nil {
		return fmt.Errorf("cannot put alarm %q: %w", spec.Name, err)
	}

	return nil
}

func (r *Registry) newPutMetricAlarmInput(spec Spec) *cloudwatch.PutMetricAlarmInput {
	dimensions := make([]types.Dimension, 0, len(spec.Dimensions))
	for _, d := range spec.Dimensions {
		dimensions = append(dimensions, types.Dimension{
			Name:  aws.String(d.Name),
			Value: aws.String(d.Value),
		})
	}

	return &cloudwatch.PutMetricAlarmInput{
		AlarmName:          aws.String(spec.Name),
		AlarmDescription:   aws.String(spec.Description),
		MetricName:         aws.String(spec.MetricName),
		Namespace:          aws.String(spec.Namespace),
		Statistic:          Statistic,
		Dimensions:         dimensions,
		Period:             aws.Int32(PeriodSeconds),
		EvaluationPeriods:  aws.Int32(EvaluationPeriods),
		DatapointsToAlarm:  aws.Int32(DatapointsToAlarm),
		Threshold:          aws.Float64(Threshold),
		ComparisonOperator: ComparisonOperator,
		TreatMissingData:   aws.String(TreatMissingData),
		ActionsEnabled:     aws.Bool(true),
		AlarmActions:       []string{r.topicARN},
	}
}
