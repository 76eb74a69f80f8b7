// Package alarm derives the EC2 monitoring alarm definitions and manages them in CloudWatch.
package alarm

import (
	"fmt"

	"github.com/ab0utbla-k/ec2-alarm-provisioner/internal/instance"
)

// Root filesystem of the deployed AMIs as reported by the CloudWatch agent.
const (
	DiskPath   = "/"
	DiskDevice = "xvda1"
	DiskFSType = "xfs"
)

// Dimension is a single metric dimension. Order is significant for CloudWatch matching.
type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Spec describes one alarm to be provisioned for an instance.
type Spec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	MetricName  string      `json:"metricName"`
	Namespace   string      `json:"namespace"`
	Dimensions  []Dimension `json:"dimensions"`
}

type metricDef struct {
	suffix     string
	metricName string
	namespace  string
	dimensions func(info *instance.Info) []Dimension
}

var metricDefs = []metricDef{
	{
		suffix:     "CPUUtilization",
		metricName: "CPUUtilization",
		namespace:  "AWS/EC2",
		dimensions: func(info *instance.Info) []Dimension {
			return []Dimension{
				{Name: "InstanceId", Value: info.ID},
			}
		},
	},
	{
		suffix:     "MemoryUtilization",
		metricName: "mem_used_percent",
		namespace:  "CWAgent",
		dimensions: agentDimensions,
	},
	{
		suffix:     "DiskUtilization",
		metricName: "disk_used_percent",
		namespace:  "CWAgent",
		dimensions: func(info *instance.Info) []Dimension {
			return append(agentDimensions(info),
				Dimension{Name: "path", Value: DiskPath},
				Dimension{Name: "device", Value: DiskDevice},
				Dimension{Name: "fstype", Value: DiskFSType},
			)
		},
	},
}

func agentDimensions(info *instance.Info) []Dimension {
	return []Dimension{
		{Name: "InstanceId", Value: info.ID},
		{Name: "ImageId", Value: info.ImageID},
		{Name: "InstanceType", Value: info.InstanceType},
	}
}

// BuildSpecs returns the CPU, memory and disk alarm specs for the instance, in that order.
func BuildSpecs(info *instance.Info) []Spec {
	name := info.Name()

	specs := make([]Spec, 0, len(metricDefs))
	for _, def := range metricDefs {
		specs = append(specs, Spec{
			Name:        Name(name, info.ID, def.suffix),
			Description: fmt.Sprintf("Alarm for %s of instance %s", def.metricName, info.ID),
			MetricName:  def.metricName,
			Namespace:   def.namespace,
			Dimensions:  def.dimensions(info),
		})
	}

	return specs
}

// Name builds the alarm name for an instance and metric suffix.
func Name(instanceName, instanceID, suffix string) string {
	return fmt.Sprintf("%s-%s-%s", instanceName, instanceID, suffix)
}
