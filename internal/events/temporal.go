package events

import (
	"context"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
)

// TemporalPublisher starts one conversion workflow per uploaded artifact.
type TemporalPublisher struct {
	client    client.Client
	taskQueue string
	workflow  string
	owned     bool
}

// NewTemporalPublisher publishes through c. The workflow name must match the
// one registered by the conversion worker.
func NewTemporalPublisher(c client.Client, taskQueue, workflow string) *TemporalPublisher {
	return &TemporalPublisher{client: c, taskQueue: taskQueue, workflow: workflow}
}

// DialTemporal connects to Temporal and returns a publisher that closes the
// connection on Close.
func DialTemporal(hostPort, namespace, taskQueue, workflow string) (*TemporalPublisher, error) {
	c, err := client.Dial(client.Options{HostPort: hostPort, Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("temporal dial %s: %w", hostPort, err)
	}
	p := NewTemporalPublisher(c, taskQueue, workflow)
	p.owned = true
	return p, nil
}

// WorkflowID is the workflow id used for an artifact; starting it twice for the
// same artifact is rejected by Temporal rather than duplicated.
func WorkflowID(videoFID string) string {
	return "convert-" + videoFID
}

func (p *TemporalPublisher) Publish(ctx context.Context, e UploadEvent) error {
	opts := client.StartWorkflowOptions{
		ID:                    WorkflowID(e.VideoFID),
		TaskQueue:             p.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	if _, err := p.client.ExecuteWorkflow(ctx, opts, p.workflow, e); err != nil {
		return fmt.Errorf("start workflow %s: %w", opts.ID, err)
	}
	return nil
}

func (p *TemporalPublisher) Close() error {
	if p.owned {
		p.client.Close()
	}
	return nil
}
