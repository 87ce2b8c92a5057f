package temporal

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/trailhead/internal/pkg/telemetry"
	"github.com/samirrijal/trailhead/internal/workflows"
)

// workflowStarter is the subset of client.Client used to start workflows.
type workflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// Starter implements ports.FulfillmentStarter by starting OrderFulfillmentWorkflow.
type Starter struct {
	client    workflowStarter
	taskQueue string
}

// Dial connects to the Temporal frontend.
func Dial(hostPort, namespace string) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  hostPort,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("temporal dial: %w", err)
	}
	return c, nil
}

// NewStarter wraps a Temporal client. An empty task queue uses workflows.TaskQueue.
func NewStarter(c workflowStarter, taskQueue string) *Starter {
	if taskQueue == "" {
		taskQueue = workflows.TaskQueue
	}
	return &Starter{client: c, taskQueue: taskQueue}
}

// StartFulfillment is idempotent per order: a second start for the same order is ignored.
func (s *Starter) StartFulfillment(ctx context.Context, orderID, userID int64) error {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanFulfillOrder)
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", orderID))

	opts := client.StartWorkflowOptions{
		ID:        workflows.WorkflowID(orderID),
		TaskQueue: s.taskQueue,
	}
	_, err := s.client.ExecuteWorkflow(ctx, opts, workflows.OrderFulfillmentWorkflow,
		workflows.FulfillmentInput{OrderID: orderID, UserID: userID})
	var started *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &started) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("start fulfillment for order %d: %w", orderID, err)
	}
	return nil
}
