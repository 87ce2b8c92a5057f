package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

// TaskQueue is the default queue the fulfiller worker polls.
const TaskQueue = "order-fulfillment"

// FulfillmentInput is the input for the fulfillment workflow.
type FulfillmentInput struct {
	OrderID int64
	UserID  int64
}

// WorkflowID is deterministic so an order is never fulfilled twice.
func WorkflowID(orderID int64) string {
	return fmt.Sprintf("order-fulfillment-%d", orderID)
}

// OrderFulfillmentWorkflow reserves stock, marks the order paid and announces the new status.
// When a later step fails, completed steps are undone in reverse order.
func OrderFulfillmentWorkflow(ctx workflow.Context, input FulfillmentInput) (err error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting fulfillment workflow", "orderID", input.OrderID, "userID", input.UserID)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})

	var compensations []func(workflow.Context) error
	defer func() {
		if err == nil {
			return
		}
		logger.Warn("fulfillment failed, compensating", "orderID", input.OrderID, "error", err)
		// Compensations must run even if the workflow context was cancelled.
		dctx, _ := workflow.NewDisconnectedContext(ctx)
		for i := len(compensations) - 1; i >= 0; i-- {
			if cerr := compensations[i](dctx); cerr != nil {
				logger.Error("compensation failed", "orderID", input.OrderID, "error", cerr)
			}
		}
	}()

	// Step 1: reserve stock
	var reserved []StockReservation
	if err := workflow.ExecuteActivity(ctx, "ReserveStock", input.OrderID).Get(ctx, &reserved); err != nil {
		return err
	}
	compensations = append(compensations, func(c workflow.Context) error {
		return workflow.ExecuteActivity(c, "ReleaseStock", reserved).Get(c, nil)
	})

	// Step 2: mark paid
	if err := workflow.ExecuteActivity(ctx, "MarkOrderStatus", input.OrderID, domain.OrderPaid).Get(ctx, nil); err != nil {
		return err
	}
	compensations = append(compensations, func(c workflow.Context) error {
		return workflow.ExecuteActivity(c, "MarkOrderStatus", input.OrderID, domain.OrderPending).Get(c, nil)
	})

	// Step 3: publish
	if err := workflow.ExecuteActivity(ctx, "PublishOrderStatus", input.OrderID).Get(ctx, nil); err != nil {
		return err
	}

	logger.Info("Order fulfilled", "orderID", input.OrderID)
	return nil
}
