package temporal

import (
	"context"
	"errors"
	"testing"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/trailhead/internal/workflows"
)

type fakeStarter struct {
	opts client.StartWorkflowOptions
	args []interface{}
	err  error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, opts client.StartWorkflowOptions, _ interface{}, args ...interface{}) (client.WorkflowRun, error) {
	f.opts = opts
	f.args = args
	return nil, f.err
}

func TestStartFulfillment(t *testing.T) {
	f := &fakeStarter{}
	s := NewStarter(f, "")

	if err := s.StartFulfillment(context.Background(), 12, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.opts.ID != "order-fulfillment-12" {
		t.Errorf("workflow id = %q", f.opts.ID)
	}
	if f.opts.TaskQueue != workflows.TaskQueue {
		t.Errorf("task queue = %q, want %q", f.opts.TaskQueue, workflows.TaskQueue)
	}
	if len(f.args) != 1 {
		t.Fatalf("args = %v", f.args)
	}
	in, ok := f.args[0].(workflows.FulfillmentInput)
	if !ok || in.OrderID != 12 || in.UserID != 3 {
		t.Errorf("input = %#v", f.args[0])
	}
}

func TestStartFulfillment_AlreadyStartedIsIgnored(t *testing.T) {
	f := &fakeStarter{err: serviceerror.NewWorkflowExecutionAlreadyStarted("exists", "", "")}
	if err := NewStarter(f, "q").StartFulfillment(context.Background(), 1, 1); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestStartFulfillment_Error(t *testing.T) {
	f := &fakeStarter{err: errors.New("unavailable")}
	if err := NewStarter(f, "q").StartFulfillment(context.Background(), 1, 1); err == nil {
		t.Error("expected error")
	}
}
