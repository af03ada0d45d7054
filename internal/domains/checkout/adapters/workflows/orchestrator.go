package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	checkoutactivities "github.com/Apurer/go-gin-storefront/internal/durable/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/go-gin-storefront/internal/durable/temporal/workflows/checkout"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalCheckoutWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineCheckoutWorkflows)(nil)
)

// TemporalCheckoutWorkflows starts checkout workflows on a Temporal cluster.
type TemporalCheckoutWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalCheckoutWorkflows wires a Temporal client into the orchestrator.
func NewTemporalCheckoutWorkflows(c client.Client) *TemporalCheckoutWorkflows {
	return &TemporalCheckoutWorkflows{client: c, taskQueue: checkoutworkflows.SubmissionTaskQueue}
}

// Submit runs the submission workflow and waits for its result. A request
// id that already has a workflow joins that run instead of sending again.
func (o *TemporalCheckoutWorkflows) Submit(ctx context.Context, input ports.SubmitInput) (ports.Submission, error) {
	if o == nil || o.client == nil {
		return ports.Submission{}, errors.New("temporal checkout workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildSubmissionWorkflowID(input)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.SubmissionWorkflow,
		checkoutworkflows.SubmissionWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return ports.Submission{}, fmt.Errorf("%w: %w", ports.ErrWalletUnavailable, err)
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var submission ports.Submission
	if err := run.Get(ctx, &submission); err != nil {
		return ports.Submission{}, translate(err)
	}
	return submission, nil
}

// InlineCheckoutWorkflows calls the wallet directly without Temporal, useful for tests or dev fallbacks.
type InlineCheckoutWorkflows struct {
	wallet ports.Wallet
}

// NewInlineCheckoutWorkflows wraps the wallet for synchronous submission.
func NewInlineCheckoutWorkflows(wallet ports.Wallet) *InlineCheckoutWorkflows {
	return &InlineCheckoutWorkflows{wallet: wallet}
}

func (o *InlineCheckoutWorkflows) Submit(ctx context.Context, input ports.SubmitInput) (ports.Submission, error) {
	if o == nil || o.wallet == nil {
		return ports.Submission{}, errors.New("inline checkout workflows not configured")
	}
	boc, err := o.wallet.SendTransaction(ctx, input.Owner, input.Request)
	if err != nil {
		return ports.Submission{}, err
	}
	return ports.Submission{RequestID: input.Request.ID, BOC: boc}, nil
}

func translate(err error) error {
	err = checkoutactivities.Unclassify(err)
	if errors.Is(err, ports.ErrWalletUnavailable) || errors.Is(err, ports.ErrTransactionRejected) {
		return err
	}
	return fmt.Errorf("%w: %w", ports.ErrWalletUnavailable, err)
}

func buildSubmissionWorkflowID(input ports.SubmitInput) string {
	return fmt.Sprintf("checkout-submission-%s", hashKey(strings.TrimSpace(input.Owner)+"/"+input.Request.ID))
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
