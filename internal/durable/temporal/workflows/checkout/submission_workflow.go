package checkout

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	"github.com/Apurer/go-gin-storefront/internal/durable/temporal/sequences"
)

const (
	// SubmissionWorkflowName is the public identifier for registering the workflow.
	SubmissionWorkflowName = "checkout.workflows.Submission"
	// SubmissionTaskQueue is the queue consumed by the worker processing checkout workflows.
	SubmissionTaskQueue = "CHECKOUT_SUBMISSION"
)

// SubmissionWorkflowInput carries the transaction request to hand to the wallet.
type SubmissionWorkflowInput struct {
	Command ports.SubmitInput
	TraceID string
}

// SubmissionWorkflow runs the wallet submission for one checkout.
func SubmissionWorkflow(ctx workflow.Context, input SubmissionWorkflowInput) (ports.Submission, error) {
	logger := workflow.GetLogger(ctx)
	requestID := input.Command.Request.ID
	logger.Info("SubmissionWorkflow started", withTraceID(input.TraceID, "requestId", requestID)...)
	submission, err := sequences.RunWalletSubmissionSequence(ctx, input.Command)
	if err != nil {
		logger.Error("SubmissionWorkflow failed", withTraceID(input.TraceID, "requestId", requestID, "error", err)...)
		return ports.Submission{}, err
	}
	logger.Info("SubmissionWorkflow completed", withTraceID(input.TraceID, "requestId", requestID)...)
	return submission, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
