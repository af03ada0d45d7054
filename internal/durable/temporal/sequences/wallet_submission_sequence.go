package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	checkoutactivities "github.com/Apurer/go-gin-storefront/internal/durable/temporal/activities/checkout"
)

// RunWalletSubmissionSequence checks the wallet connection, then sends the transaction exactly once.
func RunWalletSubmissionSequence(ctx workflow.Context, input ports.SubmitInput) (ports.Submission, error) {
	logger := workflow.GetLogger(ctx)
	requestID := input.Request.ID
	logger.Info("wallet submission sequence started", "requestId", requestID)
	connectOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    500 * time.Millisecond,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    5,
		},
	}
	sendOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}

	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, connectOptions), checkoutactivities.EnsureConnectedActivityName, input.Owner).Get(ctx, nil)
	if err != nil {
		logger.Error("wallet submission sequence not connected", "requestId", requestID, "error", err)
		return ports.Submission{}, err
	}

	var submission ports.Submission
	err = workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, sendOptions), checkoutactivities.SendTransactionActivityName, input).Get(ctx, &submission)
	if err != nil {
		logger.Error("wallet submission sequence failed", "requestId", requestID, "error", err)
		return ports.Submission{}, err
	}
	logger.Info("wallet submission sequence completed", "requestId", requestID)
	return submission, nil
}
