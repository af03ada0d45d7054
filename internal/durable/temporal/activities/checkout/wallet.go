package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

const (
	// EnsureConnectedActivityName fails until the owner's wallet reports connected.
	EnsureConnectedActivityName = "checkout.activities.EnsureConnected"
	// SendTransactionActivityName hands a transaction request to the wallet.
	SendTransactionActivityName = "checkout.activities.SendTransaction"

	ErrTypeWalletUnavailable   = "WalletUnavailable"
	ErrTypeTransactionRejected = "TransactionRejected"
)

var errNotConnected = errors.New("wallet not connected")

// Activities groups activities that operate on the checkout bounded context.
type Activities struct {
	wallet ports.Wallet
}

// NewActivities wires the wallet into the Temporal activities bundle.
func NewActivities(wallet ports.Wallet) *Activities {
	return &Activities{wallet: wallet}
}

// EnsureConnected returns a retryable error while the wallet is not connected yet.
func (a *Activities) EnsureConnected(ctx context.Context, owner string) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.wallet == nil {
		logger.Error("checkout activity not initialized", "owner", owner)
		return errors.New("checkout activity not initialized")
	}
	ok, err := a.wallet.Connected(ctx, owner)
	if err != nil {
		logger.Warn("EnsureConnected could not reach wallet", "owner", owner, "error", err)
		return err
	}
	if !ok {
		return temporal.NewApplicationError(errNotConnected.Error(), ErrTypeWalletUnavailable)
	}
	return nil
}

// SendTransaction submits the request once. The wallet prompts the user on
// every send, so a failure is never retried here.
func (a *Activities) SendTransaction(ctx context.Context, input ports.SubmitInput) (ports.Submission, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.wallet == nil {
		logger.Error("checkout activity not initialized", "requestId", input.Request.ID)
		return ports.Submission{}, errors.New("checkout activity not initialized")
	}
	logger.Info("SendTransaction activity started", "requestId", input.Request.ID, "owner", input.Owner)
	boc, err := a.wallet.SendTransaction(ctx, input.Owner, input.Request)
	if err != nil {
		logger.Error("SendTransaction activity failed", "requestId", input.Request.ID, "error", err)
		return ports.Submission{}, Classify(err)
	}
	logger.Info("SendTransaction activity completed", "requestId", input.Request.ID)
	return ports.Submission{RequestID: input.Request.ID, BOC: boc}, nil
}

// Classify turns checkout port errors into non-retryable application errors
// whose type survives the trip through Temporal.
func Classify(err error) error {
	switch {
	case errors.Is(err, ports.ErrWalletUnavailable):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeWalletUnavailable, err)
	default:
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeTransactionRejected, err)
	}
}

// Unclassify maps an error returned by a checkout workflow back onto the port errors.
func Unclassify(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		switch appErr.Type() {
		case ErrTypeWalletUnavailable:
			return errors.Join(ports.ErrWalletUnavailable, err)
		case ErrTypeTransactionRejected:
			return errors.Join(ports.ErrTransactionRejected, err)
		}
	}
	return err
}
