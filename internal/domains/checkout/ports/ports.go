package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

var (
	// ErrWalletUnavailable is returned when no wallet is connected, or the wallet could not be reached.
	ErrWalletUnavailable = errors.New("wallet unavailable")
	// ErrTransactionRejected is returned when the wallet declined or failed the transaction.
	ErrTransactionRejected = errors.New("transaction rejected")
	// ErrProductNotFound is returned when a purchased product is not in the catalogue.
	ErrProductNotFound = errors.New("product not found")
)

// Wallet is the wallet-connect collaborator. A transaction either succeeds
// as a whole or fails; it reports the signed message on success.
type Wallet interface {
	Connected(ctx context.Context, owner string) (bool, error)
	OpenModal(ctx context.Context, owner string) error
	SendTransaction(ctx context.Context, owner string, req domain.TransactionRequest) (string, error)
}

// Sessions records wallet connections the client completed on its side.
type Sessions interface {
	Register(ctx context.Context, owner, address string) error
	Forget(ctx context.Context, owner string) error
}

// Products resolves a catalogue item into an order line.
type Products interface {
	Line(ctx context.Context, productID int64, qty int) (domain.OrderLine, error)
}

// Cart reads and clears an owner's cart.
type Cart interface {
	Lines(ctx context.Context, owner string) ([]domain.OrderLine, error)
	Clear(ctx context.Context, owner string) error
}

// History appends paid lines to an owner's cached purchase history. It
// reports false when there was no populated history to patch.
type History interface {
	Record(ctx context.Context, owner string, at time.Time, lines []domain.OrderLine) (bool, error)
}

// SubmitInput is the payload handed to the workflow orchestrator.
type SubmitInput struct {
	Owner   string
	Request domain.TransactionRequest
}

// Submission is the outcome of a successful wallet submission.
type Submission struct {
	RequestID string
	BOC       string
}

// WorkflowOrchestrator hands a transaction request to the wallet, either
// inline or through a durable workflow.
type WorkflowOrchestrator interface {
	Submit(ctx context.Context, input SubmitInput) (Submission, error)
}

// Receipt describes a completed checkout.
type Receipt struct {
	Order      domain.Order
	Request    domain.TransactionRequest
	Submission Submission
	// Recorded is false when history had not been loaded yet and so was not patched.
	Recorded    bool
	CartCleared bool
}

// Service exposes checkout use cases to adapters.
type Service interface {
	WalletConnected(ctx context.Context, owner string) (bool, error)
	// Connect opens the wallet modal and waits for the owner to connect.
	Connect(ctx context.Context, owner string) (bool, error)
	WaitForConnection(ctx context.Context, owner string) bool
	BuyNow(ctx context.Context, owner string, productID int64, qty int) (Receipt, error)
	CheckoutCart(ctx context.Context, owner string) (Receipt, error)
}
