package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

// ErrInvalidInput signals the order violated a checkout invariant.
var ErrInvalidInput = errors.New("invalid checkout input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyOrder) ||
		errors.Is(err, domain.ErrInvalidProduct) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrMixedCurrency) ||
		errors.Is(err, domain.ErrInvalidKind) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
