package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/history/domain"
)

// ErrInvalidInput signals the purchase violated a domain invariant.
var ErrInvalidInput = errors.New("invalid purchase input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingTimestamp) ||
		errors.Is(err, domain.ErrMissingProduct) ||
		errors.Is(err, domain.ErrNegativeTotal) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
