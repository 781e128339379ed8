package application

import (
	"errors"
	"fmt"

	"github.com/widgetco/fulfillment/internal/domains/inventory/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid inventory input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNoBOM) ||
		errors.Is(err, domain.ErrInvalidBOMEntry) ||
		errors.Is(err, domain.ErrDuplicateBOMEntry) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
