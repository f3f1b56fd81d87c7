package booking

import (
	"fmt"
	"sort"

	"turfbook/internal/domain"
)

// ValidateSelection guards the reservation invariants before anything
// reaches the coordinator. It runs server-side on every create and edit;
// any client-side copy of these checks is advisory only.
func ValidateSelection(hours []int, totalAmount, advance float64, method domain.PaymentMethod, hasProof bool) error {
	if len(hours) == 0 {
		return fmt.Errorf("%w: no hours selected", ErrValidation)
	}
	for _, h := range hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("%w: hour %d out of range", ErrValidation, h)
		}
	}

	sorted := make([]int, len(hours))
	copy(sorted, hours)
	sort.Ints(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1]+1 {
			return fmt.Errorf("%w: hours must be consecutive, gap after %d", ErrValidation, sorted[i-1])
		}
	}

	if advance < 0 {
		return fmt.Errorf("%w: advance payment cannot be negative", ErrValidation)
	}
	if advance > totalAmount {
		return fmt.Errorf("%w: advance payment %.2f exceeds total amount %.2f", ErrValidation, advance, totalAmount)
	}

	if !method.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}
	if method.RequiresProof() && !hasProof {
		return fmt.Errorf("%w: payment method %s requires a payment proof", ErrValidation, method)
	}
	return nil
}
