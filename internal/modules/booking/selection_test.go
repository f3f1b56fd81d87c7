package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"turfbook/internal/domain"
)

func TestValidateSelection_ConsecutiveHours(t *testing.T) {
	err := ValidateSelection([]int{9, 10, 11}, 4500, 1000, domain.PayCash, false)
	assert.NoError(t, err)

	err = ValidateSelection([]int{9, 10, 12}, 4500, 1000, domain.PayCash, false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateSelection_EmptySelection(t *testing.T) {
	err := ValidateSelection(nil, 0, 0, domain.PayCash, false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateSelection_UnsortedInputAccepted(t *testing.T) {
	// Order of submission does not matter, only contiguity.
	err := ValidateSelection([]int{11, 9, 10}, 4500, 0, domain.PayCash, false)
	assert.NoError(t, err)
}

func TestValidateSelection_DuplicateHoursRejected(t *testing.T) {
	err := ValidateSelection([]int{9, 9, 10}, 4500, 0, domain.PayCash, false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateSelection_HourOutOfRange(t *testing.T) {
	err := ValidateSelection([]int{23, 24}, 4000, 0, domain.PayCash, false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateSelection_AdvanceBounds(t *testing.T) {
	err := ValidateSelection([]int{9}, 1500, 1501, domain.PayCash, false)
	assert.ErrorIs(t, err, ErrValidation)

	err = ValidateSelection([]int{9}, 1500, -1, domain.PayCash, false)
	assert.ErrorIs(t, err, ErrValidation)

	err = ValidateSelection([]int{9}, 1500, 1500, domain.PayCash, false)
	assert.NoError(t, err)
}

func TestValidateSelection_NonCashRequiresProof(t *testing.T) {
	err := ValidateSelection([]int{9}, 1500, 1000, domain.PayEasypaisa, false)
	assert.ErrorIs(t, err, ErrValidation)

	err = ValidateSelection([]int{9}, 1500, 1000, domain.PayEasypaisa, true)
	assert.NoError(t, err)

	err = ValidateSelection([]int{9}, 1500, 1000, domain.PayCash, false)
	assert.NoError(t, err)
}

func TestValidateSelection_UnknownMethod(t *testing.T) {
	err := ValidateSelection([]int{9}, 1500, 0, domain.PaymentMethod("crypto"), false)
	assert.ErrorIs(t, err, ErrValidation)
}
