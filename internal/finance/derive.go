// Package finance derives and validates the contract's monetary fields.
package finance

import (
	"fmt"
	"math"
	"strings"

	"github.com/nurpe/construction-projects/internal/model"
)

// Tolerance below which a recomputed owner value is considered unchanged,
// so floating-point noise never triggers a store-recompute feedback loop.
const Tolerance = 0.01

// DeriveOwnerValue is the owner's share of the project cost after the bank
// portion. Never negative.
func DeriveOwnerValue(total, bank float64) float64 {
	return math.Max(0, total-bank)
}

// Recompute returns the owner value to store after a change to total or
// bank. The second return is false when the stored value is already within
// tolerance and must not be rewritten.
func Recompute(total, bank, stored float64) (float64, bool) {
	derived := DeriveOwnerValue(total, bank)
	if math.Abs(derived-stored) <= Tolerance {
		return stored, false
	}
	return derived, true
}

// Validate checks the submit-time financial invariants for the given
// classification. The stored owner value is compared against the derived
// one so a stale value from a recompute/submit race is rejected.
func Validate(figures model.FinancialFigures, classification model.Classification) error {
	total := figures.TotalProjectValue
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return fmt.Errorf("total project value must be greater than zero")
	}

	if classification == model.ClassificationHousingLoan {
		if figures.TotalBankValue < 0 {
			return fmt.Errorf("total bank value must not be negative")
		}
		derived := DeriveOwnerValue(total, figures.TotalBankValue)
		if math.Abs(figures.TotalOwnerValue-derived) > Tolerance {
			return fmt.Errorf("total owner value %g does not match derived value %g", figures.TotalOwnerValue, derived)
		}
		return nil
	}

	if math.Abs(figures.TotalOwnerValue-total) > Tolerance {
		return fmt.Errorf("total owner value must equal total project value")
	}
	if figures.TotalBankValue != 0 {
		return fmt.Errorf("total bank value must be zero for %s", classification)
	}
	return nil
}

// Normalize forces the figures into a valid shape for a non-housing-loan
// classification: bank goes to zero and the owner carries the full total.
func Normalize(figures model.FinancialFigures, classification model.Classification) model.FinancialFigures {
	if classification == model.ClassificationHousingLoan {
		return figures
	}
	figures.TotalBankValue = 0
	figures.TotalOwnerValue = figures.TotalProjectValue
	return figures
}

// ClampPercent restricts fee percentages to [0, 100].
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// FormatPercent renders a percentage without a redundant trailing ".0".
func FormatPercent(v float64) string {
	s := fmt.Sprintf("%.1f", ClampPercent(v))
	return strings.TrimSuffix(s, ".0")
}
