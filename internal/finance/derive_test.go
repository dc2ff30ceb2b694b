package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/construction-projects/internal/model"
)

func TestDeriveOwnerValue(t *testing.T) {
	assert.Equal(t, 600000.0, DeriveOwnerValue(1000000, 400000))
	assert.Equal(t, 1000000.0, DeriveOwnerValue(1000000, 0))

	// bank exceeding total clamps to zero, never negative
	assert.Equal(t, 0.0, DeriveOwnerValue(1000000, 1100000))
}

func TestRecomputeSkipsNoiseDeltas(t *testing.T) {
	value, changed := Recompute(1000, 400, 600.005)
	assert.False(t, changed)
	assert.Equal(t, 600.005, value)

	value, changed = Recompute(1000, 400, 580)
	assert.True(t, changed)
	assert.Equal(t, 600.0, value)
}

func TestValidateRequiresPositiveTotal(t *testing.T) {
	figures := model.FinancialFigures{TotalProjectValue: 0, TotalOwnerValue: 0}
	assert.Error(t, Validate(figures, model.ClassificationPrivateFunding))

	figures.TotalProjectValue = -5
	assert.Error(t, Validate(figures, model.ClassificationPrivateFunding))
}

func TestValidateHousingLoan(t *testing.T) {
	figures := model.FinancialFigures{
		TotalProjectValue: 1000000,
		TotalBankValue:    400000,
		TotalOwnerValue:   600000,
	}
	assert.NoError(t, Validate(figures, model.ClassificationHousingLoan))

	// stale derived value from a recompute/submit race is rejected
	figures.TotalOwnerValue = 550000
	err := Validate(figures, model.ClassificationHousingLoan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "derived")

	figures.TotalOwnerValue = 600000
	figures.TotalBankValue = -1
	assert.Error(t, Validate(figures, model.ClassificationHousingLoan))
}

func TestValidatePrivateFunding(t *testing.T) {
	figures := model.FinancialFigures{
		TotalProjectValue: 500000,
		TotalOwnerValue:   500000,
	}
	assert.NoError(t, Validate(figures, model.ClassificationPrivateFunding))

	figures.TotalBankValue = 100
	assert.Error(t, Validate(figures, model.ClassificationPrivateFunding))
}

func TestNormalizeForcesBankToZero(t *testing.T) {
	figures := model.FinancialFigures{
		TotalProjectValue: 750000,
		TotalBankValue:    200000,
		TotalOwnerValue:   550000,
	}

	normalized := Normalize(figures, model.ClassificationPrivateFunding)
	assert.Equal(t, 0.0, normalized.TotalBankValue)
	assert.Equal(t, 750000.0, normalized.TotalOwnerValue)

	untouched := Normalize(figures, model.ClassificationHousingLoan)
	assert.Equal(t, figures, untouched)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-3))
	assert.Equal(t, 100.0, ClampPercent(140))
	assert.Equal(t, 42.5, ClampPercent(42.5))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "42.5", FormatPercent(42.5))
	assert.Equal(t, "10", FormatPercent(10))
	assert.Equal(t, "100", FormatPercent(250))
}
