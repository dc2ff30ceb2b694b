package pdf

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/construction-projects/internal/model"
)

func TestGenerateContractSummary(t *testing.T) {
	generator, err := NewGenerator()
	require.NoError(t, err)

	content, err := generator.Generate(ContractDocument{
		Project: model.Project{
			ID:           uuid.New(),
			ProjectType:  model.ProjectTypeVilla,
			InternalCode: "PRJ-12",
		},
		Contract: model.Contract{
			Classification: model.ClassificationHousingLoan,
			SignDate:       "2026-03-15",
			DurationMonths: 18,
			Figures: model.FinancialFigures{
				TotalProjectValue: 750000,
				TotalBankValue:    500000,
				TotalOwnerValue:   250000,
			},
			Owners: []model.Owner{{
				OwnerNameEn:  "Ahmed Al Mansoori",
				IDNumber:     "784-1990-0001",
				Phone:        "+971500000000",
				SharePercent: 100,
				IsAuthorized: true,
			}},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, content)
	assert.Equal(t, "%PDF", string(content[:4]))
}

func TestGenerateEmptyContract(t *testing.T) {
	generator, err := NewGenerator()
	require.NoError(t, err)

	content, err := generator.Generate(ContractDocument{
		Project: model.Project{ID: uuid.New(), InternalCode: "PRJ-13"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}
