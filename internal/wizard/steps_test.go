package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/construction-projects/internal/model"
)

func villaSetup(classification model.Classification) model.Setup {
	return model.Setup{
		ProjectType:    model.ProjectTypeVilla,
		VillaCategory:  model.VillaCategoryResidential,
		ContractType:   model.ContractTypeNew,
		InternalCode:   "PRJ-001",
		Classification: classification,
	}
}

func TestResolveSteps(t *testing.T) {
	tests := []struct {
		name  string
		setup model.Setup
		want  []model.StepID
	}{
		{
			name:  "empty setup resolves to setup only",
			setup: model.Setup{},
			want:  []model.StepID{model.StepSetup},
		},
		{
			name: "non-villa project stays on setup",
			setup: model.Setup{
				ProjectType:  model.ProjectTypeMosque,
				ContractType: model.ContractTypeNew,
			},
			want: []model.StepID{model.StepSetup},
		},
		{
			name: "supervision contract stays on setup",
			setup: model.Setup{
				ProjectType:   model.ProjectTypeVilla,
				VillaCategory: model.VillaCategoryResidential,
				ContractType:  model.ContractTypeSupervision,
			},
			want: []model.StepID{model.StepSetup},
		},
		{
			name: "rest house category stays on setup",
			setup: model.Setup{
				ProjectType:   model.ProjectTypeVilla,
				VillaCategory: model.VillaCategoryRest,
				ContractType:  model.ContractTypeNew,
			},
			want: []model.StepID{model.StepSetup},
		},
		{
			name:  "private funding villa gets four steps without award",
			setup: villaSetup(model.ClassificationPrivateFunding),
			want:  []model.StepID{model.StepSetup, model.StepSitePlan, model.StepLicense, model.StepContract},
		},
		{
			name:  "housing loan villa gets award step",
			setup: villaSetup(model.ClassificationHousingLoan),
			want:  []model.StepID{model.StepSetup, model.StepSitePlan, model.StepLicense, model.StepContract, model.StepAward},
		},
		{
			name: "commercial villa category allowed",
			setup: model.Setup{
				ProjectType:   model.ProjectTypeVilla,
				VillaCategory: model.VillaCategoryCommercial,
				ContractType:  model.ContractTypeNew,
			},
			want: []model.StepID{model.StepSetup, model.StepSitePlan, model.StepLicense, model.StepContract},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := ResolveSteps(tt.setup)
			require.Len(t, steps, len(tt.want))
			for i, id := range tt.want {
				assert.Equal(t, id, steps[i].ID)
				assert.Equal(t, i, steps[i].Order)
			}
		})
	}
}

func TestResolveStepsAlwaysStartsWithSetup(t *testing.T) {
	setups := []model.Setup{
		{},
		villaSetup(model.ClassificationHousingLoan),
		villaSetup(model.ClassificationPrivateFunding),
		{ProjectType: model.ProjectTypeCommercial},
	}
	for _, setup := range setups {
		steps := ResolveSteps(setup)
		require.NotEmpty(t, steps)
		assert.Equal(t, model.StepSetup, steps[0].ID)
	}
}

func TestAwardImpliesFullFlow(t *testing.T) {
	// award must never appear without siteplan, license and contract
	steps := ResolveSteps(villaSetup(model.ClassificationHousingLoan))
	ids := map[model.StepID]bool{}
	for _, s := range steps {
		ids[s.ID] = true
	}
	if ids[model.StepAward] {
		assert.True(t, ids[model.StepSitePlan])
		assert.True(t, ids[model.StepLicense])
		assert.True(t, ids[model.StepContract])
	}
}

func TestCanEnter(t *testing.T) {
	blocked := model.Setup{
		ProjectType:  model.ProjectTypeMosque,
		ContractType: model.ContractTypeNew,
	}
	assert.True(t, CanEnter(0, blocked))
	for i := 1; i < 5; i++ {
		assert.False(t, CanEnter(i, blocked), "index %d", i)
	}

	open := villaSetup(model.ClassificationPrivateFunding)
	assert.True(t, CanEnter(0, open))
	assert.True(t, CanEnter(1, open))
	assert.True(t, CanEnter(3, open))

	// villa without category is an incomplete selection
	incomplete := open
	incomplete.VillaCategory = ""
	assert.False(t, CanEnter(1, incomplete))
}

func TestClampIndex(t *testing.T) {
	withAward := ResolveSteps(villaSetup(model.ClassificationHousingLoan))
	withoutAward := ResolveSteps(villaSetup(model.ClassificationPrivateFunding))

	// cursor on award, classification switches to private funding
	cursor := 4
	require.Equal(t, model.StepAward, withAward[cursor].ID)
	clamped := ClampIndex(cursor, withoutAward)
	assert.Equal(t, 3, clamped)
	assert.Equal(t, model.StepContract, withoutAward[clamped].ID)

	assert.Equal(t, 0, ClampIndex(-1, withoutAward))
	assert.Equal(t, 2, ClampIndex(2, withoutAward))
	assert.Equal(t, 0, ClampIndex(3, nil))
}
