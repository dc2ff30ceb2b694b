package wizard

import "github.com/nurpe/construction-projects/internal/model"

// ResolveSteps computes the ordered step list for the given setup
// selections. It is pure: re-resolving on every setup change is safe.
func ResolveSteps(setup model.Setup) []model.Step {
	steps := []model.Step{
		{ID: model.StepSetup, Order: 0, Component: "project-setup"},
	}

	if !AllowSitePlanFlow(setup) {
		return steps
	}

	steps = append(steps,
		model.Step{ID: model.StepSitePlan, Order: 1, Component: "site-plan"},
		model.Step{ID: model.StepLicense, Order: 2, Component: "building-license"},
		model.Step{ID: model.StepContract, Order: 3, Component: "contract"},
	)

	if setup.Classification == model.ClassificationHousingLoan {
		steps = append(steps, model.Step{ID: model.StepAward, Order: 4, Component: "awarding"})
	}

	return steps
}

// AllowSitePlanFlow gates every step past setup: only a new-contract villa
// of a buildable category goes through the site-plan flow.
func AllowSitePlanFlow(setup model.Setup) bool {
	if setup.ProjectType != model.ProjectTypeVilla {
		return false
	}
	if setup.ContractType != model.ContractTypeNew {
		return false
	}
	switch setup.VillaCategory {
	case model.VillaCategoryResidential, model.VillaCategoryCommercial:
		return true
	default:
		return false
	}
}

func setupHasAllSelections(setup model.Setup) bool {
	if setup.ProjectType == "" || setup.ContractType == "" {
		return false
	}
	if setup.ProjectType == model.ProjectTypeVilla && setup.VillaCategory == "" {
		return false
	}
	return true
}

// CanEnter is the navigation guard. Index 0 (setup) is always enterable.
func CanEnter(index int, setup model.Setup) bool {
	if index == 0 {
		return true
	}
	return AllowSitePlanFlow(setup) && setupHasAllSelections(setup)
}

// ClampIndex keeps the cursor inside the resolved list when a setup change
// shrinks it, e.g. the award step disappearing while the cursor was on it.
func ClampIndex(index int, steps []model.Step) int {
	if len(steps) == 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index > len(steps)-1 {
		return len(steps) - 1
	}
	return index
}
