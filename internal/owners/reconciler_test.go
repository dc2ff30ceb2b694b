package owners

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/construction-projects/internal/model"
)

func owner(nameAr, idNumber string, share float64, authorized bool) model.Owner {
	return model.Owner{
		OwnerNameAr:  nameAr,
		OwnerNameEn:  nameAr + " (en)",
		IDNumber:     idNumber,
		SharePercent: share,
		IsAuthorized: authorized,
	}
}

func TestReconcileTakesIdentityFromSource(t *testing.T) {
	source := []model.Owner{owner("سالم", "1023456789", 100, true)}
	source[0].Nationality = "SA"

	target := []model.Owner{owner("قديم", "1023456789", 40, false)}
	target[0].Phone = "0551112222"
	target[0].Email = "salem@example.com"
	target[0].Nationality = "stale"

	merged := Reconcile(source, target)
	require.Len(t, merged, 1)
	assert.Equal(t, "سالم", merged[0].OwnerNameAr)
	assert.Equal(t, "SA", merged[0].Nationality)
	assert.Equal(t, 100.0, merged[0].SharePercent)
	assert.Equal(t, "0551112222", merged[0].Phone)
	assert.Equal(t, "salem@example.com", merged[0].Email)
}

func TestReconcileMatchesByIDNumberCaseInsensitive(t *testing.T) {
	source := []model.Owner{owner("أحمد", "  AB-123  ", 100, true)}
	target := []model.Owner{owner("different name", "ab-123", 0, false)}
	target[0].Phone = "0559990000"

	merged := Reconcile(source, target)
	assert.Equal(t, "0559990000", merged[0].Phone)
}

func TestReconcileFallsBackToArabicName(t *testing.T) {
	source := []model.Owner{owner("محمد", "", 100, true)}
	target := []model.Owner{owner(" محمد ", "", 0, false)}
	target[0].Email = "m@example.com"

	merged := Reconcile(source, target)
	assert.Equal(t, "m@example.com", merged[0].Email)
}

func TestReconcileDropsUnmatchedTargets(t *testing.T) {
	source := []model.Owner{owner("سالم", "1", 100, true)}
	target := []model.Owner{
		owner("سالم", "1", 100, true),
		owner("removed elsewhere", "999", 0, false),
	}

	merged := Reconcile(source, target)
	require.Len(t, merged, 1)
	assert.Equal(t, "1", merged[0].IDNumber)
}

func TestReconcileKeepsSourceContactWhenTargetEmpty(t *testing.T) {
	source := []model.Owner{owner("سالم", "1", 100, true)}
	source[0].Phone = "0501234567"
	target := []model.Owner{owner("سالم", "1", 100, true)}

	merged := Reconcile(source, target)
	assert.Equal(t, "0501234567", merged[0].Phone)
}

func TestReconcileIdempotent(t *testing.T) {
	source := []model.Owner{
		owner("سالم", "1", 60, true),
		owner("أحمد", "2", 40, false),
	}
	target := []model.Owner{owner("سالم", "1", 60, true)}
	target[0].Phone = "0551112222"

	once := Reconcile(source, target)
	twice := Reconcile(source, once)
	assert.Equal(t, once, twice)
}

func TestSelectAuthorizedSingleSelect(t *testing.T) {
	list := []model.Owner{
		owner("a", "1", 50, true),
		owner("b", "2", 30, false),
		owner("c", "3", 20, false),
	}

	sequences := [][]int{{1}, {1, 2}, {2, 2}, {0, 1, 0}}
	for _, seq := range sequences {
		for _, i := range seq {
			list = SelectAuthorized(list, i)
		}
		count := 0
		for _, o := range list {
			if o.IsAuthorized {
				count++
			}
		}
		assert.Equal(t, 1, count)
	}

	// out-of-range selection leaves the list untouched
	list = SelectAuthorized(list, 99)
	count := 0
	for _, o := range list {
		if o.IsAuthorized {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestValidateShareSum(t *testing.T) {
	list := []model.Owner{
		owner("a", "1", 60, true),
		owner("b", "2", 39, false),
	}
	err := Validate(list)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum must equal 100")

	list[1].SharePercent = 40
	assert.NoError(t, Validate(list))
}

func TestValidateRoundingTolerance(t *testing.T) {
	// thirds: 33.33 * 3 = 99.99
	list := []model.Owner{
		owner("a", "1", 33.33, true),
		owner("b", "2", 33.33, false),
		owner("c", "3", 33.33, false),
	}
	assert.NoError(t, Validate(list))
}

func TestValidateAuthorizedCount(t *testing.T) {
	list := []model.Owner{
		owner("a", "1", 50, false),
		owner("b", "2", 50, false),
	}
	err := Validate(list)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authorized")

	list[0].IsAuthorized = true
	list[1].IsAuthorized = true
	err = Validate(list)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one owner")
}

func TestValidateEmptyList(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestCanRemove(t *testing.T) {
	one := []model.Owner{owner("a", "1", 100, true)}
	assert.False(t, CanRemove(one))

	two := append(one, owner("b", "2", 0, false))
	assert.True(t, CanRemove(two))
}

func TestAuthorizedView(t *testing.T) {
	list := []model.Owner{
		owner("a", "1", 60, false),
		owner("b", "2", 40, true),
	}
	view := AuthorizedView(list)
	require.Len(t, view, 1)
	assert.Equal(t, "b", view[0].OwnerNameAr)

	assert.Nil(t, AuthorizedView([]model.Owner{owner("a", "1", 100, false)}))
}
