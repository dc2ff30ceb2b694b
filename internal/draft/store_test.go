package draft

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/construction-projects/internal/model"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client, time.Hour), mr
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	d := Draft{
		Setup: model.Setup{
			ProjectType:   model.ProjectTypeVilla,
			VillaCategory: model.VillaCategoryResidential,
			ContractType:  model.ContractTypeNew,
			InternalCode:  "PRJ-42",
		},
		SitePlan: &model.SitePlan{
			PlanNumber: "SP-9",
			Owners:     []model.Owner{{OwnerNameAr: "سالم", SharePercent: 100, IsAuthorized: true}},
		},
		StepIndex: 1,
	}
	require.NoError(t, store.Save(ctx, "session-1", d))

	loaded, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "PRJ-42", loaded.Setup.InternalCode)
	require.NotNil(t, loaded.SitePlan)
	assert.Equal(t, "SP-9", loaded.SitePlan.PlanNumber)
	assert.Equal(t, 1, loaded.StepIndex)
	assert.False(t, loaded.SavedAt.IsZero())
}

func TestLoadMissingDraftIsNotAnError(t *testing.T) {
	store, _ := newTestStore(t)
	loaded, err := store.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestClearRemovesDraft(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s", Draft{StepIndex: 0}))
	require.NoError(t, store.Clear(ctx, "s"))

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDraftExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s", Draft{}))
	mr.FastForward(2 * time.Minute)

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
