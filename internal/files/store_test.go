package files

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveAndOpen(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	projectID := uuid.New()
	url, err := store.Save(projectID, "price_offer.pdf", []byte("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "/files/"+projectID.String()+"/price_offer.pdf", url)

	content, err := store.Open(projectID.String() + "/price_offer.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf"), content)
}

func TestStoreOpenMissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(uuid.New().String() + "/nope.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("../etc/passwd")
	assert.Error(t, err)
}

func TestStoreStripsDirectoryFromName(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	projectID := uuid.New()
	url, err := store.Save(projectID, "../../evil.sh", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/files/"+projectID.String()+"/evil.sh", url)
}
