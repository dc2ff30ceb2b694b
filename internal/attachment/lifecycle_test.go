package attachment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/construction-projects/internal/model"
)

func TestSlotTransitions(t *testing.T) {
	var s Slot
	assert.Equal(t, model.FileState(""), s.Ref.State)

	s.Select("scan.pdf", []byte("pdf"))
	assert.Equal(t, model.FileNew, s.Ref.State)

	// replacing while persisted goes straight to NEW
	s.Ref = model.FileRef{State: model.FilePersisted, URL: "https://files/1", FileName: "old.pdf"}
	s.Select("new.pdf", []byte("pdf2"))
	assert.Equal(t, model.FileNew, s.Ref.State)
	assert.Equal(t, "new.pdf", s.Ref.FileName)

	// remove-existing on a pending upload resets the slot: the server
	// never stored this file, so no deletion marker is emitted
	s.RemoveExisting()
	assert.Equal(t, model.FileEmpty, s.Ref.State)
	assert.Nil(t, s.Ref.Content)

	s.Ref = model.FileRef{State: model.FilePersisted, URL: "https://files/1", FileName: "old.pdf"}
	s.RemoveExisting()
	assert.Equal(t, model.FileRemoved, s.Ref.State)

	s.Clear()
	assert.Equal(t, model.FileEmpty, s.Ref.State)
}

func TestBuildSubmission(t *testing.T) {
	slots := []Slot{
		{Label: "Quantities table", Singular: true, Ref: model.FileRef{State: model.FileEmpty}},
		{Label: "Attach price offer", Singular: true, Ref: model.FileRef{
			State: model.FileNew, FileName: "IMG_0231.pdf", Content: []byte("x"),
		}},
		{Label: "Drawings", Singular: true, Ref: model.FileRef{
			State: model.FilePersisted, URL: "https://files/9", FileName: "drawings.pdf",
		}},
		{Label: "Specifications", Singular: true, Ref: model.FileRef{State: model.FileRemoved}},
	}

	sub := Build(slots)

	// EMPTY contributes nothing, the other three one entry each
	require.Len(t, sub.Meta, 3)
	require.Len(t, sub.Binaries, 1)

	newMeta := sub.Meta[0]
	assert.Equal(t, 1, newMeta.Index)
	assert.Nil(t, newMeta.FileURL)
	require.NotNil(t, newMeta.FileName)
	assert.Equal(t, "price_offer.pdf", *newMeta.FileName)
	assert.Equal(t, 1, sub.Binaries[0].Index)
	assert.Equal(t, "price_offer.pdf", sub.Binaries[0].FileName)

	persisted := sub.Meta[1]
	require.NotNil(t, persisted.FileURL)
	assert.Equal(t, "https://files/9", *persisted.FileURL)

	removed := sub.Meta[2]
	assert.Nil(t, removed.FileURL)
	assert.Nil(t, removed.FileName)
}

func TestStableName(t *testing.T) {
	tests := []struct {
		label    string
		index    int
		singular bool
		original string
		want     string
	}{
		{"Please attach quantities table", 0, true, "whatever.xlsx", "quantities_table.xlsx"},
		{"Upload site photos", 2, false, "DSC01.jpg", "site_photos_3.jpg"},
		{"Price offer", 0, false, "offer.pdf", "price_offer_1.pdf"},
		{"Drawings", 0, true, "noext", "drawings"},
		{"", 4, false, "x.png", "attachment_5.png"},
		{"يرجى ارفق صورة الهوية", 0, true, "id.png", "صورة_الهوية.png"},
	}
	for _, tt := range tests {
		got := StableName(tt.label, tt.index, tt.singular, tt.original)
		assert.Equal(t, tt.want, got, tt.label)
	}
}

func newFile(name string) model.FileRef {
	return model.FileRef{State: model.FileNew, FileName: name, Content: []byte("x")}
}

func TestFilterDynamicDropsBlankAndReserved(t *testing.T) {
	price := 100.0
	list := []model.DynamicAttachment{
		{},                                // blank placeholder
		{Type: model.AttachmentMainContract, File: newFile("c.pdf")}, // reserved
		{Type: model.AttachmentAppendix, File: newFile("a.pdf")},
		{Notes: "row kept by notes alone"},
		{Price: &price},
		{File: newFile("orphan.pdf")},
	}

	filtered := FilterDynamic(list)
	require.Len(t, filtered, 4)
	for _, a := range filtered {
		assert.NotEqual(t, model.AttachmentMainContract, a.Type)
	}
}

func TestFilterDynamicIsDefensiveOnSave(t *testing.T) {
	// filtering an already-filtered list changes nothing
	list := []model.DynamicAttachment{
		{Type: model.AttachmentAppendix, File: newFile("a.pdf")},
	}
	once := FilterDynamic(list)
	twice := FilterDynamic(once)
	assert.Equal(t, once, twice)
}

func TestExtractMainContract(t *testing.T) {
	list := []model.DynamicAttachment{
		{Type: model.AttachmentAppendix, File: newFile("a.pdf")},
		{Type: model.AttachmentMainContract, File: model.FileRef{
			State: model.FilePersisted, URL: "https://files/legacy", FileName: "contract.pdf",
		}},
	}
	ref, ok := ExtractMainContract(list)
	require.True(t, ok)
	assert.Equal(t, "https://files/legacy", ref.URL)

	_, ok = ExtractMainContract(list[:1])
	assert.False(t, ok)
}
