// Package attachment tracks per-slot file state and builds upload-ready
// submissions with stable, server-predictable filenames.
package attachment

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nurpe/construction-projects/internal/model"
)

// Slot is one attachment field, static or dynamic.
type Slot struct {
	Label    string
	Singular bool
	Ref      model.FileRef
}

// Select attaches a new binary. Works from EMPTY and PERSISTED alike:
// replacing a stored file does not require removing it first.
func (s *Slot) Select(fileName string, content []byte) {
	s.Ref = model.FileRef{
		State:    model.FileNew,
		FileName: fileName,
		Content:  content,
	}
}

// RemoveExisting marks a persisted file for deletion. A slot holding only
// a pending upload has nothing stored to delete, so it resets to empty
// instead of emitting a deletion marker.
func (s *Slot) RemoveExisting() {
	if s.Ref.State == model.FilePersisted || s.Ref.State == model.FileRemoved {
		s.Ref = model.FileRef{State: model.FileRemoved}
		return
	}
	s.Ref = model.FileRef{State: model.FileEmpty}
}

// Clear resets the slot without producing a deletion marker.
func (s *Slot) Clear() {
	s.Ref = model.FileRef{State: model.FileEmpty}
}

// MetaEntry is the JSON metadata written for one slot. Null url and name
// signal deletion; a null url with a binary part signals a new upload.
type MetaEntry struct {
	Index    int     `json:"index"`
	FileURL  *string `json:"file_url"`
	FileName *string `json:"file_name"`
}

// BinaryPart is a new upload, keyed by slot index in the multipart form.
type BinaryPart struct {
	Index    int
	FileName string
	Content  []byte
}

// Submission is the upload-ready serialization of a slot set.
type Submission struct {
	Meta     []MetaEntry
	Binaries []BinaryPart
}

// Build serializes the slots: NEW contributes a renamed binary plus a
// metadata entry, PERSISTED metadata only, REMOVED a deletion marker,
// EMPTY nothing.
func Build(slots []Slot) Submission {
	var sub Submission
	for i, slot := range slots {
		switch slot.Ref.State {
		case model.FileNew:
			name := StableName(slot.Label, i, slot.Singular, slot.Ref.FileName)
			sub.Binaries = append(sub.Binaries, BinaryPart{
				Index:    i,
				FileName: name,
				Content:  slot.Ref.Content,
			})
			sub.Meta = append(sub.Meta, MetaEntry{Index: i, FileURL: nil, FileName: strPtr(name)})
		case model.FilePersisted:
			sub.Meta = append(sub.Meta, MetaEntry{
				Index:    i,
				FileURL:  strPtr(slot.Ref.URL),
				FileName: strPtr(slot.Ref.FileName),
			})
		case model.FileRemoved:
			sub.Meta = append(sub.Meta, MetaEntry{Index: i, FileURL: nil, FileName: nil})
		}
	}
	return sub
}

// directivePrefixes are leading instruction words stripped from field
// labels before they become filenames.
var directivePrefixes = []string{
	"please", "attach", "upload", "add",
	"يرجى", "ارفق", "إرفاق", "ارفاق",
}

// StableName renames a user file deterministically from the field label and
// slot position, so the server sees predictable names regardless of what
// the user called the file.
func StableName(label string, index int, singular bool, originalName string) string {
	base := deriveLabel(label)
	if base == "" {
		base = "attachment"
	}
	ext := strings.TrimPrefix(filepath.Ext(originalName), ".")
	if singular {
		if ext == "" {
			return base
		}
		return fmt.Sprintf("%s.%s", base, ext)
	}
	if ext == "" {
		return fmt.Sprintf("%s_%d", base, index+1)
	}
	return fmt.Sprintf("%s_%d.%s", base, index+1, ext)
}

func deriveLabel(label string) string {
	words := strings.Fields(strings.TrimSpace(label))
	for len(words) > 0 && isDirective(words[0]) {
		words = words[1:]
	}
	return strings.Join(words, "_")
}

func isDirective(word string) bool {
	w := strings.ToLower(strings.Trim(word, ":,."))
	for _, p := range directivePrefixes {
		if w == p {
			return true
		}
	}
	return false
}

// FilterDynamic drops blank placeholder rows and any row carrying the
// reserved main_contract type. Applied on load and again on save so legacy
// records can never leak the main contract into the dynamic list.
func FilterDynamic(list []model.DynamicAttachment) []model.DynamicAttachment {
	out := make([]model.DynamicAttachment, 0, len(list))
	for _, a := range list {
		if a.Type == model.AttachmentMainContract {
			continue
		}
		if a.IsBlank() {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ExtractMainContract pulls a legacy main_contract row out of a loaded
// dynamic list so it can populate the static slot instead of being lost.
func ExtractMainContract(list []model.DynamicAttachment) (model.FileRef, bool) {
	for _, a := range list {
		if a.Type == model.AttachmentMainContract && a.File.HasFile() {
			return a.File, true
		}
	}
	return model.FileRef{}, false
}

func strPtr(s string) *string {
	return &s
}
