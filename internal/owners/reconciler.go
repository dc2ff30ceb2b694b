// Package owners keeps the owner dataset consistent between the site-plan
// step, which owns identity and document fields, and the contract step,
// which may refine contact fields only.
package owners

import (
	"fmt"
	"math"
	"strings"

	"github.com/nurpe/construction-projects/internal/model"
)

// shareTolerance absorbs integer rounding when shares are split three ways.
const shareTolerance = 0.5

// Reconcile merges the authoritative source list with stage-local overrides
// from target. The result carries every source owner, in source order, with
// phone and email taken from the matching target entry when non-empty.
// Target entries with no source match are dropped. Idempotent.
func Reconcile(source, target []model.Owner) []model.Owner {
	merged := make([]model.Owner, 0, len(source))
	for _, src := range source {
		out := src
		if match, ok := findMatch(src, target); ok {
			if strings.TrimSpace(match.Phone) != "" {
				out.Phone = match.Phone
			}
			if strings.TrimSpace(match.Email) != "" {
				out.Email = match.Email
			}
		}
		merged = append(merged, out)
	}
	return merged
}

func findMatch(src model.Owner, target []model.Owner) (model.Owner, bool) {
	srcID := normalizeKey(src.IDNumber)
	if srcID != "" {
		for _, t := range target {
			if normalizeKey(t.IDNumber) == srcID {
				return t, true
			}
		}
	}
	srcName := strings.TrimSpace(src.OwnerNameAr)
	if srcName != "" {
		for _, t := range target {
			if strings.TrimSpace(t.OwnerNameAr) == srcName {
				return t, true
			}
		}
	}
	return model.Owner{}, false
}

func normalizeKey(idNumber string) string {
	return strings.ToLower(strings.TrimSpace(idNumber))
}

// SelectAuthorized marks owner i as the contract signatory and clears the
// flag everywhere else. Single-select, not a toggle: selecting the current
// holder keeps it selected.
func SelectAuthorized(list []model.Owner, i int) []model.Owner {
	if i < 0 || i >= len(list) {
		return list
	}
	for j := range list {
		list[j].IsAuthorized = j == i
	}
	return list
}

// AuthorizedView filters to the single authorized owner for embedding in
// the contract step.
func AuthorizedView(list []model.Owner) []model.Owner {
	for _, o := range list {
		if o.IsAuthorized {
			return []model.Owner{o}
		}
	}
	return nil
}

// Validate enforces the cross-owner invariants before any network call:
// shares sum to 100 within rounding tolerance and exactly one owner is
// authorized.
func Validate(list []model.Owner) error {
	if len(list) == 0 {
		return fmt.Errorf("at least one owner is required")
	}

	sum := 0.0
	authorized := 0
	for _, o := range list {
		sum += o.SharePercent
		if o.IsAuthorized {
			authorized++
		}
	}

	if math.Abs(sum-100) > shareTolerance {
		return fmt.Errorf("owners share sum must equal 100, got %g", sum)
	}
	if authorized == 0 {
		return fmt.Errorf("an authorized owner must be selected")
	}
	if authorized > 1 {
		return fmt.Errorf("only one owner may be authorized")
	}
	return nil
}

// CanRemove blocks removal of the sole remaining owner.
func CanRemove(list []model.Owner) bool {
	return len(list) > 1
}
