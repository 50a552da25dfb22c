// internal/app/matching/decide.go
package matching

import (
	"sort"

	"github.com/kevyamon/lokolink/internal/domain/models"
)

// selection is the outcome of one duo/solo decision: the chosen sponsors in
// load order (one for a solo, two for a duo).
type selection struct {
	Duo      bool
	Sponsors []models.Sponsor
}

// decide picks sponsor(s) for the registrant arriving at currentRank.
//
// Sponsors are ordered by ascending assignment count; ties keep insertion
// order, so earlier-registered sponsors are preferred at equal load. When the
// pool is larger than the expected godchild count, the first surplus
// registrants each get the two least-loaded sponsors, which consumes the
// oversupply up front; everyone after that gets one. An expected count of
// zero means the delegate gave no estimate, and surplus absorption is off.
// A single-sponsor pool can never form a duo.
//
// Callers must guarantee len(sponsors) > 0.
func decide(sponsors []models.Sponsor, currentRank int64, expected int) selection {
	sorted := make([]models.Sponsor, len(sponsors))
	copy(sorted, sponsors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AssignedCount < sorted[j].AssignedCount
	})

	total := len(sorted)
	if expected <= 0 {
		expected = total
	}
	surplus := total - expected
	if surplus < 0 {
		surplus = 0
	}

	if currentRank < int64(surplus) && total >= 2 {
		return selection{Duo: true, Sponsors: sorted[:2]}
	}
	return selection{Sponsors: sorted[:1]}
}

// displayName renders the assignment's sponsor name: "A" or "A & B".
func (s selection) displayName() string {
	if s.Duo {
		return s.Sponsors[0].Name + " & " + s.Sponsors[1].Name
	}
	return s.Sponsors[0].Name
}

// displayPhone renders the assignment's contact string: "P" or "P1 / P2".
func (s selection) displayPhone() string {
	if s.Duo {
		return s.Sponsors[0].Phone + " / " + s.Sponsors[1].Phone
	}
	return s.Sponsors[0].Phone
}
