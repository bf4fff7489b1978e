// Package roster merges the static bootstrap roster with live member
// records to produce complete, gap free brother listings.
package roster

import (
	"sort"

	"github.com/chapterhq/lodge/internal/models"
)

// Entry is one cell in a roster grid. Empty padding cells have Badge 0.
type Entry struct {
	Badge      int    `json:"badge,omitempty"`
	Name       string `json:"name,omitempty"`
	HasAccount bool   `json:"has_account,omitempty"`
}

func (e Entry) IsEmpty() bool {
	return e.Badge == 0
}

// Choice is a (badge, name) pair offered in big brother selection.
type Choice struct {
	Badge int    `json:"badge"`
	Name  string `json:"name"`
}

// BrotherListing builds the roster grid for either undergraduates or
// alumni, merging live member records with the static roster.
//
// Live members of the requested status always appear with their account
// name. Static entries fill the gaps: badges at or above the lowest live
// undergraduate badge count as undergraduates, badges below it as alumni.
// Static badges already claimed by a live alumnus are skipped so a brother
// near the threshold never shows up in both columns. When no live
// undergraduate exists every static entry is treated as an alumnus.
//
// The merged list is sorted by badge and reshaped into numCols column-major
// columns, padding the final rows with empty entries. The grid is returned
// row by row along with the total number of brothers.
func BrotherListing(live []*models.Member, undergrad bool, numCols int) ([][]Entry, int) {
	if numCols < 1 {
		numCols = 1
	}

	wanted := models.StatusAlumnus
	if undergrad {
		wanted = models.StatusUndergraduate
	}

	merged := map[int]Entry{}
	liveAlumni := map[int]bool{}
	threshold := len(initialBrotherList)

	for _, m := range live {
		if m.Status == models.StatusAlumnus {
			liveAlumni[m.Badge] = true
		}
		if m.Status == models.StatusUndergraduate && m.Badge < threshold {
			threshold = m.Badge
		}
		if m.Status == wanted {
			merged[m.Badge] = Entry{Badge: m.Badge, Name: commonName(m), HasAccount: true}
		}
	}

	var lo, hi int
	if undergrad {
		lo, hi = threshold, len(initialBrotherList)-1
	} else {
		lo, hi = 1, threshold-1
		if hi > len(initialBrotherList)-1 {
			hi = len(initialBrotherList) - 1
		}
	}

	for badge := lo; badge <= hi; badge++ {
		if badge >= len(initialBrotherList) {
			break
		}
		if undergrad && liveAlumni[badge] {
			continue
		}
		if _, ok := merged[badge]; !ok {
			merged[badge] = Entry{Badge: badge, Name: initialBrotherList[badge]}
		}
	}

	sorted := make([]Entry, 0, len(merged))
	for _, e := range merged {
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Badge < sorted[j].Badge
	})

	return reshape(sorted, numCols), len(sorted)
}

// reshape lays the sorted entries out column-major: row j, column i holds
// original index i*numRows + j. Every row has exactly numCols cells.
func reshape(entries []Entry, numCols int) [][]Entry {
	total := len(entries)
	numRows := total / numCols
	if total%numCols != 0 {
		numRows++
	}

	grid := make([][]Entry, 0, numRows)
	for j := 0; j < numRows; j++ {
		row := make([]Entry, numCols)
		for i := 0; i < numCols; i++ {
			index := i*numRows + j
			if index < total {
				row[i] = entries[index]
			}
		}
		grid = append(grid, row)
	}
	return grid
}

// BigBrotherChoices returns every possible big brother: the full static
// roster, including the index 0 placeholder, followed by live members with
// badges past its end.
func BigBrotherChoices(live []*models.Member) []Choice {
	choices := make([]Choice, 0, len(initialBrotherList))
	for badge, name := range initialBrotherList {
		choices = append(choices, Choice{Badge: badge, Name: name})
	}

	extra := []Choice{}
	for _, m := range live {
		if m.Badge >= len(initialBrotherList) {
			extra = append(extra, Choice{Badge: m.Badge, Name: commonName(m)})
		}
	}
	sort.Slice(extra, func(i, j int) bool {
		return extra[i].Badge < extra[j].Badge
	})

	return append(choices, extra...)
}

func commonName(m *models.Member) string {
	return m.PreferredName() + " " + m.LastName
}
