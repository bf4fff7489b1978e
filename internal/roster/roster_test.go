package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterhq/lodge/internal/models"
	"github.com/chapterhq/lodge/internal/storage"
)

func member(badge int, status models.MemberStatus) *models.Member {
	return &models.Member{
		Badge:     badge,
		FirstName: "Test",
		LastName:  "Member",
		Status:    status,
	}
}

func flatten(grid [][]Entry) []Entry {
	// read the grid back in column-major order to recover badge order
	if len(grid) == 0 {
		return nil
	}
	numRows := len(grid)
	numCols := len(grid[0])

	out := []Entry{}
	for i := 0; i < numCols; i++ {
		for j := 0; j < numRows; j++ {
			if !grid[j][i].IsEmpty() {
				out = append(out, grid[j][i])
			}
		}
	}
	return out
}

func TestBrotherListingUndergrads(t *testing.T) {
	live := []*models.Member{
		member(98, models.StatusUndergraduate),
		member(100, models.StatusUndergraduate),
		member(101, models.StatusAlumnus),
	}

	grid, total := BrotherListing(live, true, 2)

	entries := flatten(grid)
	require.Len(t, entries, total)

	byBadge := map[int]Entry{}
	for _, e := range entries {
		byBadge[e.Badge] = e
	}

	// live undergrads appear with their accounts
	require.True(t, byBadge[98].HasAccount)
	require.True(t, byBadge[100].HasAccount)

	// static entries above the lowest undergrad badge fill the gaps
	require.Contains(t, byBadge, 99)
	require.False(t, byBadge[99].HasAccount)
	require.Equal(t, "William Cole", byBadge[99].Name)
	require.Contains(t, byBadge, 113)

	// live alumni near the threshold are excluded from the undergrad side
	require.NotContains(t, byBadge, 101)

	// nothing below the threshold leaks in
	require.NotContains(t, byBadge, 97)
}

func TestBrotherListingAlumni(t *testing.T) {
	live := []*models.Member{
		member(98, models.StatusUndergraduate),
		member(101, models.StatusAlumnus),
		member(5, models.StatusAlumnus),
	}

	grid, total := BrotherListing(live, false, 3)
	entries := flatten(grid)
	require.Len(t, entries, total)

	byBadge := map[int]Entry{}
	for _, e := range entries {
		byBadge[e.Badge] = e
	}

	// every static badge below the threshold is present exactly once
	for badge := 1; badge <= 97; badge++ {
		require.Contains(t, byBadge, badge, "badge %d missing from alumni roster", badge)
	}

	// a live alumnus keeps their account entry
	require.True(t, byBadge[5].HasAccount)
	require.Equal(t, "Test Member", byBadge[5].Name)

	// a live alumnus above the threshold still shows up on the alumni side
	require.True(t, byBadge[101].HasAccount)

	// badges at or above the threshold stay out of the static fill
	require.NotContains(t, byBadge, 99)
}

func TestBrotherListingCompleteAndDisjoint(t *testing.T) {
	live := []*models.Member{
		member(98, models.StatusUndergraduate),
		member(101, models.StatusAlumnus),
		member(120, models.StatusUndergraduate),
	}

	undergradGrid, _ := BrotherListing(live, true, 2)
	alumniGrid, _ := BrotherListing(live, false, 2)

	seen := map[int]int{}
	for _, e := range flatten(undergradGrid) {
		seen[e.Badge]++
	}
	for _, e := range flatten(alumniGrid) {
		seen[e.Badge]++
	}

	// every static badge appears exactly once across the two listings
	for badge := 1; badge <= BootstrapSize(); badge++ {
		assert.Equal(t, 1, seen[badge], "badge %d", badge)
	}
	assert.Equal(t, 1, seen[120])
}

func TestBrotherListingNoLiveUndergrads(t *testing.T) {
	live := []*models.Member{
		member(5, models.StatusAlumnus),
	}

	undergradGrid, undergradTotal := BrotherListing(live, true, 2)
	require.Zero(t, undergradTotal)
	require.Empty(t, undergradGrid)

	// the whole static roster falls to the alumni side
	_, alumniTotal := BrotherListing(live, false, 2)
	require.Equal(t, BootstrapSize(), alumniTotal)
}

func TestBrotherListingGridShape(t *testing.T) {
	live := []*models.Member{}
	for badge := 101; badge <= 105; badge++ {
		live = append(live, member(badge, models.StatusUndergraduate))
	}

	// threshold 101 leaves 13 static undergrads plus 5 live ones... the
	// static fill runs 101..113, so 13 badges total with 5 already live
	grid, total := BrotherListing(live, true, 2)
	require.Equal(t, 13, total)

	// 13 entries over 2 columns is 7 rows, the last padded
	require.Len(t, grid, 7)
	for _, row := range grid {
		require.Len(t, row, 2)
	}
	require.True(t, grid[6][1].IsEmpty())

	// column-major order: row 0 holds entries 0 and 7
	require.Equal(t, 101, grid[0][0].Badge)
	require.Equal(t, 108, grid[0][1].Badge)
}

func TestNameFromBadge(t *testing.T) {
	require.Equal(t, "Evan Gibson", NameFromBadge(1))
	require.Equal(t, "Joseph Reynolds", NameFromBadge(113))
	require.Equal(t, "", NameFromBadge(0))
	require.Equal(t, "", NameFromBadge(114))
	require.Equal(t, "", NameFromBadge(-3))
}

func TestBigBrotherChoices(t *testing.T) {
	live := []*models.Member{
		member(120, models.StatusUndergraduate),
		member(50, models.StatusAlumnus),
	}

	choices := BigBrotherChoices(live)
	require.Equal(t, BootstrapSize()+2, len(choices))

	// the placeholder heads the list
	require.Equal(t, 0, choices[0].Badge)
	require.Equal(t, "---------", choices[0].Name)

	last := choices[len(choices)-1]
	require.Equal(t, 120, last.Badge)
	require.Equal(t, "Test Member", last.Name)
}

func TestEntryUsesNickname(t *testing.T) {
	m := member(120, models.StatusUndergraduate)
	m.Nickname = storage.NullString("Ace")

	grid, _ := BrotherListing([]*models.Member{m}, true, 1)
	entries := flatten(grid)

	var found *Entry
	for i := range entries {
		if entries[i].Badge == 120 {
			found = &entries[i]
		}
	}
	require.NotNil(t, found)
	require.Equal(t, "Ace Member", found.Name)
}
