package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New("   ", 10, "")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	r, err := New("  Spa Day  ", -5, "")
	require.NoError(t, err)
	assert.Equal(t, "Spa Day", r.Title)
	assert.Equal(t, 0, r.Cost, "negative cost clamps to zero")
	assert.Equal(t, "🎁", r.Icon)
	assert.NotEmpty(t, r.ID)
}

func TestDefaultsSeedShop(t *testing.T) {
	defaults := Defaults()
	require.Len(t, defaults, 3)
	assert.Equal(t, "Coffee Break", defaults[0].Title)
	assert.Equal(t, 30, defaults[0].Cost)
	assert.Equal(t, 5000, defaults[2].Cost)
}

func TestMemoryRepoListSortsByCost(t *testing.T) {
	repo := NewMemoryRepo()
	for _, title := range []string{"Big", "Small"} {
		cost := 500
		if title == "Small" {
			cost = 5
		}
		r, err := New(title, cost, "")
		require.NoError(t, err)
		_, err = repo.Create(r)
		require.NoError(t, err)
	}
	got, err := repo.List()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Small", got[0].Title)
	assert.Equal(t, "Big", got[1].Title)
}
