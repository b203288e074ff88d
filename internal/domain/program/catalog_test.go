package program

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	startAt := time.Now().Add(24 * time.Hour)

	sh1, err := NewShowing("showing-1", startAt, NewSeats("A", 6))
	require.NoError(t, err)
	sh2, err := NewShowing("showing-2", startAt.Add(3*time.Hour), NewSeats("A", 6))
	require.NoError(t, err)

	p1, err := NewProgram("program-1", "作品その1", []*Showing{sh1, sh2})
	require.NoError(t, err)
	p2, err := NewProgram("program-2", "作品その2", nil)
	require.NoError(t, err)

	catalog, err := NewCatalog([]*Program{p1, p2})
	require.NoError(t, err)
	return catalog
}

func TestNewCatalog_DuplicateShowing(t *testing.T) {
	startAt := time.Now().Add(24 * time.Hour)
	sh1, err := NewShowing("showing-1", startAt, NewSeats("A", 2))
	require.NoError(t, err)
	sh2, err := NewShowing("showing-1", startAt, NewSeats("B", 2))
	require.NoError(t, err)

	p1, err := NewProgram("program-1", "作品その1", []*Showing{sh1})
	require.NoError(t, err)
	p2, err := NewProgram("program-2", "作品その2", []*Showing{sh2})
	require.NoError(t, err)

	_, err = NewCatalog([]*Program{p1, p2})
	assert.ErrorIs(t, err, ErrDuplicateShowing)
}

func TestCatalog_Programs(t *testing.T) {
	catalog := newTestCatalog(t)

	programs := catalog.Programs()

	require.Len(t, programs, 2)
	assert.Equal(t, "program-1", programs[0].ID)
	assert.Equal(t, "program-2", programs[1].ID)
}

func TestCatalog_FindShowing(t *testing.T) {
	catalog := newTestCatalog(t)

	t.Run("上映回を親作品とともに解決できる", func(t *testing.T) {
		p, sh, err := catalog.FindShowing("showing-2")

		require.NoError(t, err)
		assert.Equal(t, "program-1", p.ID)
		assert.Equal(t, "showing-2", sh.ID)
	})

	t.Run("存在しない上映回はErrShowingNotFound", func(t *testing.T) {
		_, _, err := catalog.FindShowing("no-such-showing")
		assert.ErrorIs(t, err, ErrShowingNotFound)
	})
}
