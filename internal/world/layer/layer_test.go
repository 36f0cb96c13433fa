package layer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/stationkeeper/internal/world/insets"
)

func opts() Options {
	return Options{TileSize: 32, Scale: 1, Insets: insets.Default(), StoppableFloor: map[int]bool{16: true}}
}

func TestStoppableFloor(t *testing.T) {
	g, err := Build([]int{16, 1, 1}, 3, Floor, opts())
	require.NoError(t, err)

	assert.False(t, g.Cell(0, 0).Walkable)
	assert.True(t, g.Cell(1, 0).Walkable)
	assert.True(t, g.Cell(2, 0).Walkable)
	assert.Equal(t, image.Rect(32, 0, 64, 32), g.Cell(1, 0).Rect)
}

func TestObjectWalkability(t *testing.T) {
	g, err := Build([]int{0, 401, 0, 5}, 2, Objects, opts())
	require.NoError(t, err)

	assert.True(t, g.Cell(0, 0).Walkable)
	assert.False(t, g.Cell(1, 0).Walkable)
	assert.False(t, g.Cell(1, 1).Walkable)
	// door footprint is the lower part of the cell
	assert.Equal(t, image.Rect(32, 7, 64, 24), g.Cell(1, 0).Rect)
}

func TestDecorationAndTopAlwaysWalkable(t *testing.T) {
	for _, kind := range []Kind{Decoration, Top} {
		g, err := Build([]int{16, 401}, 2, kind, opts())
		require.NoError(t, err)
		assert.Equal(t, [][]bool{{true, true}}, g.Walkability(), kind.String())
	}
}

func TestBuildShape(t *testing.T) {
	_, err := Build([]int{1, 2, 3}, 2, Floor, opts())
	assert.ErrorIs(t, err, ErrShape)
	_, err = Build([]int{1}, 0, Floor, opts())
	assert.ErrorIs(t, err, ErrShape)
	_, err = Build(nil, 3, Floor, opts())
	assert.ErrorIs(t, err, ErrShape)
}

func TestCellOutOfRange(t *testing.T) {
	g, err := Build([]int{1, 1, 1, 1}, 2, Floor, opts())
	require.NoError(t, err)

	assert.Nil(t, g.Cell(-1, 0))
	assert.Nil(t, g.Cell(2, 0))
	assert.Nil(t, g.Cell(0, 2))
	assert.Equal(t, 2, g.Width())
	assert.Equal(t, 2, g.Height())
}

func TestBuildDeterministic(t *testing.T) {
	data := []int{0, 401, 261, 0, 16, 0, 482, 0, 5}
	a, err := Build(data, 3, Objects, opts())
	require.NoError(t, err)
	b, err := Build(data, 3, Objects, opts())
	require.NoError(t, err)

	first := a.Walkability()
	a.Rewalk()
	assert.Equal(t, first, a.Walkability())
	assert.Equal(t, b.Walkability(), a.Walkability())
}

func TestChangeTileRoundTrip(t *testing.T) {
	g, err := Build([]int{0, 0, 0, 0}, 2, Objects, opts())
	require.NoError(t, err)
	fresh, err := Build([]int{0, 0, 0, 401}, 2, Objects, opts())
	require.NoError(t, err)

	cell := g.Cell(1, 1)
	g.ChangeTile(cell, 401, nil)

	assert.Equal(t, 401, cell.Tile)
	assert.Equal(t, fresh.Cell(1, 1).Rect, cell.Rect)
	// nil keeps the flag
	assert.True(t, cell.Walkable)

	closed := false
	g.ChangeTile(cell, 0, &closed)
	assert.Equal(t, 0, cell.Tile)
	assert.Equal(t, g.CellRect(1, 1), cell.Rect)
	assert.False(t, cell.Walkable)
}
