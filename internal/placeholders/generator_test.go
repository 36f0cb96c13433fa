package placeholders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexColorsAreDistinct(t *testing.T) {
	seen := make(map[[3]uint8]int)
	for n := 1; n <= 4000; n++ {
		c := IndexColor(n)
		key := [3]uint8{c.R, c.G, c.B}
		prev, dup := seen[key]
		require.False(t, dup, "tiles %d and %d share a color", prev, n)
		seen[key] = n
	}
}

func TestGenerateTileset(t *testing.T) {
	img := GenerateTileset(3, 2, 8)
	assert.Equal(t, 24, img.Rect.Dx())
	assert.Equal(t, 16, img.Rect.Dy())
	// tile 5 is row 1, column 1
	assert.Equal(t, IndexColor(5), img.RGBAAt(8+4, 8+4))
	assert.Equal(t, Darken(IndexColor(5), 0.6), img.RGBAAt(8, 8))
}

func TestGenerateCharacterSheet(t *testing.T) {
	img := GenerateCharacterSheet(CharFrameSize)
	assert.Equal(t, 4*CharFrameSize, img.Rect.Dx())
	assert.Equal(t, 4*CharFrameSize, img.Rect.Dy())
}

func TestGenerateAndSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	require.NoError(t, GenerateAndSave(dir, 4, 4))
	for _, name := range []string{"tileset.png", "character.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}
