package projtree

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingRequest_SeededListing(t *testing.T) {
	t.Parallel()

	files := []string{
		filepath.FromSlash("/proj/src/App.mxml"),
		filepath.FromSlash("/proj/src/App.as"),
	}
	req := NewMappingRequest(files)

	assert.Equal(t, files, req.Files())
	assert.True(t, req.Contains(files[0]))
	assert.False(t, req.Contains(filepath.FromSlash("/proj/src/Other.as")))
	assert.Zero(t, req.Len())
}

func TestMappingRequest_FirstWriteWins(t *testing.T) {
	t.Parallel()

	req := NewMappingRequest(nil)

	assert.True(t, req.Map("a.as", "a.mxml"))
	assert.False(t, req.Map("a.as", "b.mxml"), "second write for same file must be dropped")

	parent, ok := req.Resolve("a.as")
	require.True(t, ok)
	assert.Equal(t, "a.mxml", parent)
	assert.Equal(t, 1, req.Len())

	_, ok = req.Resolve("b.as")
	assert.False(t, ok)
}

func TestMappingHandlerFunc_Adapts(t *testing.T) {
	t.Parallel()

	called := false
	var h MappingHandler = MappingHandlerFunc(func(req *MappingRequest) {
		called = true
		req.Map("x", "y")
	})

	req := NewMappingRequest(nil)
	h.MapFiles(req)

	assert.True(t, called)
	assert.Equal(t, 1, req.Len())
}

func TestPairCompanions(t *testing.T) {
	t.Parallel()

	companions := map[string]string{".as": ".mxml"}

	t.Run("pairs companion with same-stem base", func(t *testing.T) {
		t.Parallel()
		app := filepath.FromSlash("/proj/src/App.as")
		base := filepath.FromSlash("/proj/src/App.mxml")
		req := NewMappingRequest([]string{base, app})

		PairCompanions(req, companions)

		parent, ok := req.Resolve(app)
		require.True(t, ok)
		assert.Equal(t, base, parent)
		assert.Equal(t, 1, req.Len())
	})

	t.Run("skips companion without base in listing", func(t *testing.T) {
		t.Parallel()
		req := NewMappingRequest([]string{filepath.FromSlash("/proj/src/Lone.as")})

		PairCompanions(req, companions)

		assert.Zero(t, req.Len())
	})

	t.Run("extension match is case-insensitive", func(t *testing.T) {
		t.Parallel()
		app := filepath.FromSlash("/proj/src/App.AS")
		base := filepath.FromSlash("/proj/src/App.mxml")
		req := NewMappingRequest([]string{base, app})

		PairCompanions(req, companions)

		parent, ok := req.Resolve(app)
		require.True(t, ok)
		assert.Equal(t, base, parent)
	})

	t.Run("never overwrites handler entries", func(t *testing.T) {
		t.Parallel()
		app := filepath.FromSlash("/proj/src/App.as")
		base := filepath.FromSlash("/proj/src/App.mxml")
		other := filepath.FromSlash("/proj/src/Other.mxml")
		req := NewMappingRequest([]string{base, app, other})
		req.Map(app, other)

		PairCompanions(req, companions)

		parent, ok := req.Resolve(app)
		require.True(t, ok)
		assert.Equal(t, other, parent)
	})

	t.Run("base file itself is never paired", func(t *testing.T) {
		t.Parallel()
		base := filepath.FromSlash("/proj/src/App.mxml")
		req := NewMappingRequest([]string{base})

		PairCompanions(req, companions)

		_, ok := req.Resolve(base)
		assert.False(t, ok)
	})
}
