package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererRender(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~old~~")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Title</h1>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<del>old</del>")
}

func TestRendererStripsScripts(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")

	assert.NotContains(t, r.SafePreview("**hi** <img src=x onerror=alert(1)>"), "onerror")
	assert.Contains(t, r.SafePreview("**hi**"), "<strong>hi</strong>")
}
