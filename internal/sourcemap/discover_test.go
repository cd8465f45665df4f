package sourcemap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jymfony/scriba/internal/fs"
	"github.com/jymfony/scriba/internal/helpers"
)

func TestCommentURL(t *testing.T) {
	url, ok := CommentURL("a()\n//# sourceMappingURL=a.js.map\n")
	assert.True(t, ok)
	assert.Equal(t, "a.js.map", url)

	url, ok = CommentURL("//# sourceMappingURL=first.map\nb()\n//# sourceMappingURL=second.map  \r\n")
	assert.True(t, ok)
	assert.Equal(t, "second.map", url)

	_, ok = CommentURL("a()")
	assert.False(t, ok)
}

func TestDiscoverInline(t *testing.T) {
	text := `{"version":3}`
	contents := "a()\n//# sourceMappingURL=" + helpers.EncodeBase64DataURL("application/json", []byte(text))

	source, ok := Discover(nil, contents, "")
	assert.True(t, ok)
	assert.Equal(t, text, source.Contents)
}

func TestDiscoverFile(t *testing.T) {
	fsys := fs.MockFS(map[string]string{
		"/src/maps/a.map": "from url",
		"/src/b.js.map":   "from suffix",
	})

	source, ok := Discover(fsys, "a()\n//# sourceMappingURL=maps/a.map", "/src/a.js")
	assert.True(t, ok)
	assert.Equal(t, "/src/maps/a.map", source.PrettyPath)
	assert.Equal(t, "from url", source.Contents)

	// The URL doesn't resolve, so the conventional name is tried
	source, ok = Discover(fsys, "b()\n//# sourceMappingURL=missing.map", "/src/b.js")
	assert.True(t, ok)
	assert.Equal(t, "from suffix", source.Contents)

	source, ok = Discover(fsys, "b()", "/src/b.js")
	assert.True(t, ok)
	assert.Equal(t, "/src/b.js.map", source.PrettyPath)

	_, ok = Discover(fsys, "c()\n//# sourceMappingURL=c.map", "/src/c.js")
	assert.False(t, ok)

	// Undecodable inline maps fall through silently
	_, ok = Discover(fsys, "c()\n//# sourceMappingURL=data:application/json;base64,!!!", "/src/c.js")
	assert.False(t, ok)
}
