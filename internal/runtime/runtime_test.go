package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/js_ast"
)

func helperNames(stmts []js_ast.Stmt) []string {
	var names []string
	for _, stmt := range stmts {
		names = append(names, stmt.Data.(*js_ast.SFunction).Fn.Name.Name)
	}
	return names
}

func TestHelpersOrder(t *testing.T) {
	stmts := Helpers(ExportStar, InteropRequireDefault, ExportStar)
	assert.Equal(t, []string{InteropRequireDefault, ExportStar}, helperNames(stmts))
}

func TestHelpersAreFresh(t *testing.T) {
	a := Helpers(InteropRequireWildcard)
	b := Helpers(InteropRequireWildcard)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.NotSame(t, a[0].Data, b[0].Data)
}

func TestUnknownHelper(t *testing.T) {
	assert.Panics(t, func() { Helpers("_nope") })
}
