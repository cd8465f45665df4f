package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/reflection"
)

func TestAnnotateReflection(t *testing.T) {
	store := reflection.NewStore()
	annotate := only(AnnotateReflection(store, &reflection.SequentialIDs{}, "/src/a.js", "App"))

	expectTransformed(t, "/** Doc */\nclass A { constructor() {} m() {} static { init() } }", `/** Doc */
@__jymfony_reflect("00000000-0000-0000-0000-000000000000", 0)
class A {
  constructor() {
  }
  @__jymfony_reflect("00000000-0000-0000-0000-000000000000", 1)
  m() {
  }
  static {
    init();
  }
}
`, annotate)

	require.Equal(t, 1, store.Len())
	record, ok := store.Lookup("00000000-0000-0000-0000-000000000000")
	require.True(t, ok)
	assert.Equal(t, "A", record.Name)
	assert.Equal(t, "App.A", record.FQCN())
	assert.Equal(t, "/src/a.js", record.Filename)
	assert.Equal(t, "/** Doc */", record.Docblock)
	assert.Equal(t, 0, record.Class.ConstructorIndex)
}

func TestAnnotateReflectionNested(t *testing.T) {
	store := reflection.NewStore()
	annotate := only(AnnotateReflection(store, &reflection.SequentialIDs{}, "", ""))

	output := transformForTest(t, "class A { static B = class B { x = 1 } }", annotate)
	assert.Contains(t, output, `@__jymfony_reflect("00000000-0000-0000-0000-000000000000", void 0)`+"\nclass A {")
	assert.Contains(t, output, `static B = @__jymfony_reflect("00000000-0000-0000-0000-000000000001", void 0) class B {`)
	assert.Equal(t, 2, store.Len())

	outer, ok := store.Lookup("00000000-0000-0000-0000-000000000000")
	require.True(t, ok)
	assert.Equal(t, "A", outer.Name)
	assert.Equal(t, "A", outer.FQCN())
}

func TestAnnotateReflectionExportDocblock(t *testing.T) {
	store := reflection.NewStore()
	annotate := only(AnnotateReflection(store, &reflection.SequentialIDs{}, "", ""))

	transformForTest(t, "/** Exported */\nexport class A {}", annotate)
	record, ok := store.Lookup("00000000-0000-0000-0000-000000000000")
	require.True(t, ok)
	assert.Equal(t, "/** Exported */", record.Docblock)
}

func TestAnnotateReflectionUnnamed(t *testing.T) {
	annotate := only(AnnotateReflection(reflection.NewStore(), &reflection.SequentialIDs{}, "", ""))
	assert.PanicsWithValue(t, ErrUnnamedClass, func() {
		transformForTest(t, "x = class {}", annotate)
	})
}
