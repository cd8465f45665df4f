package exitcode_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jymfony/scriba/internal/exitcode"
)

func TestGet(t *testing.T) {
	base := exitcode.Set(errors.New("base"), 4)
	wrapped := fmt.Errorf("wrapping: %w", base)

	testCases := map[string]struct {
		err  error
		want int
	}{
		"nil":     {nil, exitcode.OK},
		"default": {errors.New(""), exitcode.Failure},
		"usage":   {exitcode.UsageError("missing input"), exitcode.Usage},
		"set":     {exitcode.Set(errors.New(""), 3), 3},
		"wrapped": {wrapped, 4},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitcode.Get(tc.err))
		})
	}
}

func TestSet(t *testing.T) {
	assert.NoError(t, exitcode.Set(nil, 3))

	base := errors.New("base")
	err := exitcode.Set(base, 3)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "base", err.Error())
	assert.Equal(t, "missing input", exitcode.UsageError("missing input").Error())
}
