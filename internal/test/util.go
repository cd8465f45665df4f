package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/logger"
)

// AssertEqualWithDiff fails the test with a line diff when the compiled
// output does not match.
func AssertEqualWithDiff(t *testing.T, observed string, expected string) {
	t.Helper()
	if observed != expected {
		require.Fail(t, "output mismatch", "\n%s", Diff(expected, observed, false))
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		PrettyPath: "<stdin>",
		Contents:   contents,
	}
}
