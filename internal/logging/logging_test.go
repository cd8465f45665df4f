package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(zerolog.DebugLevel)
	defer SetLevel(zerolog.WarnLevel)

	l := For("transform")
	l.Debug().Str("pass", "naming").Msg("done")

	assert.Contains(t, buf.String(), `"component":"transform"`)
	assert.Contains(t, buf.String(), `"pass":"naming"`)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, level)

	level, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestConfigureFromEnv(t *testing.T) {
	defer SetLevel(zerolog.WarnLevel)

	t.Setenv(EnvLogLevel, "error")
	require.NoError(t, ConfigureFromEnv())
	assert.Equal(t, zerolog.ErrorLevel, Logger().GetLevel())

	t.Setenv(EnvLogLevel, "nope")
	assert.Error(t, ConfigureFromEnv())
}
