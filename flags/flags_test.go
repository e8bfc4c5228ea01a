package flags

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestUniqueFlags asserts that no two flags share the same name or env var.
func TestUniqueFlags(t *testing.T) {
	seenNames := map[string]struct{}{}
	seenEnvVars := map[string]struct{}{}
	for _, flag := range Flags {
		name := flag.Names()[0]
		_, ok := seenNames[name]
		assert.False(t, ok, "duplicate flag name %s", name)
		seenNames[name] = struct{}{}

		envFlag, ok := flag.(interface{ GetEnvVars() []string })
		require.True(t, ok, "flag %s has no env vars", name)
		for _, envVar := range envFlag.GetEnvVars() {
			_, ok := seenEnvVars[envVar]
			assert.False(t, ok, "duplicate env var %s", envVar)
			seenEnvVars[envVar] = struct{}{}
		}
	}
}

// TestEnvVarFormat asserts that every flag's env var follows the
// COMPAT_ACCEPTOR_<NAME> convention.
func TestEnvVarFormat(t *testing.T) {
	for _, flag := range Flags {
		name := flag.Names()[0]
		envFlag, ok := flag.(interface{ GetEnvVars() []string })
		require.True(t, ok)
		envVars := envFlag.GetEnvVars()
		require.Len(t, envVars, 1, "flag %s", name)

		expected := EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		assert.Equal(t, expected, envVars[0])
	}
}

func TestRequiredFlagsAreRequired(t *testing.T) {
	assert.True(t, slices.Contains(Flags, cli.Flag(BaseDir)))
}

func TestCheckRequired(t *testing.T) {
	app := cli.NewApp()
	app.Flags = Flags
	app.Action = func(ctx *cli.Context) error {
		return CheckRequired(ctx)
	}

	// BaseDir carries a default value, so a bare invocation passes.
	err := app.Run([]string{"app"})
	assert.NoError(t, err)

	err = app.Run([]string{"app", "--basedir", "/tmp/work"})
	assert.NoError(t, err)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, ".", BaseDir.Value)
	assert.Equal(t, "30s", Timeout.Value.String())
	assert.Equal(t, "1m30s", OracleTimeout.Value.String())
	assert.Equal(t, "info", LogLevel.Value)
}
