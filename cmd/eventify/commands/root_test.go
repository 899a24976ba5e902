package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		contains    string
		expectError bool
	}{
		{name: "help flag", args: []string{"--help"}, contains: "EventiFy"},
		{name: "lists subcommands", args: []string{"--help"}, contains: "migrate"},
		{name: "invalid flag", args: []string{"--invalid-flag"}, contains: "unknown flag: --invalid-flag", expectError: true},
		{name: "seed takes no args", args: []string{"seed", "extra"}, contains: "unknown command", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestSeedCommand(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(t.TempDir(), "eventify.db"))
	t.Setenv("LOG_LEVEL", "error")

	out, err := execute(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 5 users, 5 events, 6 rsvps")

	out, err = execute(t, "seed", "--log-format", "console")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing seeded")
}

func TestMigrateRejectsBadDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "mysql://localhost/eventify")

	_, err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DATABASE_URL scheme")
}
