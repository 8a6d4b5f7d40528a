package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/townkart-backend/internal/config"
)

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed-admin", "seed-cars"} {
		assert.True(t, names[want], want)
	}
}

func TestSeedAdminRequiresCredentials(t *testing.T) {
	rootCmd.SetArgs([]string{"seed-admin", "--email", "root@townkart.test"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&config.Config{Env: "production"}, &buf).Info("hello", "k", "v")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())

	buf.Reset()
	newLogger(&config.Config{Env: "development"}, &buf).Debug("hello")
	assert.Contains(t, buf.String(), "level=DEBUG")
}
