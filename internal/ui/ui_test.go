package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(nil))
	assert.False(t, IsTTY(&bytes.Buffer{}))

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTTY(f), "a regular file is not a terminal")
}

func TestDetectCI(t *testing.T) {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
	assert.False(t, DetectCI())

	t.Setenv("CI", "true")
	assert.True(t, DetectCI())
}

func TestInteractive(t *testing.T) {
	assert.False(t, Interactive(&bytes.Buffer{}))
}
