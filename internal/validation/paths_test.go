package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty stays empty", input: "", expected: ""},
		{name: "tilde expanded", input: "~/.reel.db", expected: filepath.Join(home, ".reel.db")},
		{name: "bare tilde", input: "~", expected: home},
		{name: "absolute unchanged", input: "/tmp/reel.db", expected: "/tmp/reel.db"},
		{name: "relative made absolute", input: "reel.db", expected: filepath.Join(cwd, "reel.db")},
		{name: "cleaned", input: "/tmp/./x/../reel.db", expected: "/tmp/reel.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExpandPathRejectsNullBytes(t *testing.T) {
	_, err := ExpandPath("/tmp/re\x00el.db")
	assert.Error(t, err)
}

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "deeper", "reel.db")

	require.NoError(t, EnsureParentDir(target))

	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
