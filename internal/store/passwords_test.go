package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePasswords(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "passwords.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPasswords(t *testing.T) {
	path := writePasswords(t, "password\nMAAB-2025\nsecond-key\n")

	set, err := LoadPasswords(path)
	require.NoError(t, err)
	require.Len(t, set, 2)
	require.Contains(t, set, "MAAB-2025")
	require.Contains(t, set, "second-key")
}

func TestLoadPasswordsMissingFile(t *testing.T) {
	set, err := LoadPasswords(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	require.Empty(t, set)
}

func TestLoadPasswordsHeaderOnly(t *testing.T) {
	path := writePasswords(t, "password\n")

	set, err := LoadPasswords(path)
	require.NoError(t, err)
	require.Empty(t, set)
}

func TestProvisionerSeedsOnce(t *testing.T) {
	dir := t.TempDir()
	prov := NewProvisioner(dir)
	ctx := context.Background()

	require.NoError(t, prov.Seed(ctx))
	for _, name := range []string{UsersFile, PasswordsFile, "jobs.csv", "hh.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	// Operator edits must survive a re-seed.
	custom := filepath.Join(dir, PasswordsFile)
	require.NoError(t, os.WriteFile(custom, []byte("password\ncustom\n"), 0o644))
	require.NoError(t, prov.Seed(ctx))
	raw, err := os.ReadFile(custom)
	require.NoError(t, err)
	require.Equal(t, "password\ncustom\n", string(raw))
}
