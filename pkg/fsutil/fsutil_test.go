package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/g4fmt/pkg/fsutil"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and metadata", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.g4", "a : b ;\n")
		content, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, "a : b ;\n", string(content))
		assert.Equal(t, path, info.Path)
		assert.Equal(t, int64(len(content)), info.Size)
		assert.Equal(t, os.FileMode(0o600), info.Mode.Perm())
		assert.Equal(t, fsutil.HashContent(content), info.Hash)
	})

	t.Run("errors are classified", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(dir, "missing.g4"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)

		_, _, err = fsutil.ReadFile(context.Background(), dir)
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := fsutil.ReadFile(ctx, "whatever")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestHashContent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fsutil.HashContent([]byte("x")), fsutil.HashContent([]byte("x")))
	assert.NotEqual(t, fsutil.HashContent([]byte("x")), fsutil.HashContent([]byte("y")))
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.g4", "a : b ;\n")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		modified, err := fsutil.CheckModified(context.Background(), info)
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("same size and time but different content", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.g4", "a : b ;\n")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("a : c ;\n"), 0o600))
		require.NoError(t, os.Chtimes(path, info.ModTime, info.ModTime))

		modified, err := fsutil.CheckModified(context.Background(), info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.g4", "a : b ;\n")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		modified, err := fsutil.CheckModified(context.Background(), info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.CheckModified(context.Background(), nil)
		assert.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}

func TestReplaceFile(t *testing.T) {
	t.Parallel()

	t.Run("writes and backs up", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.g4", "a : b ;\n")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		backup := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}
		backedUp, err := fsutil.ReplaceFile(context.Background(), info, []byte("a: b;\n"), backup)
		require.NoError(t, err)
		assert.True(t, backedUp)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a: b;\n", string(got))

		saved, err := os.ReadFile(path + fsutil.BackupSuffix)
		require.NoError(t, err)
		assert.Equal(t, "a : b ;\n", string(saved))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
	})

	t.Run("refuses concurrent modification", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.g4", "a : b ;\n")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("changed elsewhere\n"), 0o600))
		later := info.ModTime.Add(time.Second)
		require.NoError(t, os.Chtimes(path, later, later))

		_, err = fsutil.ReplaceFile(context.Background(), info, []byte("a: b;\n"), fsutil.BackupConfig{})
		require.ErrorIs(t, err, fsutil.ErrModified)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "changed elsewhere\n", string(got))
	})
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     fsutil.BackupConfig
		want    bool
		wantBak bool
	}{
		{"disabled", fsutil.BackupConfig{Mode: fsutil.BackupModeSidecar}, false, false},
		{"mode none", fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeNone}, false, false},
		{"sidecar", fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeTemp(t, "a.g4", "original\n")
			created, err := fsutil.CreateBackup(context.Background(), path, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, created)

			_, statErr := os.Stat(path + fsutil.BackupSuffix)
			assert.Equal(t, tt.wantBak, statErr == nil)
		})
	}

	t.Run("existing backup is kept", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.g4", "second\n")
		require.NoError(t, os.WriteFile(path+fsutil.BackupSuffix, []byte("first\n"), 0o600))

		created, err := fsutil.CreateBackup(context.Background(), path,
			fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar})
		require.NoError(t, err)
		assert.False(t, created)

		saved, err := os.ReadFile(path + fsutil.BackupSuffix)
		require.NoError(t, err)
		assert.Equal(t, "first\n", string(saved))
	})
}

func TestBackupPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "x.g4.g4fmt.bak", fsutil.BackupPath("x.g4", fsutil.BackupModeSidecar))
	assert.Empty(t, fsutil.BackupPath("x.g4", fsutil.BackupModeNone))
	assert.Equal(t, "x.g4.g4fmt.bak", fsutil.BackupPath("x.g4", "other"))
}
