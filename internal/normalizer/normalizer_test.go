package normalizer

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/updatechecker/internal/testlib"
	"github.com/mattermost/updatechecker/model"
)

// recordingFs counts rename attempts.
type recordingFs struct {
	afero.Fs
	renames int
}

func (fs *recordingFs) Rename(oldname, newname string) error {
	fs.renames++
	return fs.Fs.Rename(oldname, newname)
}

const remoteSource = "/tmp/upgrade/archive"

func makeFs(t *testing.T, files ...string) *recordingFs {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(remoteSource, 0755))
	for _, file := range files {
		path := filepath.Join(remoteSource, file)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte("<?php"), 0644))
	}
	return &recordingFs{Fs: fs}
}

func requireNormalizeError(t *testing.T, err error, code string) {
	t.Helper()
	var normalizeErr *NormalizeError
	require.True(t, errors.As(err, &normalizeErr), "expected a NormalizeError, got %v", err)
	assert.Equal(t, code, normalizeErr.Code)
	assert.NotEmpty(t, normalizeErr.Error())
}

func TestNormalize(t *testing.T) {
	logger := testlib.MakeLogger(t)

	t.Run("renames the single directory", func(t *testing.T) {
		fs := makeFs(t, "my-plugin-master/my-plugin.php")
		normalizer := New(fs, logger)

		path, err := normalizer.Normalize(filepath.Join(remoteSource, "my-plugin-master"), remoteSource, "my-plugin")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(remoteSource, "my-plugin"), path)
		assert.Equal(t, 1, fs.renames)

		exists, err := afero.Exists(fs, filepath.Join(remoteSource, "my-plugin", "my-plugin.php"))
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = afero.DirExists(fs, filepath.Join(remoteSource, "my-plugin-master"))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("already named correctly", func(t *testing.T) {
		fs := makeFs(t, "my-plugin/my-plugin.php", "stray.txt")
		normalizer := New(fs, logger)

		source := filepath.Join(remoteSource, "my-plugin") + "/"
		path, err := normalizer.Normalize(source, remoteSource, "my-plugin")
		require.NoError(t, err)
		assert.Equal(t, source, path)
		assert.Zero(t, fs.renames)
	})

	t.Run("install root is never renamed", func(t *testing.T) {
		fs := makeFs(t, "a/a.php", "b/b.php")
		normalizer := New(fs, logger)

		path, err := normalizer.Normalize(remoteSource, remoteSource, model.RootDirectoryName)
		require.NoError(t, err)
		assert.Equal(t, remoteSource, path)
		assert.Zero(t, fs.renames)
	})

	t.Run("two top-level entries", func(t *testing.T) {
		fs := makeFs(t, "my-plugin-master/my-plugin.php", "readme.txt")
		normalizer := New(fs, logger)

		_, err := normalizer.Normalize(remoteSource, remoteSource, "my-plugin")
		requireNormalizeError(t, err, CodeBadArchiveStructure)
		assert.Zero(t, fs.renames)
	})

	t.Run("single plain file", func(t *testing.T) {
		fs := makeFs(t, "my-plugin.php")
		normalizer := New(fs, logger)

		_, err := normalizer.Normalize(remoteSource, remoteSource, "my-plugin")
		requireNormalizeError(t, err, CodeBadArchiveStructure)
		assert.Zero(t, fs.renames)
	})

	t.Run("empty archive", func(t *testing.T) {
		fs := makeFs(t)
		normalizer := New(fs, logger)

		_, err := normalizer.Normalize(remoteSource, remoteSource, "my-plugin")
		requireNormalizeError(t, err, CodeBadArchiveStructure)
		assert.Zero(t, fs.renames)
	})

	t.Run("source outside the archive", func(t *testing.T) {
		fs := makeFs(t, "project-main/my-plugin.php")
		require.NoError(t, fs.MkdirAll("/srv/secrets", 0755))
		normalizer := New(fs, logger)

		_, err := normalizer.Normalize("/srv/secrets", remoteSource, "my-plugin")
		requireNormalizeError(t, err, CodeBadArchiveStructure)
		assert.Zero(t, fs.renames)

		exists, err := afero.DirExists(fs, "/srv/secrets")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("source is not the archive root", func(t *testing.T) {
		fs := makeFs(t, "project-main/nested/my-plugin.php")
		normalizer := New(fs, logger)

		_, err := normalizer.Normalize(filepath.Join(remoteSource, "project-main", "nested"), remoteSource, "my-plugin")
		requireNormalizeError(t, err, CodeBadArchiveStructure)
		assert.Zero(t, fs.renames)
	})

	t.Run("unreadable archive only accepts a direct child", func(t *testing.T) {
		fs := &recordingFs{Fs: afero.NewMemMapFs()}
		require.NoError(t, fs.MkdirAll("/srv/secrets", 0755))
		normalizer := New(fs, logger)

		_, err := normalizer.Normalize("/srv/secrets", remoteSource, "my-plugin")
		requireNormalizeError(t, err, CodeBadArchiveStructure)
		assert.Zero(t, fs.renames)

		_, err = normalizer.Normalize(filepath.Join(remoteSource, "my-plugin-master"), remoteSource, "my-plugin")
		requireNormalizeError(t, err, CodeRenameFailed)
		assert.Equal(t, 1, fs.renames)
	})

	t.Run("confined to a base path", func(t *testing.T) {
		root := afero.NewMemMapFs()
		require.NoError(t, root.MkdirAll(filepath.Join("/work", remoteSource, "my-plugin-master"), 0755))
		normalizer := New(afero.NewBasePathFs(root, "/work"), logger)

		path, err := normalizer.Normalize(filepath.Join(remoteSource, "my-plugin-master"), remoteSource, "my-plugin")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(remoteSource, "my-plugin"), path)

		exists, err := afero.DirExists(root, filepath.Join("/work", remoteSource, "my-plugin"))
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("rename fails", func(t *testing.T) {
		fs := makeFs(t, "my-plugin-master/my-plugin.php")
		readOnly := &recordingFs{Fs: afero.NewReadOnlyFs(fs.Fs)}
		normalizer := New(readOnly, logger)

		_, err := normalizer.Normalize(filepath.Join(remoteSource, "my-plugin-master"), remoteSource, "my-plugin")
		requireNormalizeError(t, err, CodeRenameFailed)
		assert.Equal(t, 1, readOnly.renames)

		exists, err := afero.DirExists(fs, filepath.Join(remoteSource, "my-plugin-master"))
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestNormalizeFor(t *testing.T) {
	logger := testlib.MakeLogger(t)
	identity, err := model.NewIdentity(model.PluginType, "my-plugin", "")
	require.NoError(t, err)
	source := filepath.Join(remoteSource, "my-plugin-master")

	t.Run("other component being upgraded", func(t *testing.T) {
		fs := makeFs(t, "my-plugin-master/my-plugin.php")
		normalizer := New(fs, logger)

		other, err := model.NewIdentity(model.PluginType, "other-plugin", "")
		require.NoError(t, err)

		path, err := normalizer.NormalizeFor(UpgradeTarget(other), identity, source, remoteSource)
		require.NoError(t, err)
		assert.Equal(t, source, path)
		assert.Zero(t, fs.renames)
	})

	t.Run("no installer", func(t *testing.T) {
		fs := makeFs(t, "my-plugin-master/my-plugin.php")
		normalizer := New(fs, logger)

		path, err := normalizer.NormalizeFor(nil, identity, source, remoteSource)
		require.NoError(t, err)
		assert.Equal(t, source, path)
	})

	t.Run("component being upgraded", func(t *testing.T) {
		fs := makeFs(t, "my-plugin-master/my-plugin.php")
		normalizer := New(fs, logger)

		path, err := normalizer.NormalizeFor(UpgradeTarget(identity), identity, source, remoteSource)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(remoteSource, "my-plugin"), path)
		assert.Equal(t, 1, fs.renames)
	})
}
