package filesystem_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/subsplit/internal/filesystem"
	"github.com/temirov/subsplit/internal/shared"
)

var _ shared.FileSystem = filesystem.OSFileSystem{}

func TestOSFileSystemLifecycle(testInstance *testing.T) {
	fileSystem := filesystem.OSFileSystem{}
	scratchDirectory := filepath.Join(testInstance.TempDir(), "splitsh-download", "nested")

	require.NoError(testInstance, fileSystem.MkdirAll(scratchDirectory, 0o755))
	require.NoError(testInstance, fileSystem.MkdirAll(scratchDirectory, 0o755))

	archivePath := filepath.Join(scratchDirectory, "split-lite.tar.gz")
	require.NoError(testInstance, os.WriteFile(archivePath, []byte("archive"), 0o600))

	fileInfo, statError := fileSystem.Stat(archivePath)
	require.NoError(testInstance, statError)
	require.False(testInstance, fileInfo.IsDir())

	require.NoError(testInstance, fileSystem.Remove(archivePath))
	require.ErrorIs(testInstance, fileSystem.Remove(archivePath), fs.ErrNotExist)

	require.NoError(testInstance, fileSystem.RemoveAll(filepath.Dir(scratchDirectory)))
	require.NoError(testInstance, fileSystem.RemoveAll(filepath.Dir(scratchDirectory)))

	absolutePath, absError := fileSystem.Abs("bin/splitsh-lite")
	require.NoError(testInstance, absError)
	require.True(testInstance, filepath.IsAbs(absolutePath))
}
