package abi

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandboxrt/sandboxrt/sandbox"
)

// withScratchNullDevice points inst's policy at a real, ephemeral file
// instead of the host's actual null device, so tests that forward a real
// link/rename/symlink/unlink syscall never touch /dev/null.
func withScratchNullDevice(t *testing.T, inst *sandbox.Instance) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scratch-null")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	inst.Policy.SetNullDevicePathForTest(path)
	return path
}

func nullDeviceHostPathForTest() string {
	if runtime.GOOS == "windows" {
		return "nul"
	}
	return "/dev/null"
}

func TestPathOpenNullDeviceSucceeds(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	path := nullDeviceHostPathForTest() + "\x00"
	inst.Heap.WriteBytes(32, []byte(path))

	errno, err := PathOpen(inst, 3, 0, 32, uint32(len(path)), 0, 0, 0, 0, 64)
	require.NoError(t, err)
	require.Equal(t, int32(sandbox.ErrnoSuccess), errno)

	fd := inst.Heap.I32Load(64)
	assert.GreaterOrEqual(t, fd, uint32(3))
}

func TestPathOpenForbiddenPathDenied(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	path := "/etc/passwd\x00"
	inst.Heap.WriteBytes(32, []byte(path))

	errno, err := PathOpen(inst, 3, 0, 32, uint32(len(path)), 0, 0, 0, 0, 64)
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoAcces), errno)
}

func TestPathOpenDedupSameGuestDescriptor(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	path := nullDeviceHostPathForTest() + "\x00"
	inst.Heap.WriteBytes(32, []byte(path))

	_, err := PathOpen(inst, 3, 0, 32, uint32(len(path)), 0, 0, 0, 0, 64)
	require.NoError(t, err)
	first := inst.Heap.I32Load(64)

	_, err = PathOpen(inst, 3, 0, 32, uint32(len(path)), 0, 0, 0, 0, 68)
	require.NoError(t, err)
	second := inst.Heap.I32Load(68)

	assert.Equal(t, first, second, "opening the null device twice must dedup to the same guest descriptor")
}

func TestPathOpenZeroLengthPathIsInvalid(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	errno, err := PathOpen(inst, 3, 0, 32, 0, 0, 0, 0, 0, 64)
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoInval), errno)
}

func TestPathFilestatSetTimesNotSupported(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	errno, err := PathFilestatSetTimes(inst, 3, 0, 32, 0, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoNotSup), errno)
}

func TestPathCreateDirectoryOnNullDeviceIsNotDir(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	path := nullDeviceHostPathForTest() + "\x00"
	inst.Heap.WriteBytes(32, []byte(path))

	errno, err := PathCreateDirectory(inst, 3, 32, uint32(len(path)))
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoNotDir), errno)
}

func TestPathCreateDirectoryForbiddenPathIsAcces(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	path := "/tmp\x00"
	inst.Heap.WriteBytes(32, []byte(path))

	errno, err := PathCreateDirectory(inst, 3, 32, uint32(len(path)))
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoAcces), errno)
}

func TestPathLinkOnNullDeviceReportsExist(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	scratch := withScratchNullDevice(t, inst)
	path := scratch + "\x00"
	inst.Heap.WriteBytes(32, []byte(path))
	inst.Heap.WriteBytes(200, []byte(path))

	// Both old and new path resolve to the same already-existing file, so
	// the forwarded unix.Link call always reports the destination as
	// already existing.
	errno, err := PathLink(inst, 3, 0, 32, uint32(len(path)), 3, 200, uint32(len(path)))
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoExist), errno)
}

func TestPathLinkForbiddenPathDenied(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	path := "/etc/passwd\x00"
	inst.Heap.WriteBytes(32, []byte(path))
	inst.Heap.WriteBytes(200, []byte(path))

	errno, err := PathLink(inst, 3, 0, 32, uint32(len(path)), 3, 200, uint32(len(path)))
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoAcces), errno)
}

func TestPathLinkZeroLengthPathIsInvalid(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	errno, err := PathLink(inst, 3, 0, 32, 0, 3, 200, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoInval), errno)
}

func TestPathReadlinkOnNullDeviceIsInvalid(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	path := nullDeviceHostPathForTest() + "\x00"
	inst.Heap.WriteBytes(32, []byte(path))

	errno, err := PathReadlink(inst, 3, 32, uint32(len(path)), 64, 16, 80)
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoInval), errno, "the null device is never a symlink")
}

func TestPathReadlinkForbiddenPathDenied(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	path := "/etc/passwd\x00"
	inst.Heap.WriteBytes(32, []byte(path))

	errno, err := PathReadlink(inst, 3, 32, uint32(len(path)), 64, 16, 80)
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoAcces), errno)
}

func TestPathReadlinkZeroLengthPathIsInvalid(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	errno, err := PathReadlink(inst, 3, 32, 0, 64, 16, 80)
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoInval), errno)
}

func TestPathRenameOnNullDeviceSucceeds(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	scratch := withScratchNullDevice(t, inst)
	path := scratch + "\x00"
	inst.Heap.WriteBytes(32, []byte(path))
	inst.Heap.WriteBytes(200, []byte(path))

	// Renaming a path onto itself is a documented no-op success.
	errno, err := PathRename(inst, 3, 32, uint32(len(path)), 3, 200, uint32(len(path)))
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoSuccess), errno)
}

func TestPathRenameForbiddenPathDenied(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	path := "/etc/passwd\x00"
	inst.Heap.WriteBytes(32, []byte(path))
	inst.Heap.WriteBytes(200, []byte(path))

	errno, err := PathRename(inst, 3, 32, uint32(len(path)), 3, 200, uint32(len(path)))
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoAcces), errno)
}

func TestPathRenameZeroLengthPathIsInvalid(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	errno, err := PathRename(inst, 3, 32, 0, 3, 200, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoInval), errno)
}

func TestPathSymlinkOnNullDeviceReportsExist(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	scratch := withScratchNullDevice(t, inst)
	target := "link-target\x00"
	inst.Heap.WriteBytes(32, []byte(target))
	newPath := scratch + "\x00"
	inst.Heap.WriteBytes(200, []byte(newPath))

	// newPath already exists (it is the scratch file itself), so the
	// forwarded unix.Symlink call reports it as already existing.
	errno, err := PathSymlink(inst, 32, uint32(len(target)), 3, 200, uint32(len(newPath)))
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoExist), errno)
}

func TestPathSymlinkForbiddenNewPathDenied(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	target := "link-target\x00"
	inst.Heap.WriteBytes(32, []byte(target))
	newPath := "/etc/passwd\x00"
	inst.Heap.WriteBytes(200, []byte(newPath))

	errno, err := PathSymlink(inst, 32, uint32(len(target)), 3, 200, uint32(len(newPath)))
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoAcces), errno)
}

func TestPathSymlinkZeroLengthOldPathIsInvalid(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	newPath := nullDeviceHostPathForTest() + "\x00"
	inst.Heap.WriteBytes(200, []byte(newPath))

	errno, err := PathSymlink(inst, 32, 0, 3, 200, uint32(len(newPath)))
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoInval), errno)
}

func TestPathUnlinkFileOnNullDeviceSucceeds(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	scratch := withScratchNullDevice(t, inst)
	path := scratch + "\x00"
	inst.Heap.WriteBytes(32, []byte(path))

	errno, err := PathUnlinkFile(inst, 3, 32, uint32(len(path)))
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoSuccess), errno)
	_, statErr := os.Stat(scratch)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPathUnlinkFileForbiddenPathDenied(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	path := "/etc/passwd\x00"
	inst.Heap.WriteBytes(32, []byte(path))

	errno, err := PathUnlinkFile(inst, 3, 32, uint32(len(path)))
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoAcces), errno)
}

func TestPathUnlinkFileZeroLengthPathIsInvalid(t *testing.T) {
	inst := newTestInstance(t, sandbox.InitConfig{})
	errno, err := PathUnlinkFile(inst, 3, 32, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(sandbox.ErrnoInval), errno)
}
