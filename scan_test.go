package rombat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/ZaparooProject/go-rombat/detector"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, data, 0o600))
}

func gbROM(cartType byte) []byte {
	rom := make([]byte, 0x150)
	rom[0x147] = cartType
	return rom
}

func nesROM(flags6 byte) []byte {
	return []byte{'N', 'E', 'S', 0x1A, 0x01, 0x01, flags6, 0x00}
}

// populate creates a small ROM collection spread over subdirectories.
func populate(t *testing.T, root string) {
	t.Helper()
	writeFile(t, filepath.Join(root, "gb", "zelda.gb"), gbROM(0x03))
	writeFile(t, filepath.Join(root, "gb", "tetris.gb"), gbROM(0x00))
	writeFile(t, filepath.Join(root, "gb", "short.gbc"), make([]byte, 0x20))
	writeFile(t, filepath.Join(root, "nes", "metroid.nes"), nesROM(0x02))
	writeFile(t, filepath.Join(root, "nes", "smb.nes"), nesROM(0x00))
	writeFile(t, filepath.Join(root, "nes", "broken.nes"), []byte("XXX\x1a\x00\x00\x02"))
	writeFile(t, filepath.Join(root, "nes", "readme.txt"), []byte("not a rom"))
	writeFile(t, filepath.Join(root, "snes", "empty.sfc"), nil)
	writeFile(t, filepath.Join(root, "md", "blank.gen"), make([]byte, 0x200))
}

func TestScan_EndToEndGameBoy(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "roms")
	writeFile(t, filepath.Join(root, "game.gb"), gbROM(0x03))
	writeFile(t, filepath.Join(root, "game.txt"), []byte("irrelevant"))

	entries, err := Scan(context.Background(), root, ScanOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))

	lines := BuildReport(entries, "")
	assert.NoError(t, WriteReport(ReportPath(root), lines))

	data, err := os.ReadFile(filepath.Join(root, "..", "output.txt"))
	assert.NoError(t, err)
	assert.Equal(t, "game.gb\n", string(data))
}

func TestScan_EndToEndBrokenNES(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "roms")
	writeFile(t, filepath.Join(root, "broken.nes"), []byte("XXX\x1a\x01\x01\x02\x00"))

	entries, err := Scan(context.Background(), root, ScanOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, detector.Unreadable, entries[0].Classification.Kind)

	lines := BuildReport(entries, "")
	assert.Equal(t, []string{"# File could not be read: broken.nes"}, lines)
}

func TestScan_SkipsUnsupportedAndSorts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	populate(t, root)

	entries, err := Scan(context.Background(), root, ScanOptions{})
	assert.NoError(t, err)

	var names []string
	for i, e := range entries {
		names = append(names, e.Name)
		if i > 0 {
			assert.True(t, entries[i-1].Path < e.Path, "entries not sorted by path")
		}
	}
	assert.Equal(t, 8, len(names))
	for _, name := range names {
		assert.True(t, name != "readme.txt", "unsupported file was classified")
	}
}

func TestScan_Report(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	populate(t, root)

	entries, err := Scan(context.Background(), root, ScanOptions{})
	assert.NoError(t, err)

	want := []string{
		"# File could not be read: blank.gen",
		"# File could not be read: broken.nes",
		"# File could not be read: empty.sfc",
		"# File could not be read: short.gbc",
		"metroid.nes",
		"zelda.gb",
	}
	assert.Equal(t, want, BuildReport(entries, ""))
}

func TestScan_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	populate(t, root)
	for i := range 32 {
		writeFile(t, filepath.Join(root, "bulk", string(rune('a'+i%26))+string(rune('0'+i/26))+".gb"), gbROM(byte(i)))
	}

	sequential, err := Scan(context.Background(), root, ScanOptions{Workers: 1})
	assert.NoError(t, err)
	parallel, err := Scan(context.Background(), root, ScanOptions{Workers: runtime.NumCPU() + 3})
	assert.NoError(t, err)

	assert.Equal(t, len(sequential), len(parallel))
	for i := range sequential {
		assert.Equal(t, sequential[i].Path, parallel[i].Path)
		assert.Equal(t, sequential[i].Classification.Kind, parallel[i].Classification.Kind)
	}
	assert.Equal(t, BuildReport(sequential, ""), BuildReport(parallel, ""))
}

func TestScan_Idempotent(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "roms")
	populate(t, root)

	run := func() string {
		entries, err := Scan(context.Background(), root, ScanOptions{Workers: 4})
		assert.NoError(t, err)
		assert.NoError(t, WriteReport(ReportPath(root), BuildReport(entries, "")))
		data, err := os.ReadFile(filepath.Join(base, ReportFileName))
		assert.NoError(t, err)
		return string(data)
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestScan_StrictSMD(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "gamesmd"), make([]byte, 0x200))

	entries, err := Scan(context.Background(), root, ScanOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, ConsoleGenesis, entries[0].Console)

	entries, err = Scan(context.Background(), root, ScanOptions{DispatchOptions: DispatchOptions{StrictSMD: true}})
	assert.NoError(t, err)
	assert.Equal(t, 0, len(entries))
}

func TestScan_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), ScanOptions{})
	assert.True(t, errors.Is(err, os.ErrNotExist), "expected not-exist error")
}

func TestScan_Cancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	populate(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, root, ScanOptions{Workers: 4})
	assert.True(t, errors.Is(err, context.Canceled), "expected context.Canceled")
}

func TestScan_UnreadableSubdirectory(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.nes"), nesROM(0x02))
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "hidden.nes"), nesROM(0x02))
	assert.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	entries, err := Scan(context.Background(), root, ScanOptions{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"# File could not be read: locked", "ok.nes"}, BuildReport(entries, ""))
}

func symlink(t *testing.T, target, link string) {
	t.Helper()
	assert.NoError(t, os.MkdirAll(filepath.Dir(link), 0o755))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
}

func TestScan_SymlinkRoot(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	realDir := filepath.Join(base, "realDir")
	writeFile(t, filepath.Join(realDir, "game.gb"), gbROM(0x03))
	link := filepath.Join(base, "roms")
	symlink(t, realDir, link)

	direct, err := Scan(context.Background(), realDir, ScanOptions{})
	assert.NoError(t, err)
	viaLink, err := Scan(context.Background(), link, ScanOptions{})
	assert.NoError(t, err)

	assert.Equal(t, 1, len(viaLink))
	assert.Equal(t, BuildReport(direct, ""), BuildReport(viaLink, ""))
	assert.Equal(t, filepath.Join(link, "game.gb"), viaLink[0].Path)
}

func TestScan_SymlinkEntries(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "roms")
	outside := filepath.Join(base, "outside")
	writeFile(t, filepath.Join(outside, "zelda.gb"), gbROM(0x03))
	assert.NoError(t, os.MkdirAll(filepath.Join(outside, "folder"), 0o755))

	symlink(t, filepath.Join(outside, "zelda.gb"), filepath.Join(root, "alias.gb"))
	symlink(t, filepath.Join(outside, "folder"), filepath.Join(root, "folder.gb"))
	symlink(t, filepath.Join(outside, "missing.nes"), filepath.Join(root, "dangling.nes"))

	entries, err := Scan(context.Background(), root, ScanOptions{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"# File could not be read: dangling.nes", "alias.gb"}, BuildReport(entries, ""))
}
