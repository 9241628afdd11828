package scanner

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sganis/statwalker/internal/codec"
)

func TestScanProducesCSVWithHeaderAndEntries(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "file.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.txt"), []byte("x"), 0o644))

	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "out.csv")

	res, err := Scan(Config{
		Roots:   []string{root},
		OutDir:  outDir,
		OutPath: outPath,
		Workers: 2,
		Quiet:   true,
	})
	require.NoError(t, err)
	require.Greater(t, res.TotalEntries, int64(0))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())
	require.Equal(t, codec.CSVHeader, sc.Text())

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())

	// root dir + "a" + "a/b" + "a/b/file.txt" + "top.txt" == 5 entries
	require.Len(t, lines, 5)

	found := false
	for _, l := range lines {
		if strings.Contains(l, "top.txt") {
			found = true
		}
	}
	require.True(t, found)
}

func TestScanRefusesExistingOutput(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "out.csv")
	require.NoError(t, os.WriteFile(outPath, []byte("x"), 0o644))

	_, err := Scan(Config{Roots: []string{root}, OutDir: outDir, OutPath: outPath, Quiet: true})
	require.Error(t, err)
}

func TestSkipMatcherSubstring(t *testing.T) {
	m := newSkipMatcher("node_modules")
	require.True(t, m.shouldSkip("/a/b/node_modules/x"))
	require.False(t, m.shouldSkip("/a/b/c"))

	empty := newSkipMatcher("")
	require.False(t, empty.shouldSkip("/anything"))
}

func TestSortedMergeIsByteStable(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "out.csv")

	_, err := Scan(Config{
		Roots:   []string{root},
		OutDir:  outDir,
		OutPath: outPath,
		Workers: 1,
		NoAtime: true,
		Quiet:   true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Equal(t, codec.CSVHeader, lines[0])
	for i := 2; i < len(lines); i++ {
		require.LessOrEqual(t, lines[i-1], lines[i])
	}
}
