package aggregator

import (
	"os/user"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sganis/statwalker/internal/codec"
)

// currentUserAndUID returns the running test process's own uid/username so
// Resolve succeeds without depending on any particular fixture account
// existing on the test host.
func currentUserAndUID(t *testing.T) (uint32, string) {
	t.Helper()
	u, err := user.Current()
	require.NoError(t, err)
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	require.NoError(t, err)
	return uint32(uid), u.Username
}

func TestAncestorExpansionUnix(t *testing.T) {
	uid, uname := currentUserAndUID(t)
	now := int64(1_700_000_000)

	agg := New(now)
	agg.IngestRow(codec.ParsedRow{
		Path: "/a/b/file.txt", Uid: uid, Mode: 0100644,
		Mtime: now, Atime: now, Disk: 100,
	})

	rows := agg.Rows()
	byPath := map[string]OutputRow{}
	for _, r := range rows {
		byPath[r.Path] = r
	}

	for _, p := range []string{"/", "/a", "/a/b"} {
		r, ok := byPath[p]
		require.Truef(t, ok, "expected ancestor row for %q, got rows %+v", p, rows)
		require.Equal(t, uint64(1), r.Files)
		require.Equal(t, uint64(100), r.Disk)
		require.Equal(t, uname, r.User)
		require.Equal(t, 0, r.Age)
	}
	// The file's own path is never a row: only strict ancestors are kept.
	_, ownPathPresent := byPath["/a/b/file.txt"]
	require.False(t, ownPathPresent)
}

func TestAncestorExpansionWindowsPath(t *testing.T) {
	uid, _ := currentUserAndUID(t)
	now := int64(1_700_000_000)

	agg := New(now)
	agg.IngestRow(codec.ParsedRow{
		Path: `C:\a\b\file.txt`, Uid: uid, Mode: 0100644,
		Mtime: now, Atime: now, Disk: 1,
	})

	rows := agg.Rows()
	var paths []string
	for _, r := range rows {
		paths = append(paths, r.Path)
	}
	require.ElementsMatch(t, []string{"/", "/C:", "/C:/a", "/C:/a/b"}, paths)
}

func TestAgeBucketBoundaries(t *testing.T) {
	now := int64(1_700_000_000)
	day := int64(secondsPerDay)

	cases := []struct {
		name  string
		mtime int64
		want  int
	}{
		{"exactly 60 days old", now - 60*day, 0},
		{"61 days old", now - 61*day, 1},
		{"exactly 600 days old", now - 600*day, 1},
		{"601 days old", now - 601*day, 2},
		{"zero mtime", 0, 2},
		{"negative mtime", -1, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, AgeBucket(now, c.mtime))
		})
	}
}

func TestSanitizeMtimeZeroesFarFuture(t *testing.T) {
	now := int64(1_700_000_000)
	require.Equal(t, now, SanitizeMtime(now, now))
	require.Equal(t, int64(0), SanitizeMtime(now, now+2*secondsPerDay))
	require.Equal(t, now+secondsPerDay, SanitizeMtime(now, now+secondsPerDay))
}

func TestDirectoryRowsCarryZeroAtime(t *testing.T) {
	uid, _ := currentUserAndUID(t)
	now := int64(1_700_000_000)

	agg := New(now)
	agg.IngestRow(codec.ParsedRow{
		Path: "/a", Uid: uid, Mode: 040755,
		Mtime: now, Atime: now - 1, Disk: 4096,
	})

	rows := agg.Rows()
	require.Len(t, rows, 1)
	require.Equal(t, "/", rows[0].Path)
	require.Equal(t, int64(0), rows[0].Accessed)
}

func TestIngestRowSkipsEmptyPath(t *testing.T) {
	uid, _ := currentUserAndUID(t)
	agg := New(1_700_000_000)
	agg.IngestRow(codec.ParsedRow{Path: "", Uid: uid, Mode: 0100644})
	require.Empty(t, agg.Rows())
}

func TestRunStreamsAggregateCSV(t *testing.T) {
	uid, uname := currentUserAndUID(t)
	now := int64(1_700_000_000)

	input := codec.CSVHeader + "\n" +
		strconv.FormatUint(0, 10) + "-1," +
		strconv.FormatInt(now, 10) + "," +
		strconv.FormatInt(now, 10) + "," +
		strconv.FormatUint(uint64(uid), 10) + "," +
		"0,33188,100,4096,/a/b/file.txt\n"

	agg, err := Run(strings.NewReader(input), now, int64(len(input)), nil)
	require.NoError(t, err)

	rows := agg.Rows()
	require.NotEmpty(t, rows)
	for _, r := range rows {
		require.Equal(t, uname, r.User)
	}
}

func TestRunRejectsWrongHeader(t *testing.T) {
	_, err := Run(strings.NewReader("nope\n"), 0, 0, nil)
	require.Error(t, err)
}

func TestWriteCSVQuotesFieldsWithCommas(t *testing.T) {
	var sb strings.Builder
	err := WriteCSV(&sb, []OutputRow{
		{Path: "/a,b", User: "alice", Age: 0, Files: 1, Disk: 1, Accessed: 1, Modified: 1},
	})
	require.NoError(t, err)
	require.Contains(t, sb.String(), `"/a,b"`)
}

func TestWriteCSVReplacesInvalidUTF8InPath(t *testing.T) {
	var sb strings.Builder
	err := WriteCSV(&sb, []OutputRow{
		{Path: "/a/\xff\xfeb", User: "alice", Age: 0, Files: 1, Disk: 1, Accessed: 1, Modified: 1},
	})
	require.NoError(t, err)
	require.True(t, strings.Contains(sb.String(), "�"))
	require.True(t, strings.Contains(sb.String(), "/a/"))
}

func TestWriteUnknownUIDs(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteUnknownUIDs(&sb, []uint32{7, 42}))
	require.Equal(t, "7\n42\n", sb.String())
}
