package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTestCSV(rows ...string) string {
	var sb strings.Builder
	sb.WriteString("path,user,age,files,disk,accessed,modified\n")
	for _, r := range rows {
		sb.WriteString(r)
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestLoadRejectsWrongHeader(t *testing.T) {
	_, err := Load(strings.NewReader("nope\n"))
	require.Error(t, err)
}

func TestDrillDownWithUserFilter(t *testing.T) {
	csvData := buildTestCSV(
		"/,alice,0,1,10,100,100",
		"/,bob,1,1,20,200,200",
		"/docs,alice,2,1,30,300,300",
	)
	idx, err := Load(strings.NewReader(csvData))
	require.NoError(t, err)

	children, err := idx.ListChildren("/", []string{"alice"}, nil)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, "/docs", children[0].Path)
	require.Contains(t, children[0].Users, "alice")
	require.NotContains(t, children[0].Users, "bob")
	ageStats := children[0].Users["alice"]
	require.Contains(t, ageStats, "2")
	require.Equal(t, uint64(1), ageStats["2"].Files)
	require.Equal(t, uint64(30), ageStats["2"].Disk)
}

func TestDrillDownWithAgeFilterAllUsers(t *testing.T) {
	csvData := buildTestCSV(
		"/,alice,0,1,10,100,100",
		"/,bob,1,1,20,200,200",
		"/docs,alice,2,1,30,300,300",
	)
	idx, err := Load(strings.NewReader(csvData))
	require.NoError(t, err)

	age := 2
	children, err := idx.ListChildren("/", nil, &age)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, "/docs", children[0].Path)
	ageStats := children[0].Users["alice"]
	require.Len(t, ageStats, 1)
	require.Contains(t, ageStats, "2")
}

func TestDrillDownNeverReturnsEmptyFolder(t *testing.T) {
	csvData := buildTestCSV(
		"/,alice,0,1,10,100,100",
		"/docs,alice,2,1,30,300,300",
	)
	idx, err := Load(strings.NewReader(csvData))
	require.NoError(t, err)

	// Filtering for a user with zero presence at /docs must drop it
	// entirely, not return it with an empty users map.
	children, err := idx.ListChildren("/", []string{"bob"}, nil)
	require.NoError(t, err)
	require.Empty(t, children)
}

func TestDrillDownMissingDirIsNotFound(t *testing.T) {
	idx, err := Load(strings.NewReader(buildTestCSV("/,alice,0,1,10,100,100")))
	require.NoError(t, err)

	_, err = idx.ListChildren("/nope", nil, nil)
	require.ErrorIs(t, err, ErrDirNotFound)
}

func TestLoadMergesIdenticalKeysAdditively(t *testing.T) {
	csvData := buildTestCSV(
		"/docs,alice,0,1,10,100,50",
		"/docs,alice,0,2,5,50,200",
	)
	idx, err := Load(strings.NewReader(csvData))
	require.NoError(t, err)

	s, ok := idx.perUserAge[tripleKey{path: "/docs", user: "alice", age: 0}]
	require.True(t, ok)
	require.Equal(t, uint64(3), s.Files)
	require.Equal(t, uint64(15), s.Disk)
	require.Equal(t, int64(100), s.Accessed)
	require.Equal(t, int64(200), s.Modified)
}

func TestUsersSortedAcrossAllRows(t *testing.T) {
	idx, err := Load(strings.NewReader(buildTestCSV(
		"/,zed,0,1,1,1,1",
		"/,amy,0,1,1,1,1",
	)))
	require.NoError(t, err)
	require.Equal(t, []string{"amy", "zed"}, idx.Users())
}
