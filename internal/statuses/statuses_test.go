package statuses

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	tbl := Default()
	assert.Equal(t, 13, tbl.Len())

	code, ok := tbl.Code("Re-opened")
	require.True(t, ok)
	assert.Equal(t, Reopened, code)

	assert.Equal(t, []int{1, 4, 7, 8, 12, 13}, tbl.NonActiveCodes())
}

func TestIsNonActive(t *testing.T) {
	tbl := Default()
	cases := []struct {
		name string
		want bool
	}{
		{"New", true},
		{"In Progress", false},
		{"Pending", true},
		{"Confirming", true},
		{"Re-opened", true},
		{"Frozen", true},
		{"Feedback", true},
		{"Resolved", false},
		{"Closed", false},
		{"Rejected", false},
		{"Testing", false},
		{"Wait Release", false},
		{"Code Review", false},
		{"new", false},
		{"", false},
		{"Unknown", false},
	}
	for _, tc := range cases {
		if got := tbl.IsNonActive(tc.name); got != tc.want {
			t.Fatalf("IsNonActive(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNewTableCopiesInput(t *testing.T) {
	codes := map[string]int{"Open": 1}
	tbl := NewTable(codes, []int{1})
	codes["Open"] = 99

	code, _ := tbl.Code("Open")
	assert.Equal(t, 1, code)
}

func TestParseOverrides(t *testing.T) {
	tbl, err := Parse([]byte(`
statuses:
  Открыт: 1
  В работе: 2
  Закрыт: 3
non_active: [1]
`))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
	assert.True(t, tbl.IsNonActive("Открыт"))
	assert.False(t, tbl.IsNonActive("В работе"))
	assert.False(t, tbl.IsNonActive("New"))
}

func TestParseKeepsDefaultsForMissingSections(t *testing.T) {
	tbl, err := Parse([]byte("non_active: [5]\n"))
	require.NoError(t, err)
	assert.Equal(t, 13, tbl.Len())
	assert.True(t, tbl.IsNonActive("Closed"))
	assert.False(t, tbl.IsNonActive("New"))

	tbl, err = Parse([]byte("non_active: []\n"))
	require.NoError(t, err)
	assert.Empty(t, tbl.NonActiveCodes())
}

func TestParseRejectsUnknownNonActiveCode(t *testing.T) {
	_, err := Parse([]byte("non_active: [77]\n"))
	require.Error(t, err)

	_, err = Parse([]byte("statuses: [broken"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 13, tbl.Len())

	path := filepath.Join(t.TempDir(), "statuses.yaml")
	require.NoError(t, os.WriteFile(path, []byte("statuses:\n  Open: 1\nnon_active: [1]\n"), 0o644))
	tbl, err = Load(path)
	require.NoError(t, err)
	assert.True(t, tbl.IsNonActive("Open"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestExampleStatusesFile(t *testing.T) {
	tbl, err := Load(filepath.Join("..", "..", "configs", "statuses.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 13, tbl.Len())
	assert.Equal(t, []int{1, 2, 4, 7, 8, 12, 13}, tbl.NonActiveCodes())
	assert.True(t, tbl.IsNonActive("In Progress"))
	assert.False(t, Default().IsNonActive("In Progress"))
}
