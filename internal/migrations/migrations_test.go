package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	script := `
-- header comment
CREATE TABLE a (id TEXT); -- trailing
CREATE TABLE b (
    id TEXT -- inline
);
`
	got := Statements(script)
	require.Len(t, got, 2)
	assert.Equal(t, "CREATE TABLE a (id TEXT)", got[0])
	assert.True(t, strings.HasPrefix(got[1], "CREATE TABLE b ("))
	assert.NotContains(t, got[1], "inline")
}

func TestEmbeddedSchema(t *testing.T) {
	content, err := files.ReadFile("0001_init.sql")
	require.NoError(t, err)

	stmts := Statements(string(content))
	assert.Len(t, stmts, 4)
	for _, table := range []string{"routes", "route_points", "route_stops", "fare_rates"} {
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

func TestTables(t *testing.T) {
	tables, err := Tables()
	require.NoError(t, err)
	assert.Equal(t, []string{"routes", "route_points", "route_stops", "fare_rates"}, tables)
}
