package migrator

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/*.sql
var testFiles embed.FS

func TestMustGetNewMigrator(t *testing.T) {
	m := MustGetNewMigrator(testFiles, "testdata", "reviewcheck")
	require.NotNil(t, m.srcDriver)
	assert.Equal(t, "reviewcheck", m.dbName)

	first, err := m.srcDriver.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	assert.Panics(t, func() {
		MustGetNewMigrator(testFiles, "nothing-here", "reviewcheck")
	})
}
