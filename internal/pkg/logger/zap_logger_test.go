package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogs_FiltersAndPaginatesNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log.json")
	lines := `{"level":"INFO","timestamp":"2026-01-01T00:00:00Z","message":"first","module":"LEDGER"}
not-json
{"level":"ERROR","timestamp":"2026-01-01T00:00:01Z","message":"second","module":"PROVIDER"}
{"level":"INFO","timestamp":"2026-01-01T00:00:02Z","message":"third","module":"LEDGER"}
`
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	l := &ZapLogger{filePath: path}

	all, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)
	assert.NotEmpty(t, all[0].Id)

	infos, err := l.GetLogs("INFO", 1, 1)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "first", infos[0].Message)

	found, err := l.GetLogById(all[1].Id)
	require.NoError(t, err)
	assert.Equal(t, "second", found.Message)
}

func TestGetLogs_MissingFile(t *testing.T) {
	l := &ZapLogger{filePath: filepath.Join(t.TempDir(), "missing.json")}
	entries, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
