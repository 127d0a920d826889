package dayoff

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeHolidaysFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileHolidays(t *testing.T) {
	path := writeHolidaysFile(t, `# local closures
2025-12-24 Christmas Eve (office closed)

2025-08-15
not-a-date Broken line
`)

	holidays, err := NewFileHolidays(path, zap.NewNop()).Holidays(context.Background())
	require.NoError(t, err)
	require.Len(t, holidays, 2)

	assert.True(t, holidays[0].Date.Equal(day(2025, 12, 24)))
	assert.Equal(t, "Christmas Eve (office closed)", holidays[0].Name)
	assert.True(t, holidays[1].Date.Equal(day(2025, 8, 15)))
	assert.Empty(t, holidays[1].Name)
}

func TestFileHolidays_MissingFile(t *testing.T) {
	_, err := NewFileHolidays(filepath.Join(t.TempDir(), "nope.txt"), zap.NewNop()).Holidays(context.Background())
	assert.Error(t, err)
}

type staticHolidays struct {
	holidays []Holiday
	err      error
}

func (s staticHolidays) Holidays(context.Context) ([]Holiday, error) {
	return s.holidays, s.err
}

func TestCompositeHolidays(t *testing.T) {
	remote := staticHolidays{holidays: []Holiday{{Date: day(2025, 12, 25), Name: "Christmas"}}}
	local := staticHolidays{holidays: []Holiday{{Date: day(2025, 12, 24), Name: "Christmas Eve"}}}

	holidays, err := NewCompositeHolidays(zap.NewNop(), remote, local).Holidays(context.Background())
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "Christmas", holidays[0].Name)
	assert.Equal(t, "Christmas Eve", holidays[1].Name)
}

func TestCompositeHolidays_SourceErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	remote := staticHolidays{err: boom}
	local := staticHolidays{holidays: []Holiday{{Date: day(2025, 12, 24)}}}

	_, err := NewCompositeHolidays(zap.NewNop(), remote, local).Holidays(context.Background())
	assert.ErrorIs(t, err, boom)
}
