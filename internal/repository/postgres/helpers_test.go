package postgres

import (
	"database/sql/driver"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// arrayConverter passes string slices through untouched, the way the pgx
// driver accepts them for ANY($1) parameters.
type arrayConverter struct{}

func (arrayConverter) ConvertValue(v any) (driver.Value, error) {
	if s, ok := v.([]string); ok {
		return s, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

// stringsArg matches a []string query argument.
type stringsArg []string

func (a stringsArg) Match(v driver.Value) bool {
	s, ok := v.([]string)
	return ok && reflect.DeepEqual([]string(a), s)
}

func newMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.ValueConverterOption(arrayConverter{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return &Connection{DB: db}, mock
}
