package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		exp    Dialect
		expErr string
	}{
		{in: "sqlite", exp: DialectSQLite},
		{in: "SQLite3", exp: DialectSQLite},
		{in: " postgres ", exp: DialectPostgres},
		{in: "postgresql", exp: DialectPostgres},
		{in: "mysql", expErr: "unsupported database dialect 'mysql'"},
		{in: "", expErr: "unsupported database dialect ''"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			d, err := DialectFromString(tt.in)
			if tt.expErr != "" {
				require.EqualError(t, err, tt.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.exp, d)
		})
	}
}

func TestDialectPlaceholder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "?", DialectSQLite.Placeholder(1))
	assert.Equal(t, "?", DialectSQLite.Placeholder(3))
	assert.Equal(t, "$1", DialectPostgres.Placeholder(1))
	assert.Equal(t, "$3", DialectPostgres.Placeholder(3))
	assert.Equal(t, "sqlite", DialectSQLite.DriverName())
	assert.Equal(t, "pgx", DialectPostgres.DriverName())
}
