package config

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{
		Host:     "db.internal",
		Port:     "3306",
		User:     "somity",
		Password: "secret",
		DBName:   "ledger",
	})

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db.internal:3306", parsed.Addr)
	assert.Equal(t, "ledger", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.ClientFoundRows, "ledger updates rely on matched-row counts")
	assert.Equal(t, "'READ-COMMITTED'", parsed.Params["transaction_isolation"])
}
