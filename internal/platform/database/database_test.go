package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	db, err := Open(context.Background(), "sqlite3", "file::memory:")
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpen_PingFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, driver := range []string{"", DriverPgx, DriverPQ} {
		t.Run("driver "+driver, func(t *testing.T) {
			db, err := Open(ctx, driver, "postgres://nobody@127.0.0.1:1/none?sslmode=disable")
			assert.Nil(t, db)
			assert.ErrorContains(t, err, "ping database")
		})
	}
}
