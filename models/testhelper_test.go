package models

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens an isolated in-memory database per test. The shared
// cache keeps every pooled connection on the same database; the DSN name
// keeps parallel tests apart.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := MigrateTables(db); err != nil {
		t.Fatalf("MigrateTables: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewStore(db, log, nil, NewChangeFeed())
}

func mustCreateSupply(t *testing.T, store *Store, input *NewSupply) *Supply {
	t.Helper()
	supply, err := store.CreateSupply(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateSupply %q: %v", input.Name, err)
	}
	return supply
}

func mustGetSupply(t *testing.T, store *Store, code string) *Supply {
	t.Helper()
	supply, err := store.GetSupply(context.Background(), code)
	if err != nil {
		t.Fatalf("GetSupply %s: %v", code, err)
	}
	return supply
}
