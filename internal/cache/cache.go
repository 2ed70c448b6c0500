// Package cache persists module-resolution and generic-instantiation
// records keyed by content hash. A record holds names only; a hit does not
// spare the caller the re-parse/re-analysis of a module or the
// monomorphisation of a generic (see module.Loader.resolveSource and
// analyser.instantiateGeneric). This is scoped to
// sub-compilation work within one invocation; it is not the cross-run
// incremental-recompilation cache spec.md's Non-goals explicitly exclude
// (see SPEC_FULL.md §9).
//
// The connection setup mirrors the teacher's db.Connect (db/sqlite.go):
// gorm over gorm.io/driver/sqlite for a local file DSN, or a libsql
// connector passed to the same sqlite.Dialector for a "libsql:"-prefixed
// DSN, so a replicated remote cache is a DSN change away.
package cache

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ModuleEntry is one cached module resolution: a hash of the resolved
// file's path and contents, mapped to a JSON
// snapshot of the symbols and types it contributed.
type ModuleEntry struct {
	Key         string `gorm:"primaryKey;type:varchar(64)"`
	Path        string `gorm:"type:text;index"`
	SymbolsJSON datatypes.JSON
	TypesJSON   datatypes.JSON
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// InstantiationEntry is one cached generic instantiation: the template's
// base name plus the concrete argument types, mapped to the mangled name of
// the already-produced concrete function.
type InstantiationEntry struct {
	Key          string `gorm:"primaryKey;type:varchar(64)"`
	BaseName     string `gorm:"type:text;index"`
	ArgTypesJSON datatypes.JSON
	MangledName  string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// Cache wraps a *gorm.DB scoped to the two tables above.
type Cache struct {
	db *gorm.DB
}

// Open connects to dsn (a local sqlite file path, or a "libsql://" /
// "https://" remote Turso URL) and migrates the schema.
func Open(dsn string, debug bool) (*Cache, error) {
	if !isURL(dsn) {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("cache: create directory: %w", err)
			}
		}
	}

	gormCfg := &gorm.Config{}
	if debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)
	if isURL(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv("GEMC_LIBSQL_AUTH_TOKEN"); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("cache: libsql connector: %w", err)
		}

		conn = sql.OpenDB(connector)
		dialector = sqlite.New(sqlite.Config{DriverName: "libsql", Conn: conn, DSN: dsn})
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("cache: connect: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := db.AutoMigrate(&ModuleEntry{}, &InstantiationEntry{}); err != nil {
		return nil, fmt.Errorf("cache: migrate: %w", err)
	}

	return &Cache{db: db}, nil
}

func isURL(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "libsql:")
}

// GetModule looks up a cached module resolution by key.
func (c *Cache) GetModule(key string) (*ModuleEntry, error) {
	var entry ModuleEntry
	err := c.db.First(&entry, "key = ?", key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// PutModule upserts a module resolution.
func (c *Cache) PutModule(entry *ModuleEntry) error {
	return c.db.Save(entry).Error
}

// GetInstantiation looks up a cached generic instantiation by key.
func (c *Cache) GetInstantiation(key string) (*InstantiationEntry, error) {
	var entry InstantiationEntry
	err := c.db.First(&entry, "key = ?", key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// PutInstantiation upserts a generic instantiation record.
func (c *Cache) PutInstantiation(entry *InstantiationEntry) error {
	return c.db.Save(entry).Error
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
