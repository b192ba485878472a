package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	db   *sql.DB
	once sync.Once
)

// Config holds database configuration
type Config struct {
	Path         string
	MaxOpenConns int
}

// Open opens a SQLite database, applies connection pragmas and runs the
// embedded migrations
func Open(cfg Config, log *zap.Logger) (*sql.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := sql.Open("sqlite", dsn(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Path, err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxOpen / 2)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := NewMigrationManager(conn, log).RunMigrations(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Info("database initialized", zap.String("path", cfg.Path))
	return conn, nil
}

// dsn adds the connection pragmas; the driver applies them to every pooled
// connection, not just the first one.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Init initializes the shared database connection
func Init(cfg Config, log *zap.Logger) error {
	var err error
	once.Do(func() {
		db, err = Open(cfg, log)
	})
	return err
}

// GetDB returns the shared database instance
func GetDB() *sql.DB {
	if db == nil {
		panic("database not initialized, call Init first")
	}
	return db
}

// Close closes the shared database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// WithTx executes fn within a transaction on conn. The transaction is rolled
// back when fn returns an error or panics.
func WithTx(ctx context.Context, conn *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
