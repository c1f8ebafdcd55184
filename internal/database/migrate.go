package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"quiz-craft/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations applies all pending up migrations for driver.
// Postgres and SQLite go through golang-migrate; Oracle has no pure-Go
// migrate driver and uses a small version-tracking runner instead.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	switch driver {
	case DriverPostgres, DriverSQLite:
		return runGolangMigrate(db, driver)
	case DriverOracle:
		return runOracleMigrations(ctx, db)
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func runGolangMigrate(db *sql.DB, driver string) error {
	src, err := iofs.New(migrationsFS, path.Join("migrations", driver))
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	var m *migrate.Migrate
	switch driver {
	case DriverPostgres:
		target, err := migratepgx.WithInstance(db, &migratepgx.Config{})
		if err != nil {
			return fmt.Errorf("could not create postgres migrate driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "pgx5", target)
		if err != nil {
			return fmt.Errorf("could not create migrator: %w", err)
		}
	case DriverSQLite:
		target, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return fmt.Errorf("could not create sqlite migrate driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", target)
		if err != nil {
			return fmt.Errorf("could not create migrator: %w", err)
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Get().Info("Migrations completed successfully",
		zap.String("driver", driver), zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

const oracleVersionTable = `CREATE TABLE schema_migrations (
    version    VARCHAR2(255) PRIMARY KEY,
    applied_at NUMBER(19) NOT NULL
)`

func runOracleMigrations(ctx context.Context, db *sql.DB) error {
	l := logger.Get()

	if _, err := db.ExecContext(ctx, oracleVersionTable); err != nil && !isOracleAlreadyExists(err) {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}

	files, err := OracleMigrationFiles()
	if err != nil {
		return err
	}

	for _, name := range files {
		version := strings.TrimSuffix(name, ".up.sql")

		var applied int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = :1`, version).Scan(&applied); err != nil {
			return fmt.Errorf("could not check migration %s: %w", version, err)
		}
		if applied > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, path.Join("migrations", DriverOracle, name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (:1, :2)`,
			version, time.Now().UnixMilli()); err != nil {
			return fmt.Errorf("could not record migration %s: %w", name, err)
		}

		l.Info("Executed migration", zap.String("file", name))
	}

	l.Info("Migrations completed successfully", zap.String("driver", DriverOracle))
	return nil
}

// OracleMigrationFiles lists the embedded Oracle up migrations in version order.
func OracleMigrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, path.Join("migrations", DriverOracle))
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// SplitStatements splits a script on ';' line endings. Oracle executes one
// statement per call and rejects a trailing semicolon.
func SplitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// ORA-00955: name is already used by an existing object
func isOracleAlreadyExists(err error) bool {
	return strings.Contains(err.Error(), "ORA-00955")
}
