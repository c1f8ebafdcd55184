package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	got := SplitStatements("CREATE TABLE a (x INT);\n\nCREATE INDEX i ON a (x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a (x)"}, got)
	assert.Empty(t, SplitStatements("  \n"))
}

func TestOracleMigrationFilesAreOrdered(t *testing.T) {
	files, err := OracleMigrationFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_quizzes.up.sql", "000002_create_submissions.up.sql"}, files)
}

func TestSQLDriverName(t *testing.T) {
	name, err := SQLDriverName(DriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, "pgx", name)

	_, err = SQLDriverName("mysql")
	assert.Error(t, err)
}

func TestRunOracleMigrationsSkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE schema_migrations").
		WillReturnError(assertErr("ORA-00955: name is already used by an existing object"))
	mock.ExpectQuery("SELECT COUNT").WithArgs("000001_create_quizzes").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT").WithArgs("000002_create_submissions").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("CREATE TABLE submissions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX idx_submissions_quiz_id").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("000002_create_submissions", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, RunMigrations(context.Background(), db, DriverOracle))
	assert.NoError(t, mock.ExpectationsWereMet())
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
