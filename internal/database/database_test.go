package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogfront/internal/config"
)

func TestDataSource(t *testing.T) {
	cfg := config.DB{
		Driver:     "postgres",
		DbHOST:     "db",
		DbPORT:     "5432",
		DbUSER:     "u",
		DbPASSWORD: "p",
		DbNAME:     "blog",
		DbSSLMODE:  "disable",
		DbPATH:     "views.db",
	}

	driver, dsn, err := DataSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, "postgres", driver)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=blog sslmode=disable", dsn)

	cfg.Driver = "sqlite3"
	driver, dsn, err = DataSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", driver)
	assert.Contains(t, dsn, "file:views.db")

	cfg.Driver = ""
	driver, _, err = DataSource(cfg)
	require.NoError(t, err)
	assert.Empty(t, driver)

	cfg.Driver = "oracle"
	_, _, err = DataSource(cfg)
	assert.Error(t, err)
}

func TestConnectDB_Disabled(t *testing.T) {
	db, err := ConnectDB(&config.Config{DB: config.DB{Driver: ""}})

	require.NoError(t, err)
	assert.Nil(t, db)
	assert.Nil(t, db.SQLX())
	assert.NoError(t, db.CloseDB())
	assert.Error(t, db.HealthCheck())
}

func TestRunMigrations(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := &DB{sqlx.NewDb(sqlDB, "sqlmock")}
	defer db.CloseDB()

	path := filepath.Join(t.TempDir(), "001.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE blog_views (id INT);"), 0o600))

	mock.ExpectExec("CREATE TABLE blog_views").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, db.RunMigrations(path))
	assert.Error(t, db.RunMigrations(filepath.Join(t.TempDir(), "missing.sql")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
