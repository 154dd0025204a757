package testutils

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"feveo/taskmanager/config"
	"feveo/taskmanager/database"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupMockDB sets up a mock database connection
func SetupMockDB() (*database.Database, sqlmock.Sqlmock, func()) {
	var db *sql.DB
	var mock sqlmock.Sqlmock
	var err error

	db, mock, err = sqlmock.New()
	if err != nil {
		panic(err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		panic(err)
	}

	mockDB := &database.Database{
		DB: gormDB,
	}

	close := func() {
		db.Close()
	}

	return mockDB, mock, close
}

// SetupTestDB opens a private in-memory SQLite database with the schema
// migrated. It is closed when the test ends.
func SetupTestDB(t testing.TB) *database.Database {
	t.Helper()

	db, err := database.Setup(config.Config{
		DBDriver:       "sqlite",
		DBPath:         fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		DBMaxIdleConns: 1,
		DBMaxOpenConns: 1,
	})
	require.NoError(t, err)

	t.Cleanup(db.Close)
	return db
}

// SetupFileTestDB opens a file-backed SQLite database in a temp dir with the
// default connection pool, for tests that exercise concurrent connections.
func SetupFileTestDB(t testing.TB) *database.Database {
	t.Helper()

	db, err := database.Setup(config.Config{
		DBDriver:       "sqlite",
		DBPath:         filepath.Join(t.TempDir(), "tasks.db"),
		DBMaxIdleConns: 10,
		DBMaxOpenConns: 100,
	})
	require.NoError(t, err)

	t.Cleanup(db.Close)
	return db
}
