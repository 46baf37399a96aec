// Package pgtest starts a disposable PostgreSQL container for integration suites.
package pgtest

import (
	"context"
	"strings"
	"time"

	"fulfillment/internal/adapters/out/postgres"

	"github.com/stretchr/testify/mock"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a migrated schema inside a running container.
type Database struct {
	Container *tcpostgres.PostgresContainer
	DB        *gorm.DB

	connStr string
}

// Start runs postgres:15-alpine, connects with TranslateError enabled and migrates
// every table.
func Start(ctx context.Context) (*Database, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := open(connStr, true)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	if err := postgres.Migrate(db); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{Container: container, DB: db, connStr: connStr}, nil
}

func open(connStr string, translate bool) (*gorm.DB, error) {
	return gorm.Open(postgresdriver.Open(connStr), &gorm.Config{
		TranslateError: translate,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
}

// Open returns a new connection pool to the same schema. Callbacks registered on it
// do not leak into DB.
func (d *Database) Open() (*gorm.DB, error) {
	return open(d.connStr, true)
}

// OpenUntranslated is Open without TranslateError, so raw *pgconn.PgError values reach
// the caller.
func (d *Database) OpenUntranslated() (*gorm.DB, error) {
	return open(d.connStr, false)
}

// Truncate empties every table and resets the id sequences.
func (d *Database) Truncate() error {
	return d.DB.Exec("TRUNCATE TABLE " + strings.Join(postgres.TableNames(), ", ") + " RESTART IDENTITY CASCADE").Error
}

func (d *Database) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

// Count returns the number of rows in table.
func (d *Database) Count(table string) (int64, error) {
	var count int64
	err := d.DB.Table(table).Count(&count).Error
	return count, err
}

// MockAggregateTracker records the aggregates a repository reports as written.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(aggregate any) {
	m.Called(aggregate)
}
