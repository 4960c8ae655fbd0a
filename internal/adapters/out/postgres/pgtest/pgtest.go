// Package pgtest starts a disposable postgres for the integration suites and
// applies the embedded migrations to it.
package pgtest

import (
	"context"
	"time"

	"laundry/internal/adapters/out/postgres/migrations"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a migrated postgres container with an open GORM connection.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

// Start runs postgres:15-alpine, migrates it and connects GORM with the same
// settings the service uses.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}
	d := &Database{Container: container}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, d.fail(err)
	}

	sqlDB, err := migrations.Open(dsn)
	if err != nil {
		return nil, d.fail(err)
	}
	err = migrations.Up(sqlDB)
	_ = sqlDB.Close()
	if err != nil {
		return nil, d.fail(err)
	}

	d.DB, err = gorm.Open(postgresdriver.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, d.fail(err)
	}
	return d, nil
}

// Truncate empties every table between tests.
func (d *Database) Truncate() error {
	return d.DB.Exec("TRUNCATE TABLE invoice_payments, invoice_orders, invoices, " +
		"route_orders, routes, order_photos, order_status_history, order_items, orders CASCADE").Error
}

// Terminate stops the container.
func (d *Database) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

func (d *Database) fail(err error) error {
	_ = d.Container.Terminate(context.Background())
	return err
}
