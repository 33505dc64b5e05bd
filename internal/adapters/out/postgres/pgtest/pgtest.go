// Package pgtest starts a throwaway Postgres for integration tests, migrates it
// and seeds the directory records that orders refer to.
package pgtest

import (
	"context"
	"fmt"
	"time"

	"iskxpress/internal/adapters/out/postgres/migrations"
	"iskxpress/internal/core/domain/model/kernel"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a migrated Postgres running in a container.
type Database struct {
	DB        *gorm.DB
	container *postgres.PostgresContainer
}

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
		return nil, fmt.Errorf("start postgres container: %w", err)
	}
	d := &Database{container: container}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = d.Stop(ctx)
		return nil, err
	}

	d.DB, err = gorm.Open(postgresdriver.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = d.Stop(ctx)
		return nil, err
	}

	sqlDB, err := d.DB.DB()
	if err != nil {
		_ = d.Stop(ctx)
		return nil, err
	}
	if err = migrations.UpWithDB(sqlDB); err != nil {
		_ = d.Stop(ctx)
		return nil, err
	}
	return d, nil
}

func (d *Database) Stop(ctx context.Context) error {
	if d.container == nil {
		return nil
	}
	return d.container.Terminate(ctx)
}

// Reset empties every table.
func (d *Database) Reset() error {
	return d.DB.Exec(`TRUNCATE TABLE outbox_events, order_confirmations, delivery_requests,
		order_items, orders, cart_lines, delivery_partners, products, stalls, users CASCADE`).Error
}

// Stall is a seeded vendor, stall and product.
type Stall struct {
	VendorID  kernel.UUID
	StallID   kernel.UUID
	ProductID kernel.UUID
}

// SeedStall inserts a vendor running one stall that sells one product at price.
func (d *Database) SeedStall(price string) (Stall, error) {
	s := Stall{VendorID: kernel.NewUUID(), StallID: kernel.NewUUID(), ProductID: kernel.NewUUID()}

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO users (id, role) VALUES (?, 'Vendor')`, s.VendorID.Bytes()).Error; err != nil {
			return err
		}
		if err := tx.Exec(`INSERT INTO stalls (id, vendor_id, name) VALUES (?, ?, 'Kape Kuwentuhan')`,
			s.StallID.Bytes(), s.VendorID.Bytes()).Error; err != nil {
			return err
		}
		return tx.Exec(`INSERT INTO products (id, stall_id, name, base_price) VALUES (?, ?, 'Iced latte', ?)`,
			s.ProductID.Bytes(), s.StallID.Bytes(), price).Error
	})
	return s, err
}

// SeedProduct adds another product to an existing stall.
func (d *Database) SeedProduct(stallID kernel.UUID, price string, available bool) (kernel.UUID, error) {
	id := kernel.NewUUID()
	err := d.DB.Exec(`INSERT INTO products (id, stall_id, name, base_price, is_available) VALUES (?, ?, 'Ensaymada', ?, ?)`,
		id.Bytes(), stallID.Bytes(), price, available).Error
	return id, err
}

// SeedUser inserts a buyer.
func (d *Database) SeedUser(premium bool) (kernel.UUID, error) {
	id := kernel.NewUUID()
	err := d.DB.Exec(`INSERT INTO users (id, role, is_premium) VALUES (?, 'User', ?)`, id.Bytes(), premium).Error
	return id, err
}

// SeedPartner inserts a delivery partner account.
func (d *Database) SeedPartner(active bool) (kernel.UUID, error) {
	id := kernel.NewUUID()
	err := d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO users (id, role) VALUES (?, 'DeliveryPartner')`, id.Bytes()).Error; err != nil {
			return err
		}
		return tx.Exec(`INSERT INTO delivery_partners (id, name, is_active) VALUES (?, 'Juan Rider', ?)`,
			id.Bytes(), active).Error
	})
	return id, err
}

// PendingFees reads a stall's commission balance.
func (d *Database) PendingFees(stallID kernel.UUID) (string, error) {
	var fees string
	err := d.DB.Raw(`SELECT pending_fees::text FROM stalls WHERE id = ?`, stallID.Bytes()).Scan(&fees).Error
	return fees, err
}
