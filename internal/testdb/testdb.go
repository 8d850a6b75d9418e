// Package testdb opens throwaway in-memory databases for service tests. The
// schema mirrors the goose migrations in sqlite dialect.
package testdb

import (
	"io"
	"log"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE customers (
		id TEXT PRIMARY KEY,
		admin_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		gst_number TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE customer_addresses (
		id TEXT PRIMARY KEY,
		admin_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		line1 TEXT NOT NULL,
		city TEXT,
		state TEXT,
		post_code TEXT,
		route_id TEXT,
		delivery_policy TEXT NOT NULL DEFAULT 'free',
		fixed_delivery_price NUMERIC NOT NULL DEFAULT 0,
		delivery_rule_set_id TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE delivery_days (
		id TEXT PRIMARY KEY,
		address_id TEXT NOT NULL,
		weekday INTEGER NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 0,
		route_id TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (address_id, weekday)
	)`,
	`CREATE TABLE item_groups (
		id TEXT PRIMARY KEY,
		admin_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE items (
		id TEXT PRIMARY KEY,
		admin_id TEXT NOT NULL,
		item_group_id TEXT NOT NULL,
		name TEXT NOT NULL,
		wholesale_price NUMERIC NOT NULL,
		retail_price NUMERIC NOT NULL,
		gst_percent NUMERIC NOT NULL DEFAULT 0,
		weight_kg NUMERIC NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE delivery_rule_sets (
		id TEXT PRIMARY KEY,
		admin_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE delivery_rule_tiers (
		id TEXT PRIMARY KEY,
		rule_set_id TEXT NOT NULL,
		threshold NUMERIC NOT NULL,
		charge NUMERIC NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE standing_orders (
		id TEXT PRIMARY KEY,
		admin_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		address_id TEXT NOT NULL,
		days TEXT,
		total_pieces INTEGER NOT NULL DEFAULT 0,
		item_cost NUMERIC NOT NULL DEFAULT 0,
		delivery_charge NUMERIC NOT NULL DEFAULT 0,
		total_cost NUMERIC NOT NULL DEFAULT 0,
		total_retail_cost NUMERIC NOT NULL DEFAULT 0,
		delivery_policy TEXT NOT NULL DEFAULT 'free',
		rule_snapshot TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (customer_id, address_id)
	)`,
	`CREATE TABLE standing_order_lines (
		id TEXT PRIMARY KEY,
		standing_order_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		item_group_id TEXT NOT NULL,
		qty_mon INTEGER NOT NULL DEFAULT 0,
		qty_tue INTEGER NOT NULL DEFAULT 0,
		qty_wed INTEGER NOT NULL DEFAULT 0,
		qty_thu INTEGER NOT NULL DEFAULT 0,
		qty_fri INTEGER NOT NULL DEFAULT 0,
		qty_sat INTEGER NOT NULL DEFAULT 0,
		qty_sun INTEGER NOT NULL DEFAULT 0,
		wholesale_price NUMERIC NOT NULL,
		retail_price NUMERIC NOT NULL,
		gst_percent NUMERIC NOT NULL DEFAULT 0,
		total_quantity INTEGER NOT NULL DEFAULT 0,
		item_cost NUMERIC NOT NULL DEFAULT 0,
		retail_cost NUMERIC NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (standing_order_id, item_id, item_group_id)
	)`,
	`CREATE TABLE cart_orders (
		id TEXT PRIMARY KEY,
		admin_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		address_id TEXT NOT NULL,
		delivery_date DATE NOT NULL,
		item_cost NUMERIC NOT NULL DEFAULT 0,
		gst_amount NUMERIC NOT NULL DEFAULT 0,
		delivery_charge NUMERIC NOT NULL DEFAULT 0,
		discount NUMERIC NOT NULL DEFAULT 0,
		total_cost NUMERIC NOT NULL DEFAULT 0,
		total_weight_kg NUMERIC NOT NULL DEFAULT 0,
		total_pieces INTEGER NOT NULL DEFAULT 0,
		delivery_policy TEXT NOT NULL DEFAULT 'free',
		rule_snapshot TEXT,
		invoice_number INTEGER,
		published_status INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (customer_id, address_id, delivery_date)
	)`,
	`CREATE TABLE cart_order_lines (
		id TEXT PRIMARY KEY,
		cart_order_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		item_group_id TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		wholesale_price NUMERIC NOT NULL,
		retail_price NUMERIC NOT NULL,
		gst_percent NUMERIC NOT NULL DEFAULT 0,
		line_cost NUMERIC NOT NULL DEFAULT 0,
		late_type TEXT NOT NULL DEFAULT '',
		late_quantity INTEGER,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (cart_order_id, item_id, item_group_id)
	)`,
	`CREATE TABLE invoice_sequences (
		admin_id TEXT PRIMARY KEY,
		next_number INTEGER NOT NULL DEFAULT 1,
		updated_at DATETIME
	)`,
}

// Open returns an isolated in-memory database with the full schema applied.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// a second pooled connection would see an empty :memory: database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return conn
}
