package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolationPG(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "cart_orders_customer_address_date_key"}

	if !IsUniqueViolation(err, "") {
		t.Fatal("expected unique violation")
	}
	if !IsUniqueViolation(err, "cart_orders_customer_address_date_key") {
		t.Fatal("expected constraint match")
	}
	if IsUniqueViolation(err, "other_constraint") {
		t.Fatal("unexpected match for different constraint")
	}
}

func TestIsUniqueViolationOtherPGCode(t *testing.T) {
	err := &pgconn.PgError{Code: "23503"}
	if IsUniqueViolation(err, "") {
		t.Fatal("foreign key violation should not match")
	}
}

func TestIsUniqueViolationSQLite(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: standing_orders.customer_id, standing_orders.address_id")
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected sqlite unique violation")
	}
}

func TestIsUniqueViolationNil(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not match")
	}
}
