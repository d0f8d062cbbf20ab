package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestNullLimit(t *testing.T) {
	// Zero means "no pagination requested": the query must not truncate,
	// so the limit renders as NULL (LIMIT ALL).
	if got := nullLimit(0); got != nil {
		t.Fatalf("nullLimit(0) = %v, want nil", got)
	}
	if got := nullLimit(-5); got != nil {
		t.Fatalf("nullLimit(-5) = %v, want nil", got)
	}
	if got := nullLimit(250); got != 250 {
		t.Fatalf("nullLimit(250) = %v, want 250", got)
	}
}

func TestUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	if !uniqueViolation(unique) {
		t.Fatal("bare 23505 must be detected")
	}
	if !uniqueViolation(fmt.Errorf("insert user: %w", unique)) {
		t.Fatal("wrapped 23505 must be detected")
	}
	if uniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign-key violation is not a unique violation")
	}
	if uniqueViolation(errors.New("broken pipe")) {
		t.Fatal("plain errors are not unique violations")
	}
}
