package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("sql.ErrNoRows should be not-found")
	}
	if isNotFound(errors.New("connection refused")) {
		t.Fatal("arbitrary errors are not not-found")
	}
	if isNotFound(nil) {
		t.Fatal("nil is not not-found")
	}
}
