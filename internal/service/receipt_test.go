package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFormatReceiptNumber(t *testing.T) {
	ts := time.Date(2026, 8, 30, 15, 10, 4, 0, time.UTC)
	got := formatReceiptNumber(ts, 123)
	want := "REC-20260830-151004-123"
	if got != want {
		t.Fatalf("formatReceiptNumber = %q, want %q", got, want)
	}
}

func TestRandomSuffixRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		n, err := randomSuffix()
		if err != nil {
			t.Fatalf("randomSuffix error: %v", err)
		}
		if n < 100 || n > 999 {
			t.Fatalf("suffix %d out of [100, 999]", n)
		}
	}
}

// countingChecker reports the first `collisions` receipt candidates as
// taken, then free.
type countingChecker struct {
	collisions int
	calls      int
}

func (c *countingChecker) ReceiptExistsTx(ctx context.Context, tx *sql.Tx, receipt string) (bool, error) {
	c.calls++
	return c.calls <= c.collisions, nil
}

func testTx(t *testing.T) *sql.Tx {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	mock.ExpectBegin()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return tx
}

func TestGenerateReceiptNumberRetriesOnCollision(t *testing.T) {
	tx := testTx(t)
	checker := &countingChecker{collisions: 3}
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	receipt, err := generateReceiptNumberTx(context.Background(), tx, checker, now)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if checker.calls != 4 {
		t.Fatalf("expected 4 attempts, got %d", checker.calls)
	}
	pattern := regexp.MustCompile(`^REC-20260830-090000-\d{3}$`)
	if !pattern.MatchString(receipt) {
		t.Fatalf("receipt %q does not match expected format", receipt)
	}
}

func TestGenerateReceiptNumberExhaustsAttempts(t *testing.T) {
	tx := testTx(t)
	checker := &countingChecker{collisions: maxReceiptAttempts + 1}

	_, err := generateReceiptNumberTx(context.Background(), tx, checker, time.Now().UTC())
	if !errors.Is(err, ErrReceiptExhausted) {
		t.Fatalf("expected ErrReceiptExhausted, got %v", err)
	}
	if checker.calls != maxReceiptAttempts {
		t.Fatalf("expected exactly %d attempts, got %d", maxReceiptAttempts, checker.calls)
	}
}
