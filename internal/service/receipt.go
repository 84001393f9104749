package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"fmt"
	"time"
)

// maxReceiptAttempts bounds the collision retry loop. The unique index on
// sales.receipt_number is the real uniqueness guarantee; the loop only
// exists to keep the human-readable timestamp format when many sales land
// in the same second.
const maxReceiptAttempts = 100

// formatReceiptNumber renders REC-YYYYMMDD-HHMMSS-NNN for a timestamp and
// a suffix in [100, 999].
func formatReceiptNumber(now time.Time, suffix int) string {
	return fmt.Sprintf("REC-%s-%03d", now.Format("20060102-150405"), suffix)
}

// randomSuffix draws a uniform value in [100, 999] from crypto/rand.
func randomSuffix() (int, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return 100 + int(binary.BigEndian.Uint64(buf[:])%900), nil
}

// generateReceiptNumberTx mints a receipt number unique among existing
// sales, retrying with fresh random suffixes on collision. Runs inside the
// sale transaction so the existence check and the later insert see the
// same snapshot.
func generateReceiptNumberTx(ctx context.Context, tx *sql.Tx, repo receiptChecker, now time.Time) (string, error) {
	for attempt := 0; attempt < maxReceiptAttempts; attempt++ {
		suffix, err := randomSuffix()
		if err != nil {
			return "", fmt.Errorf("draw receipt suffix: %w", err)
		}
		receipt := formatReceiptNumber(now, suffix)
		taken, err := repo.ReceiptExistsTx(ctx, tx, receipt)
		if err != nil {
			return "", fmt.Errorf("check receipt %s: %w", receipt, err)
		}
		if !taken {
			return receipt, nil
		}
	}
	return "", ErrReceiptExhausted
}

// receiptChecker is the slice of SaleRepo the generator needs.
type receiptChecker interface {
	ReceiptExistsTx(ctx context.Context, tx *sql.Tx, receipt string) (bool, error)
}
