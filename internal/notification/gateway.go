// Package notification is the engine's side of the Notification/QR
// collaborator: it receives settlement outcomes and hands back a refund QR
// reference addressed to the player's payout account. Settlements are
// committed before any call lands here, so a failure is reported to the
// caller but never rolls a cancellation back.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"fieldbook/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yeqown/go-qrcode"
)

// ErrUnavailable wraps any downstream failure while producing or
// delivering a refund QR.
var ErrUnavailable = errors.New("notification gateway unavailable")

// Settlement is the outcome pushed to the gateway once a cancellation (or
// a package-session cancellation) is final.
type Settlement struct {
	BookingID int64
	UserID    int64
	Refund    decimal.Decimal
	Penalty   decimal.Decimal
	Reference string
}

type Gateway interface {
	// RefundQR renders a payout QR for the given amount addressed to the
	// account and returns a URL the client can fetch it from.
	RefundQR(ctx context.Context, account *domain.BankAccount, amount decimal.Decimal, reference string) (string, error)
	// SettlementNotice informs the player about the final refund/penalty
	// split. Best effort.
	SettlementNotice(ctx context.Context, s Settlement) error
}

// QRGateway is the default implementation: QR images are rendered locally
// and served from a static directory.
type QRGateway struct {
	outDir  string
	baseURL string
}

func NewQRGateway(outDir, baseURL string) *QRGateway {
	return &QRGateway{outDir: outDir, baseURL: baseURL}
}

func (g *QRGateway) RefundQR(ctx context.Context, account *domain.BankAccount, amount decimal.Decimal, reference string) (string, error) {
	if account == nil {
		return "", fmt.Errorf("%w: no payout account on file", ErrUnavailable)
	}

	payload := fmt.Sprintf("BANK|%s|%s|%s|%s|%s",
		account.BankCode, account.AccountNumber, account.AccountName,
		amount.StringFixed(2), reference)

	qrc, err := qrcode.New(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	name := fmt.Sprintf("refund-%s-%s.jpeg", reference, uuid.NewString()[:8])
	path := filepath.Join(g.outDir, name)
	if err := qrc.Save(path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return g.baseURL + "/" + name, nil
}

func (g *QRGateway) SettlementNotice(ctx context.Context, s Settlement) error {
	log.Printf("level=info msg=settlement notice booking_id=%d user_id=%d refund=%s penalty=%s ref=%s at=%s",
		s.BookingID, s.UserID, s.Refund.StringFixed(2), s.Penalty.StringFixed(2), s.Reference,
		time.Now().UTC().Format(time.RFC3339))
	return nil
}
