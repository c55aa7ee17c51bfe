package bookingpackage

import (
	"context"
	"testing"
	"time"

	"fieldbook/internal/database"
	"fieldbook/internal/domain"
	"fieldbook/internal/notification"
	"fieldbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubGateway struct {
	qrFails bool
	qrCalls int
}

func (g *stubGateway) RefundQR(ctx context.Context, account *domain.BankAccount, amount decimal.Decimal, reference string) (string, error) {
	g.qrCalls++
	if g.qrFails {
		return "", notification.ErrUnavailable
	}
	return "https://cdn.example.com/qr/refund-" + reference + ".jpeg", nil
}

func (g *stubGateway) SettlementNotice(ctx context.Context, s notification.Settlement) error {
	return nil
}

type fixture struct {
	db      *gorm.DB
	svc     *Service
	gateway *stubGateway
	now     time.Time
	userID  int64
	fieldID int64
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Field{},
		&domain.BankAccount{},
		&domain.BookingPackage{},
		&domain.PackageSession{},
		&domain.MonthlyPackagePayment{},
	))

	gateway := &stubGateway{}
	svc := NewService(db, repository.NewBankAccountRepository(db), gateway)
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.loggerf = func(string, ...interface{}) {}

	user := &domain.User{FullName: "Player One", Email: "p1@example.com", Role: domain.RolePlayer}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&domain.BankAccount{
		UserID: user.ID, BankCode: "VCB", AccountNumber: "00123", AccountName: "PLAYER ONE", IsDefault: true,
	}).Error)

	price, _ := decimal.NewFromString("120000")
	field := &domain.Field{OwnerID: user.ID, Name: "Pitch A", PricePerSlot: price, DepositPercent: 30}
	require.NoError(t, db.Create(field).Error)

	return &fixture{db: db, svc: svc, gateway: gateway, now: now, userID: user.ID, fieldID: field.ID}
}

// seedPaidPackage inserts a confirmed/paid package with n weekly sessions,
// the first one starting at the given offset from the fixture clock.
func (f *fixture) seedPaidPackage(t *testing.T, n int, firstStartsIn time.Duration) *domain.BookingPackage {
	t.Helper()

	sessions := make([]domain.PackageSession, 0, n)
	for i := 0; i < n; i++ {
		start := f.now.Add(firstStartsIn + time.Duration(i)*7*24*time.Hour)
		sessions = append(sessions, domain.PackageSession{
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Status:    domain.SessionScheduled,
		})
	}

	price, _ := decimal.NewFromString("120000")
	confirmedAt := f.now.Add(-time.Hour)
	pkg := &domain.BookingPackage{
		UserID:          f.userID,
		FieldID:         f.fieldID,
		OrderCode:       "PKG-" + uuid.NewString()[:8],
		PricePerSession: price,
		TotalPrice:      price.Mul(decimal.NewFromInt(int64(n))),
		Status:          domain.BookingConfirmed,
		PaymentStatus:   domain.PaymentPaid,
		ConfirmedAt:     &confirmedAt,
		Sessions:        sessions,
	}
	require.NoError(t, f.db.Create(pkg).Error)
	return pkg
}

func TestCreatePackage(t *testing.T) {
	f := setup(t)

	start := f.now.Add(48 * time.Hour)
	resp, err := f.svc.CreatePackage(context.Background(), CreatePackageRequest{
		FieldID: f.fieldID,
		UserID:  f.userID,
		Sessions: []SessionSlot{
			{StartTime: start, EndTime: start.Add(time.Hour)},
			{StartTime: start.Add(7 * 24 * time.Hour), EndTime: start.Add(7*24*time.Hour + time.Hour)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.BookingPending), resp.Status)
	assert.Equal(t, string(domain.PaymentUnpaid), resp.PaymentStatus)
	assert.Len(t, resp.Sessions, 2)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(240000)))
	assert.NotEmpty(t, resp.OrderCode)
}

func TestCreatePackage_RejectsPastSessions(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CreatePackage(context.Background(), CreatePackageRequest{
		FieldID: f.fieldID,
		UserID:  f.userID,
		Sessions: []SessionSlot{
			{StartTime: f.now.Add(-time.Hour), EndTime: f.now},
		},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCancelSession_SiblingsUntouched(t *testing.T) {
	f := setup(t)
	// First session in 1h → 100% tier for the cancelled one.
	pkg := f.seedPaidPackage(t, 10, time.Hour)
	target := pkg.Sessions[0]

	result, err := f.svc.CancelSession(context.Background(), target.ID, f.userID)
	require.NoError(t, err)

	assert.Equal(t, int64(100), result.RefundPercent)
	assert.True(t, result.RefundAmount.Equal(decimal.NewFromInt(120000)))
	assert.True(t, result.QRDelivered)
	assert.NotEmpty(t, result.RefundQR)

	var cancelled, scheduled int64
	require.NoError(t, f.db.Model(&domain.PackageSession{}).
		Where("package_id = ? AND status = ?", pkg.ID, domain.SessionCancelled).Count(&cancelled).Error)
	require.NoError(t, f.db.Model(&domain.PackageSession{}).
		Where("package_id = ? AND status = ?", pkg.ID, domain.SessionScheduled).Count(&scheduled).Error)
	assert.Equal(t, int64(1), cancelled)
	assert.Equal(t, int64(9), scheduled, "the other nine sessions keep their status")

	var got domain.BookingPackage
	require.NoError(t, f.db.First(&got, pkg.ID).Error)
	assert.Equal(t, domain.BookingConfirmed, got.Status, "parent package status unchanged")
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)

	var refundRec domain.MonthlyPackagePayment
	require.NoError(t, f.db.Where("session_id = ?", target.ID).First(&refundRec).Error)
	assert.Equal(t, domain.MonthlyPaymentRefunded, refundRec.Status)
	assert.True(t, refundRec.Amount.Equal(decimal.NewFromInt(120000)))
	assert.NotEmpty(t, refundRec.RefundQR)
}

func TestCancelSession_TierRunsAgainstSessionTime(t *testing.T) {
	f := setup(t)
	// First session in 4.5h → 10% of 120000 = 12000 despite later siblings.
	pkg := f.seedPaidPackage(t, 3, 270*time.Minute)

	result, err := f.svc.CancelSession(context.Background(), pkg.Sessions[0].ID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), result.RefundPercent)
	assert.True(t, result.RefundAmount.Equal(decimal.NewFromInt(12000)), "refund: %s", result.RefundAmount)
}

func TestCancelSession_ZeroRefundSkipsQR(t *testing.T) {
	f := setup(t)
	// First session a week out → >5h notice, 0% refund.
	pkg := f.seedPaidPackage(t, 2, 7*24*time.Hour)

	result, err := f.svc.CancelSession(context.Background(), pkg.Sessions[0].ID, f.userID)
	require.NoError(t, err)
	assert.True(t, result.RefundAmount.IsZero())
	assert.Empty(t, result.RefundQR)
	assert.Equal(t, 0, f.gateway.qrCalls)
}

func TestCancelSession_RequiresPaidPackage(t *testing.T) {
	f := setup(t)
	pkg := f.seedPaidPackage(t, 2, time.Hour)
	require.NoError(t, f.db.Model(&domain.BookingPackage{}).Where("id = ?", pkg.ID).
		Updates(map[string]any{"status": domain.BookingPending, "payment_status": domain.PaymentUnpaid}).Error)

	_, err := f.svc.CancelSession(context.Background(), pkg.Sessions[0].ID, f.userID)
	assert.ErrorIs(t, err, ErrIneligibleState)
}

func TestCancelSession_AlreadyCancelled(t *testing.T) {
	f := setup(t)
	pkg := f.seedPaidPackage(t, 2, time.Hour)

	_, err := f.svc.CancelSession(context.Background(), pkg.Sessions[0].ID, f.userID)
	require.NoError(t, err)

	_, err = f.svc.CancelSession(context.Background(), pkg.Sessions[0].ID, f.userID)
	assert.ErrorIs(t, err, ErrIneligibleState)

	var count int64
	require.NoError(t, f.db.Model(&domain.MonthlyPackagePayment{}).
		Where("session_id = ?", pkg.Sessions[0].ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "refund is recorded exactly once")
}

func TestCancelSession_ForbiddenForOtherUser(t *testing.T) {
	f := setup(t)
	pkg := f.seedPaidPackage(t, 2, time.Hour)

	_, err := f.svc.CancelSession(context.Background(), pkg.Sessions[0].ID, f.userID+1)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelSession_GatewayFailureDoesNotRollBack(t *testing.T) {
	f := setup(t)
	f.gateway.qrFails = true
	pkg := f.seedPaidPackage(t, 2, time.Hour)

	result, err := f.svc.CancelSession(context.Background(), pkg.Sessions[0].ID, f.userID)
	require.NoError(t, err)
	assert.False(t, result.QRDelivered)
	assert.Empty(t, result.RefundQR)

	var session domain.PackageSession
	require.NoError(t, f.db.First(&session, pkg.Sessions[0].ID).Error)
	assert.Equal(t, domain.SessionCancelled, session.Status)
}

func TestCompletePackage(t *testing.T) {
	f := setup(t)
	pkg := f.seedPaidPackage(t, 4, time.Hour)

	// One session already cancelled: it must keep its status.
	_, err := f.svc.CancelSession(context.Background(), pkg.Sessions[0].ID, f.userID)
	require.NoError(t, err)

	require.NoError(t, f.svc.CompletePackage(context.Background(), pkg.ID))

	var got domain.BookingPackage
	require.NoError(t, f.db.Preload("Sessions").First(&got, pkg.ID).Error)
	assert.Equal(t, domain.BookingCompleted, got.Status)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)

	byStatus := map[domain.SessionStatus]int{}
	for _, s := range got.Sessions {
		byStatus[s.Status]++
	}
	assert.Equal(t, 3, byStatus[domain.SessionCompleted])
	assert.Equal(t, 1, byStatus[domain.SessionCancelled])
}

func TestCompletePackage_NotFound(t *testing.T) {
	f := setup(t)
	err := f.svc.CompletePackage(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompletePackage_Twice(t *testing.T) {
	f := setup(t)
	pkg := f.seedPaidPackage(t, 1, time.Hour)

	require.NoError(t, f.svc.CompletePackage(context.Background(), pkg.ID))
	err := f.svc.CompletePackage(context.Background(), pkg.ID)
	assert.ErrorIs(t, err, ErrIneligibleState)
}
