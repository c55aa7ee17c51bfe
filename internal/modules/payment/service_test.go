package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

// fakeOrderStore is a mutex-guarded in-memory stand-in for the booking
// store. The compare-and-set inside ConfirmPayment mirrors the conditional
// UPDATE the real repository issues.
type fakeOrderStore struct {
	mu           sync.Mutex
	orderCode    string
	bookingID    int64
	paid         bool
	confirmCalls int
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != f.bookingID {
		return nil, gorm.ErrRecordNotFound
	}
	return &domain.Booking{ID: id, OrderCode: f.orderCode}, nil
}

func (f *fakeOrderStore) ConfirmPayment(ctx context.Context, orderCode string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmCalls++
	if orderCode != f.orderCode {
		return false, gorm.ErrRecordNotFound
	}
	if f.paid {
		return false, nil
	}
	f.paid = true
	return true, nil
}

type fakePackageStore struct{}

func (f *fakePackageStore) ConfirmPayment(ctx context.Context, orderCode string, at time.Time) (bool, error) {
	return false, gorm.ErrRecordNotFound
}

func newTestService(store *fakeOrderStore) *Service {
	return NewService(store, &fakePackageStore{}, "test-secret", nil)
}

func TestConfirm_Success(t *testing.T) {
	store := &fakeOrderStore{orderCode: "ORD-1", bookingID: 1}
	svc := newTestService(store)

	sig := svc.checksum("ORD-1", "PAID")
	if err := svc.Confirm(context.Background(), "ORD-1", "PAID", sig); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !store.paid {
		t.Fatal("expected booking marked paid")
	}
}

func TestConfirm_InvalidSignature(t *testing.T) {
	store := &fakeOrderStore{orderCode: "ORD-1", bookingID: 1}
	svc := newTestService(store)

	err := svc.Confirm(context.Background(), "ORD-1", "PAID", "BOGUS")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if store.confirmCalls != 0 {
		t.Fatal("state must be untouched on signature failure")
	}
}

func TestConfirm_SignatureBoundToPayload(t *testing.T) {
	store := &fakeOrderStore{orderCode: "ORD-1", bookingID: 1}
	svc := newTestService(store)

	// A signature computed over another order must not validate.
	sig := svc.checksum("ORD-2", "PAID")
	err := svc.Confirm(context.Background(), "ORD-1", "PAID", sig)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestConfirm_Idempotent(t *testing.T) {
	store := &fakeOrderStore{orderCode: "ORD-1", bookingID: 1}
	svc := newTestService(store)
	sig := svc.checksum("ORD-1", "PAID")

	if err := svc.Confirm(context.Background(), "ORD-1", "PAID", sig); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	err := svc.Confirm(context.Background(), "ORD-1", "PAID", sig)
	if !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("expected ErrAlreadyConfirmed on retry, got %v", err)
	}
}

func TestConfirm_ConcurrentDeliveries(t *testing.T) {
	store := &fakeOrderStore{orderCode: "ORD-1", bookingID: 1}
	svc := newTestService(store)
	sig := svc.checksum("ORD-1", "PAID")

	const n = 8
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Confirm(context.Background(), "ORD-1", "PAID", sig)
		}()
	}
	wg.Wait()
	close(results)

	var successes, alreadyConfirmed int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyConfirmed):
			alreadyConfirmed++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful confirmation, got %d", successes)
	}
	if alreadyConfirmed != n-1 {
		t.Fatalf("expected %d AlreadyConfirmed, got %d", n-1, alreadyConfirmed)
	}
}

func TestConfirm_UnknownOrder(t *testing.T) {
	store := &fakeOrderStore{orderCode: "ORD-1", bookingID: 1}
	svc := newTestService(store)

	sig := svc.checksum("ORD-MISSING", "PAID")
	err := svc.Confirm(context.Background(), "ORD-MISSING", "PAID", sig)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConfirm_NonSuccessStatusAcknowledged(t *testing.T) {
	store := &fakeOrderStore{orderCode: "ORD-1", bookingID: 1}
	svc := newTestService(store)

	sig := svc.checksum("ORD-1", "CANCELLED")
	if err := svc.Confirm(context.Background(), "ORD-1", "CANCELLED", sig); err != nil {
		t.Fatalf("non-success status must be acknowledged, got %v", err)
	}
	if store.paid {
		t.Fatal("booking must stay unpaid on a cancelled payment")
	}
}

func TestConfirmCallback_ByBookingID(t *testing.T) {
	store := &fakeOrderStore{orderCode: "ORD-1", bookingID: 9}
	svc := newTestService(store)

	if err := svc.ConfirmCallback(context.Background(), 9, "PAID"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	err := svc.ConfirmCallback(context.Background(), 9, "PAID")
	if !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("expected ErrAlreadyConfirmed, got %v", err)
	}

	err = svc.ConfirmCallback(context.Background(), 404, "PAID")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
