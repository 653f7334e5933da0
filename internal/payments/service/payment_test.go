package service

import (
	"context"
	"errors"
	"testing"

	paymentserrors "tourbook/internal/payments/errors"
	"tourbook/pkg/config"
	mongodb "tourbook/pkg/db/mongo"
	apperrors "tourbook/pkg/errors"
	"tourbook/pkg/logger"
	"tourbook/pkg/model"
	"tourbook/pkg/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type mockPaymentRepo struct {
	updateStatusFn func(ctx context.Context, transactionID, status string) (*model.Payment, error)
	findByIDFn     func(ctx context.Context, id string) (*model.Payment, error)
}

func (m *mockPaymentRepo) Create(context.Context, *model.Payment) error {
	return errors.New("not implemented")
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockPaymentRepo) FindByTransactionID(context.Context, string) (*model.Payment, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPaymentRepo) UpdateStatusByTransactionID(ctx context.Context, transactionID, status string) (*model.Payment, error) {
	return m.updateStatusFn(ctx, transactionID, status)
}

func (m *mockPaymentRepo) EnsureIndexes(context.Context) error { return nil }

func (m *mockPaymentRepo) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return fn(nil)
}

type mockBookingRepo struct {
	updateStatusFn func(ctx context.Context, id, status string) error
	statusCalls    []string
}

func (m *mockBookingRepo) Create(context.Context, *model.Booking) error {
	return errors.New("not implemented")
}

func (m *mockBookingRepo) FindByID(context.Context, string) (*model.Booking, error) {
	return nil, errors.New("not implemented")
}

func (m *mockBookingRepo) FindDetailByID(context.Context, string) (*model.BookingDetail, error) {
	return nil, errors.New("not implemented")
}

func (m *mockBookingRepo) SetPayment(context.Context, string, string) error {
	return errors.New("not implemented")
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	m.statusCalls = append(m.statusCalls, status)
	return m.updateStatusFn(ctx, id, status)
}

func (m *mockBookingRepo) FindByUser(context.Context, string) ([]bson.M, error) {
	return nil, errors.New("not implemented")
}

func (m *mockBookingRepo) List(context.Context, map[string]string) ([]bson.M, query.Meta, error) {
	return nil, query.Meta{}, errors.New("not implemented")
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return fn(nil)
}

type mockPublisher struct {
	events []string
}

func (m *mockPublisher) Publish(_ context.Context, eventType, _ string, _ any) error {
	m.events = append(m.events, eventType)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: "text"}),
	}
}

func TestSuccessPaymentConfirmsBooking(t *testing.T) {
	payments := &mockPaymentRepo{
		updateStatusFn: func(_ context.Context, transactionID, status string) (*model.Payment, error) {
			assert.Equal(t, model.PaymentPaid, status)
			return &model.Payment{
				Booking:       "507f1f77bcf86cd799439099",
				TransactionID: transactionID,
				Amount:        300,
				Status:        status,
			}, nil
		},
	}
	bookings := &mockBookingRepo{
		updateStatusFn: func(context.Context, string, string) error { return nil },
	}
	pub := &mockPublisher{}

	svc := NewPaymentService(payments, bookings, pub, testConfig())
	payment, err := svc.SuccessPayment(context.Background(), "tran_1_abc")

	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, payment.Status)
	assert.Equal(t, []string{model.BookingConfirmed}, bookings.statusCalls)
	assert.Equal(t, []string{"payment.status-changed"}, pub.events)
}

func TestFailPaymentFailsBooking(t *testing.T) {
	payments := &mockPaymentRepo{
		updateStatusFn: func(_ context.Context, transactionID, status string) (*model.Payment, error) {
			return &model.Payment{Booking: "b1", TransactionID: transactionID, Status: status}, nil
		},
	}
	bookings := &mockBookingRepo{
		updateStatusFn: func(context.Context, string, string) error { return nil },
	}

	svc := NewPaymentService(payments, bookings, &mockPublisher{}, testConfig())
	payment, err := svc.FailPayment(context.Background(), "tran_1_abc")

	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, payment.Status)
	assert.Equal(t, []string{model.BookingFailed}, bookings.statusCalls)
}

func TestCancelPaymentCancelsBooking(t *testing.T) {
	payments := &mockPaymentRepo{
		updateStatusFn: func(_ context.Context, transactionID, status string) (*model.Payment, error) {
			return &model.Payment{Booking: "b1", TransactionID: transactionID, Status: status}, nil
		},
	}
	bookings := &mockBookingRepo{
		updateStatusFn: func(context.Context, string, string) error { return nil },
	}

	svc := NewPaymentService(payments, bookings, &mockPublisher{}, testConfig())
	_, err := svc.CancelPayment(context.Background(), "tran_1_abc")

	require.NoError(t, err)
	assert.Equal(t, []string{model.BookingCancelled}, bookings.statusCalls)
}

func TestSettleUnknownTransaction(t *testing.T) {
	payments := &mockPaymentRepo{
		updateStatusFn: func(context.Context, string, string) (*model.Payment, error) {
			return nil, paymentserrors.ErrNotFound
		},
	}
	pub := &mockPublisher{}

	svc := NewPaymentService(payments, &mockBookingRepo{}, pub, testConfig())
	_, err := svc.SuccessPayment(context.Background(), "tran_unknown")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
	assert.Empty(t, pub.events)
}

func TestSettleBookingUpdateFailureAbortsBoth(t *testing.T) {
	payments := &mockPaymentRepo{
		updateStatusFn: func(_ context.Context, transactionID, status string) (*model.Payment, error) {
			return &model.Payment{Booking: "b1", TransactionID: transactionID, Status: status}, nil
		},
	}
	bookings := &mockBookingRepo{
		updateStatusFn: func(context.Context, string, string) error {
			return errors.New("write conflict")
		},
	}
	pub := &mockPublisher{}

	svc := NewPaymentService(payments, bookings, pub, testConfig())
	_, err := svc.SuccessPayment(context.Background(), "tran_1_abc")

	require.Error(t, err)
	assert.Empty(t, pub.events)
}

func TestSettleEmptyTransactionID(t *testing.T) {
	svc := NewPaymentService(&mockPaymentRepo{}, &mockBookingRepo{}, &mockPublisher{}, testConfig())
	_, err := svc.SuccessPayment(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
}
