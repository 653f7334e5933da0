package service

import (
	"context"
	"errors"
	"testing"

	"tourbook/internal/bookings/validator"
	"tourbook/internal/payments/gateway"
	tourserrors "tourbook/internal/tours/errors"
	"tourbook/pkg/config"
	apperrors "tourbook/pkg/errors"
	"tourbook/pkg/logger"
	"tourbook/pkg/model"
	"tourbook/pkg/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	mongodb "tourbook/pkg/db/mongo"
)

const (
	testUserID = "507f1f77bcf86cd799439011"
	testTourID = "507f1f77bcf86cd799439012"
)

type mockBookingRepo struct {
	createFn         func(ctx context.Context, booking *model.Booking) error
	findDetailFn     func(ctx context.Context, id string) (*model.BookingDetail, error)
	setPaymentFn     func(ctx context.Context, bookingID, paymentID string) error
	updateStatusFn   func(ctx context.Context, id, status string) error
	findByUserFn     func(ctx context.Context, userID string) ([]bson.M, error)
	listFn          func(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error)
	createCalls     int
	setPaymentCalls int
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	m.createCalls++
	return m.createFn(ctx, booking)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, errors.New("not implemented")
}

func (m *mockBookingRepo) FindDetailByID(ctx context.Context, id string) (*model.BookingDetail, error) {
	return m.findDetailFn(ctx, id)
}

func (m *mockBookingRepo) SetPayment(ctx context.Context, bookingID, paymentID string) error {
	m.setPaymentCalls++
	return m.setPaymentFn(ctx, bookingID, paymentID)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.updateStatusFn(ctx, id, status)
}

func (m *mockBookingRepo) FindByUser(ctx context.Context, userID string) ([]bson.M, error) {
	return m.findByUserFn(ctx, userID)
}

func (m *mockBookingRepo) List(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error) {
	return m.listFn(ctx, raw)
}

// ExecuteTransaction runs the callback directly; rollback semantics belong
// to the real transaction manager.
func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return fn(nil)
}

type mockPaymentRepo struct {
	createFn    func(ctx context.Context, payment *model.Payment) error
	createCalls int
	lastCreated *model.Payment
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	m.createCalls++
	m.lastCreated = payment
	return m.createFn(ctx, payment)
}

func (m *mockPaymentRepo) FindByID(context.Context, string) (*model.Payment, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPaymentRepo) FindByTransactionID(context.Context, string) (*model.Payment, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPaymentRepo) UpdateStatusByTransactionID(context.Context, string, string) (*model.Payment, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPaymentRepo) EnsureIndexes(context.Context) error { return nil }

func (m *mockPaymentRepo) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return fn(nil)
}

type mockTourRepo struct {
	findCostFn func(ctx context.Context, id string) (*model.Tour, error)
}

func (m *mockTourRepo) Create(context.Context, *model.Tour) error { return errors.New("not implemented") }

func (m *mockTourRepo) FindByID(context.Context, string) (*model.Tour, error) {
	return nil, errors.New("not implemented")
}

func (m *mockTourRepo) FindCostByID(ctx context.Context, id string) (*model.Tour, error) {
	return m.findCostFn(ctx, id)
}

func (m *mockTourRepo) FindByTitle(context.Context, string) (*model.Tour, error) {
	return nil, errors.New("not implemented")
}

func (m *mockTourRepo) Update(context.Context, string, *model.Tour) error {
	return errors.New("not implemented")
}

func (m *mockTourRepo) Delete(context.Context, string) error { return errors.New("not implemented") }

func (m *mockTourRepo) List(context.Context, map[string]string) ([]bson.M, query.Meta, error) {
	return nil, query.Meta{}, errors.New("not implemented")
}

func (m *mockTourRepo) EnsureIndexes(context.Context) error { return nil }

type mockGateway struct {
	initFn      func(ctx context.Context, req *gateway.InitRequest) (*gateway.InitResponse, error)
	lastRequest *gateway.InitRequest
}

func (m *mockGateway) InitializePayment(ctx context.Context, req *gateway.InitRequest) (*gateway.InitResponse, error) {
	m.lastRequest = req
	return m.initFn(ctx, req)
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

func happyDetail() *model.BookingDetail {
	return &model.BookingDetail{
		ID: "b1",
		User: model.UserContact{
			Name:    "Asha Rahman",
			Email:   "asha@example.com",
			Phone:   "+8801700000000",
			Address: "Dhaka",
		},
		Tour:       model.TourSummary{Title: "Sajek Valley", CostFrom: 100},
		GuestCount: 3,
		Status:     model.BookingPending,
		Payment:    &model.Payment{Amount: 300, Status: model.PaymentUnpaid},
	}
}

func newTestService(
	bookings *mockBookingRepo,
	payments *mockPaymentRepo,
	tours *mockTourRepo,
	gw *mockGateway,
	pub *mockPublisher,
) BookingService {
	cfg := testConfig()
	return NewBookingService(bookings, payments, tours, gw, validator.NewBookingValidator(cfg.Log), pub, cfg)
}

func TestCreateBookingHappyPath(t *testing.T) {
	bookings := &mockBookingRepo{
		createFn: func(_ context.Context, b *model.Booking) error {
			b.ID = "507f1f77bcf86cd799439099"
			return nil
		},
		setPaymentFn: func(context.Context, string, string) error { return nil },
		findDetailFn: func(context.Context, string) (*model.BookingDetail, error) {
			return happyDetail(), nil
		},
	}
	payments := &mockPaymentRepo{
		createFn: func(_ context.Context, p *model.Payment) error {
			p.ID = "507f1f77bcf86cd799439088"
			return nil
		},
	}
	tours := &mockTourRepo{
		findCostFn: func(context.Context, string) (*model.Tour, error) {
			return &model.Tour{Title: "Sajek Valley", CostFrom: 100}, nil
		},
	}
	gw := &mockGateway{
		initFn: func(context.Context, *gateway.InitRequest) (*gateway.InitResponse, error) {
			return &gateway.InitResponse{GatewayPageURL: "https://pay.example.com/session/1"}, nil
		},
	}
	pub := &mockPublisher{}

	svc := newTestService(bookings, payments, tours, gw, pub)
	result, err := svc.CreateBooking(context.Background(), &model.Booking{
		Tour:       testTourID,
		GuestCount: 3,
	}, testUserID)

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/session/1", result.PaymentURL)
	assert.Equal(t, "b1", result.Booking.ID)

	// amount is the cost snapshot times guest count
	require.NotNil(t, payments.lastCreated)
	assert.Equal(t, float64(300), payments.lastCreated.Amount)
	assert.Equal(t, model.PaymentUnpaid, payments.lastCreated.Status)
	assert.NotEmpty(t, payments.lastCreated.TransactionID)

	// gateway sees the same snapshot and the customer contact fields
	require.NotNil(t, gw.lastRequest)
	assert.Equal(t, float64(300), gw.lastRequest.Amount)
	assert.Equal(t, "Asha Rahman", gw.lastRequest.Name)
	assert.Equal(t, payments.lastCreated.TransactionID, gw.lastRequest.TransactionID)

	assert.Equal(t, []string{"booking.created"}, pub.events)
}

func TestCreateBookingTourWithoutCost(t *testing.T) {
	bookings := &mockBookingRepo{
		createFn: func(context.Context, *model.Booking) error { return nil },
	}
	payments := &mockPaymentRepo{
		createFn: func(context.Context, *model.Payment) error { return nil },
	}
	tours := &mockTourRepo{
		findCostFn: func(context.Context, string) (*model.Tour, error) {
			return &model.Tour{Title: "Unpriced"}, nil
		},
	}
	gw := &mockGateway{}
	pub := &mockPublisher{}

	svc := newTestService(bookings, payments, tours, gw, pub)
	_, err := svc.CreateBooking(context.Background(), &model.Booking{
		Tour:       testTourID,
		GuestCount: 2,
	}, testUserID)

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeInvalidState, appErr.Code)

	// the pipeline aborts before any write
	assert.Zero(t, bookings.createCalls)
	assert.Zero(t, payments.createCalls)
	assert.Nil(t, gw.lastRequest)
	assert.Empty(t, pub.events)
}

func TestCreateBookingTourMissing(t *testing.T) {
	bookings := &mockBookingRepo{
		createFn: func(context.Context, *model.Booking) error { return nil },
	}
	payments := &mockPaymentRepo{
		createFn: func(context.Context, *model.Payment) error { return nil },
	}
	tours := &mockTourRepo{
		findCostFn: func(context.Context, string) (*model.Tour, error) {
			return nil, tourserrors.ErrNotFound
		},
	}

	svc := newTestService(bookings, payments, tours, &mockGateway{}, &mockPublisher{})
	_, err := svc.CreateBooking(context.Background(), &model.Booking{
		Tour:       testTourID,
		GuestCount: 1,
	}, testUserID)

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
	assert.Zero(t, bookings.createCalls)
	assert.Zero(t, payments.createCalls)
}

func TestCreateBookingGatewayWithoutRedirectURL(t *testing.T) {
	bookings := &mockBookingRepo{
		createFn: func(_ context.Context, b *model.Booking) error {
			b.ID = "507f1f77bcf86cd799439099"
			return nil
		},
		setPaymentFn: func(context.Context, string, string) error { return nil },
		findDetailFn: func(context.Context, string) (*model.BookingDetail, error) {
			return happyDetail(), nil
		},
	}
	payments := &mockPaymentRepo{
		createFn: func(context.Context, *model.Payment) error { return nil },
	}
	tours := &mockTourRepo{
		findCostFn: func(context.Context, string) (*model.Tour, error) {
			return &model.Tour{CostFrom: 100}, nil
		},
	}
	gw := &mockGateway{
		initFn: func(context.Context, *gateway.InitRequest) (*gateway.InitResponse, error) {
			return &gateway.InitResponse{}, nil
		},
	}
	pub := &mockPublisher{}

	svc := newTestService(bookings, payments, tours, gw, pub)
	result, err := svc.CreateBooking(context.Background(), &model.Booking{
		Tour:       testTourID,
		GuestCount: 3,
	}, testUserID)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.AsAppError(err).Code)
	assert.Empty(t, pub.events)
}

func TestCreateBookingErrorSurfacesUnchanged(t *testing.T) {
	boom := errors.New("write conflict")
	bookings := &mockBookingRepo{
		createFn: func(context.Context, *model.Booking) error { return boom },
	}
	payments := &mockPaymentRepo{
		createFn: func(context.Context, *model.Payment) error { return nil },
	}
	tours := &mockTourRepo{
		findCostFn: func(context.Context, string) (*model.Tour, error) {
			return &model.Tour{CostFrom: 50}, nil
		},
	}

	svc := newTestService(bookings, payments, tours, &mockGateway{}, &mockPublisher{})
	_, err := svc.CreateBooking(context.Background(), &model.Booking{
		Tour:       testTourID,
		GuestCount: 1,
	}, testUserID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Zero(t, payments.createCalls)
}

func TestCreateBookingValidationFailure(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockPaymentRepo{}, &mockTourRepo{}, &mockGateway{}, &mockPublisher{})

	_, err := svc.CreateBooking(context.Background(), &model.Booking{
		Tour:       testTourID,
		GuestCount: 0, // below minimum
	}, testUserID)

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)
}

func TestGetUserBookingsEmptyID(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockPaymentRepo{}, &mockTourRepo{}, &mockGateway{}, &mockPublisher{})
	_, err := svc.GetUserBookings(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
}

func TestUpdateBookingStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockPaymentRepo{}, &mockTourRepo{}, &mockGateway{}, &mockPublisher{})
	_, err := svc.UpdateBookingStatus(context.Background(), "507f1f77bcf86cd799439099", &model.BookingStatusUpdate{Status: "SHIPPED"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)
}

func TestUpdateBookingStatusHappyPath(t *testing.T) {
	bookings := &mockBookingRepo{
		updateStatusFn: func(_ context.Context, id, status string) error {
			assert.Equal(t, model.BookingConfirmed, status)
			return nil
		},
		findDetailFn: func(context.Context, string) (*model.BookingDetail, error) {
			d := happyDetail()
			d.Status = model.BookingConfirmed
			return d, nil
		},
	}

	svc := newTestService(bookings, &mockPaymentRepo{}, &mockTourRepo{}, &mockGateway{}, &mockPublisher{})
	detail, err := svc.UpdateBookingStatus(context.Background(), "507f1f77bcf86cd799439099", &model.BookingStatusUpdate{Status: model.BookingConfirmed})

	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, detail.Status)
}
