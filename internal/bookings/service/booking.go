package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "tourbook/internal/bookings/errors"
	"tourbook/internal/bookings/repository"
	"tourbook/internal/bookings/validator"
	"tourbook/internal/payments/gateway"
	paymentrepo "tourbook/internal/payments/repository"
	tourserrors "tourbook/internal/tours/errors"
	tourrepo "tourbook/internal/tours/repository"
	"tourbook/pkg/config"
	apperrors "tourbook/pkg/errors"
	"tourbook/pkg/events"
	"tourbook/pkg/model"
	"tourbook/pkg/query"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CheckoutResult is what a successful booking creation hands back: the
// gateway redirect plus the populated booking.
type CheckoutResult struct {
	PaymentURL string               `json:"paymentUrl"`
	Booking    *model.BookingDetail `json:"booking"`
}

type BookingService interface {
	CreateBooking(ctx context.Context, payload *model.Booking, userID string) (*CheckoutResult, error)
	GetUserBookings(ctx context.Context, userID string) ([]bson.M, error)
	GetBookingByID(ctx context.Context, id string) (*model.BookingDetail, error)
	UpdateBookingStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.BookingDetail, error)
	GetAllBookings(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error)
}

type bookingService struct {
	repo        repository.BookingRepository
	paymentRepo paymentrepo.PaymentRepository
	tourRepo    tourrepo.TourRepository
	gateway     gateway.PaymentGateway
	validator   *validator.BookingValidator
	publisher   events.Publisher
	cfg         *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	paymentRepo paymentrepo.PaymentRepository,
	tourRepo tourrepo.TourRepository,
	paymentGateway gateway.PaymentGateway,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:        repo,
		paymentRepo: paymentRepo,
		tourRepo:    tourRepo,
		gateway:     paymentGateway,
		validator:   bookingValidator,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// CreateBooking runs the whole checkout pipeline in one transaction: tour
// lookup, price snapshot, booking + payment creation, linking, populated
// re-fetch and gateway session init. Any failure rolls everything back and
// surfaces the original error; nothing is visible to readers until commit.
func (s *bookingService) CreateBooking(ctx context.Context, payload *model.Booking, userID string) (*CheckoutResult, error) {
	payload.User = userID
	payload.Status = model.BookingPending

	if err := s.validator.Validate(payload); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	// Generated before any persistence write so every partial attempt is
	// traceable to one transaction id.
	transactionID := newTransactionID()

	var result *CheckoutResult
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		tour, err := s.tourRepo.FindCostByID(sessCtx, payload.Tour)
		if err != nil {
			if errors.Is(err, tourserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Tour", payload.Tour)
			}
			if errors.Is(err, tourserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid tour ID format")
			}
			return apperrors.Internal("Failed to look up tour", err)
		}
		if tour.CostFrom <= 0 {
			return apperrors.InvalidState("No tour cost found")
		}

		// Price snapshot: never recomputed after this point.
		amount := tour.CostFrom * float64(payload.GuestCount)

		if err := s.repo.Create(sessCtx, payload); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}

		payment := &model.Payment{
			Booking:       payload.ID,
			TransactionID: transactionID,
			Amount:        amount,
			Status:        model.PaymentUnpaid,
		}
		if err := s.paymentRepo.Create(sessCtx, payment); err != nil {
			return apperrors.Internal("Failed to create payment", err)
		}

		if err := s.repo.SetPayment(sessCtx, payload.ID, payment.ID); err != nil {
			return apperrors.Internal("Failed to link payment to booking", err)
		}

		detail, err := s.repo.FindDetailByID(sessCtx, payload.ID)
		if err != nil {
			return apperrors.Internal("Failed to load created booking", err)
		}

		initResp, err := s.gateway.InitializePayment(sessCtx, &gateway.InitRequest{
			Name:          detail.User.Name,
			Email:         detail.User.Email,
			PhoneNumber:   detail.User.Phone,
			Address:       detail.User.Address,
			Amount:        amount,
			TransactionID: transactionID,
		})
		if err != nil {
			return apperrors.Internal("Failed to initialize payment session", err)
		}
		if initResp == nil || initResp.GatewayPageURL == "" {
			return apperrors.InvalidState("Payment initialization failed")
		}

		result = &CheckoutResult{
			PaymentURL: initResp.GatewayPageURL,
			Booking:    detail,
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"user", userID,
			"tour", payload.Tour,
			"transaction_id", transactionID,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", result.Booking.ID,
		"user", userID,
		"tour", payload.Tour,
		"transaction_id", transactionID,
		"amount", result.Booking.Payment.Amount,
	)

	if err := s.publisher.Publish(ctx, events.TypeBookingCreated, result.Booking.ID, result.Booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking.created event", "id", result.Booking.ID, "error", err)
	}

	return result, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string) ([]bson.M, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list user bookings", "user", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, id string) (*model.BookingDetail, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return detail, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.BookingDetail, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Booking status update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	if err := s.repo.UpdateStatus(ctx, id, update.Status); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to load updated booking", err)
	}

	s.cfg.Log.Info("Booking status updated", "id", id, "status", update.Status)
	return detail, nil
}

func (s *bookingService) GetAllBookings(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error) {
	docs, meta, err := s.repo.List(ctx, raw)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, query.Meta{}, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return docs, meta, nil
}

func newTransactionID() string {
	return fmt.Sprintf("tran_%d_%s", time.Now().UnixMilli(), uuid.NewString())
}
