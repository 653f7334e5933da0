package service

import (
	"context"
	"errors"

	bookingrepo "tourbook/internal/bookings/repository"
	paymentserrors "tourbook/internal/payments/errors"
	"tourbook/internal/payments/repository"
	"tourbook/pkg/config"
	apperrors "tourbook/pkg/errors"
	"tourbook/pkg/events"
	"tourbook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type PaymentService interface {
	SuccessPayment(ctx context.Context, transactionID string) (*model.Payment, error)
	FailPayment(ctx context.Context, transactionID string) (*model.Payment, error)
	CancelPayment(ctx context.Context, transactionID string) (*model.Payment, error)
	GetPaymentByID(ctx context.Context, id string) (*model.Payment, error)
}

type paymentService struct {
	repo        repository.PaymentRepository
	bookingRepo bookingrepo.BookingRepository
	publisher   events.Publisher
	cfg         *config.Config
}

func NewPaymentService(
	repo repository.PaymentRepository,
	bookingRepo bookingrepo.BookingRepository,
	publisher events.Publisher,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		repo:        repo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// SuccessPayment is the gateway success callback: the payment and its
// booking move to their settled states together or not at all.
func (s *paymentService) SuccessPayment(ctx context.Context, transactionID string) (*model.Payment, error) {
	return s.settle(ctx, transactionID, model.PaymentPaid, model.BookingConfirmed)
}

func (s *paymentService) FailPayment(ctx context.Context, transactionID string) (*model.Payment, error) {
	return s.settle(ctx, transactionID, model.PaymentFailed, model.BookingFailed)
}

func (s *paymentService) CancelPayment(ctx context.Context, transactionID string) (*model.Payment, error) {
	return s.settle(ctx, transactionID, model.PaymentCancelled, model.BookingCancelled)
}

func (s *paymentService) settle(ctx context.Context, transactionID, paymentStatus, bookingStatus string) (*model.Payment, error) {
	if transactionID == "" {
		return nil, apperrors.InvalidInput("Transaction ID cannot be empty")
	}

	var payment *model.Payment
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		updated, err := s.repo.UpdateStatusByTransactionID(sessCtx, transactionID, paymentStatus)
		if err != nil {
			if errors.Is(err, paymentserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Payment", transactionID)
			}
			return apperrors.Internal("Failed to update payment status", err)
		}

		if err := s.bookingRepo.UpdateStatus(sessCtx, updated.Booking, bookingStatus); err != nil {
			return apperrors.Internal("Failed to update booking status", err)
		}

		payment = updated
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to settle payment",
			"transaction_id", transactionID,
			"payment_status", paymentStatus,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Payment settled",
		"transaction_id", transactionID,
		"payment_status", paymentStatus,
		"booking_status", bookingStatus,
	)

	if err := s.publisher.Publish(ctx, events.TypePaymentStatusChanged, payment.TransactionID, payment); err != nil {
		s.cfg.Log.Warn("Failed to publish payment.status-changed event",
			"transaction_id", transactionID,
			"error", err,
		)
	}

	return payment, nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, id string) (*model.Payment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Payment ID cannot be empty")
	}

	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, paymentserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Payment", id)
		}
		if errors.Is(err, paymentserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid payment ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve payment", err)
	}
	return payment, nil
}
