package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "tourbook/internal/bookings/errors"
	"tourbook/pkg/config"
	mongodb "tourbook/pkg/db/mongo"
	"tourbook/pkg/model"
	"tourbook/pkg/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName        = "Bookings"
	UserCollectionName    = "Users"
	TourCollectionName    = "Tours"
	PaymentCollectionName = "Payments"
)

// bookingSearchableFields include the reference fields; an ObjectID search
// term matches those by exact identifier equality.
var bookingSearchableFields = []string{"user", "tour", "status"}

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	users      *mongo.Collection
	tours      *mongo.Collection
	payments   *mongo.Collection
	txManager  mongodb.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindDetailByID(ctx context.Context, id string) (*model.BookingDetail, error)
	SetPayment(ctx context.Context, bookingID, paymentID string) error
	UpdateStatus(ctx context.Context, id, status string) error
	FindByUser(ctx context.Context, userID string) ([]bson.M, error)
	List(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error)
	ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		users:      db.Collection(UserCollectionName),
		tours:      db.Collection(TourCollectionName),
		payments:   db.Collection(PaymentCollectionName),
		txManager:  mongodb.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

// FindDetailByID assembles the three-way populated read model. Inside a
// transaction the reads see the transaction's own writes.
func (r *mongoBookingRepository) FindDetailByID(ctx context.Context, id string) (*model.BookingDetail, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	booking, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &model.BookingDetail{
		ID:         booking.ID,
		GuestCount: booking.GuestCount,
		Status:     booking.Status,
		CreatedAt:  booking.CreatedAt,
	}

	if oid, err := primitive.ObjectIDFromHex(booking.User); err == nil {
		opts := options.FindOne().SetProjection(bson.D{
			{Key: "name", Value: 1},
			{Key: "email", Value: 1},
			{Key: "phone", Value: 1},
			{Key: "address", Value: 1},
		})
		if err := r.users.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&detail.User); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to resolve booking user: %w", err)
		}
	}

	if oid, err := primitive.ObjectIDFromHex(booking.Tour); err == nil {
		opts := options.FindOne().SetProjection(bson.D{
			{Key: "title", Value: 1},
			{Key: "costFrom", Value: 1},
		})
		if err := r.tours.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&detail.Tour); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to resolve booking tour: %w", err)
		}
	}

	if booking.Payment != "" {
		if oid, err := primitive.ObjectIDFromHex(booking.Payment); err == nil {
			var payment model.Payment
			err := r.payments.FindOne(ctx, bson.M{"_id": oid}).Decode(&payment)
			if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("failed to resolve booking payment: %w", err)
			}
			if err == nil {
				detail.Payment = &payment
			}
		}
	}

	return detail, nil
}

// SetPayment links the booking to its payment record. Called exactly once,
// inside the transaction that created the payment.
func (r *mongoBookingRepository) SetPayment(ctx context.Context, bookingID, paymentID string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, bookingID)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"payment": paymentID},
	})
	if err != nil {
		return fmt.Errorf("failed to link payment to booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"status": status},
	})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

// FindByUser returns the user's bookings newest-first with user, tour and
// payment expanded.
func (r *mongoBookingRepository) FindByUser(ctx context.Context, userID string) ([]bson.M, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	docs, err := query.New(r.collection, map[string]string{"user": userID}).
		Filter().
		Sort().
		Populate(r.populations()...).
		Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return docs, nil
}

func (r *mongoBookingRepository) List(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	builder := query.New(r.collection, raw).
		Search(bookingSearchableFields).
		Filter().
		Sort().
		Fields().
		Paginate().
		Populate(r.populations()...)

	var (
		docs    []bson.M
		meta    query.Meta
		errDocs error
		errMeta error
		wg      sync.WaitGroup
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		docs, errDocs = builder.Build(ctx)
	}()
	go func() {
		defer wg.Done()
		meta, errMeta = builder.Meta(ctx)
	}()
	wg.Wait()

	if errDocs != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to list bookings: %w", errDocs)
	}
	if errMeta != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to count bookings: %w", errMeta)
	}
	return docs, meta, nil
}

func (r *mongoBookingRepository) populations() []query.Population {
	return []query.Population{
		query.PathSelect("user", r.users, "name", "email", "phone", "address"),
		query.PathSelect("tour", r.tours, "title", "costFrom"),
		query.PathSelect("payment", r.payments, "status", "transactionId", "amount"),
	}
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
