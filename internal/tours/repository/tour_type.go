package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tourserrors "tourbook/internal/tours/errors"
	"tourbook/pkg/config"
	mongodb "tourbook/pkg/db/mongo"
	"tourbook/pkg/model"
	"tourbook/pkg/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var tourTypeSearchableFields = []string{"name"}

type mongoTourTypeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type TourTypeRepository interface {
	Create(ctx context.Context, tourType *model.TourType) error
	FindByID(ctx context.Context, id string) (*model.TourType, error)
	FindByName(ctx context.Context, name string) (*model.TourType, error)
	Update(ctx context.Context, id string, tourType *model.TourType) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error)
}

func NewMongoTourTypeRepository(cfg *config.Config) TourTypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTourTypeRepository{
		cfg:        cfg,
		collection: db.Collection(TourTypeCollectionName),
	}
}

func (r *mongoTourTypeRepository) Create(ctx context.Context, tourType *model.TourType) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	tourType.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, tourType)
	if err != nil {
		return fmt.Errorf("failed to create tour type: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tourType.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTourTypeRepository) FindByID(ctx context.Context, id string) (*model.TourType, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	var tourType model.TourType
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&tourType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tourserrors.ErrTypeNotFound
		}
		return nil, fmt.Errorf("failed to find tour type: %w", err)
	}
	return &tourType, nil
}

func (r *mongoTourTypeRepository) FindByName(ctx context.Context, name string) (*model.TourType, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var tourType model.TourType
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&tourType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tourserrors.ErrTypeNotFound
		}
		return nil, fmt.Errorf("failed to find tour type by name: %w", err)
	}
	return &tourType, nil
}

func (r *mongoTourTypeRepository) Update(ctx context.Context, id string, tourType *model.TourType) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"name": tourType.Name},
	})
	if err != nil {
		return fmt.Errorf("failed to update tour type: %w", err)
	}
	if result.MatchedCount == 0 {
		return tourserrors.ErrTypeNotFound
	}
	return nil
}

func (r *mongoTourTypeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete tour type: %w", err)
	}
	if result.DeletedCount == 0 {
		return tourserrors.ErrTypeNotFound
	}
	return nil
}

func (r *mongoTourTypeRepository) List(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	builder := query.New(r.collection, raw).
		Search(tourTypeSearchableFields).
		Filter().
		Sort().
		Fields().
		Paginate()

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
		return nil, query.Meta{}, fmt.Errorf("failed to list tour types: %w", errDocs)
	}
	if errMeta != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to count tour types: %w", errMeta)
	}
	return docs, meta, nil
}
