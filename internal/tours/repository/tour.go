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
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName         = "Tours"
	TourTypeCollectionName = "TourTypes"
	DivisionCollectionName = "Divisions"
)

// tourSearchableFields feed the query builder's OR search for tour listings.
var tourSearchableFields = []string{"title", "description", "location"}

type mongoTourRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	types      *mongo.Collection
	divisions  *mongo.Collection
}

type TourRepository interface {
	Create(ctx context.Context, tour *model.Tour) error
	FindByID(ctx context.Context, id string) (*model.Tour, error)
	FindCostByID(ctx context.Context, id string) (*model.Tour, error)
	FindByTitle(ctx context.Context, title string) (*model.Tour, error)
	Update(ctx context.Context, id string, tour *model.Tour) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error)
	EnsureIndexes(ctx context.Context) error
}

func NewMongoTourRepository(cfg *config.Config) TourRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTourRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		types:      db.Collection(TourTypeCollectionName),
		divisions:  db.Collection(DivisionCollectionName),
	}
}

func (r *mongoTourRepository) Create(ctx context.Context, tour *model.Tour) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	tour.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, tour)
	if err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tour.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTourRepository) FindByID(ctx context.Context, id string) (*model.Tour, error) {
	return r.findOne(ctx, id, nil)
}

// FindCostByID fetches only the pricing fields, mirroring the narrow read
// the booking flow performs before snapshotting the price.
func (r *mongoTourRepository) FindCostByID(ctx context.Context, id string) (*model.Tour, error) {
	return r.findOne(ctx, id, bson.D{{Key: "title", Value: 1}, {Key: "costFrom", Value: 1}})
}

func (r *mongoTourRepository) findOne(ctx context.Context, id string, projection bson.D) (*model.Tour, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var tour model.Tour
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}, opts).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tourserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tour: %w", err)
	}
	return &tour, nil
}

func (r *mongoTourRepository) FindByTitle(ctx context.Context, title string) (*model.Tour, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var tour model.Tour
	err := r.collection.FindOne(ctx, bson.M{"title": title}).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tourserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tour by title: %w", err)
	}
	return &tour, nil
}

func (r *mongoTourRepository) Update(ctx context.Context, id string, tour *model.Tour) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"title":       tour.Title,
			"description": tour.Description,
			"location":    tour.Location,
			"costFrom":    tour.CostFrom,
			"startDate":   tour.StartDate,
			"endDate":     tour.EndDate,
			"maxGuest":    tour.MaxGuest,
			"tourType":    tour.TourType,
			"division":    tour.Division,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update tour: %w", err)
	}
	if result.MatchedCount == 0 {
		return tourserrors.ErrNotFound
	}
	return nil
}

func (r *mongoTourRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tourserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete tour: %w", err)
	}
	if result.DeletedCount == 0 {
		return tourserrors.ErrNotFound
	}
	return nil
}

// List runs the page query and the pre-pagination count concurrently,
// then decorates the page with tourType and division expansions.
func (r *mongoTourRepository) List(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	builder := query.New(r.collection, raw).
		Search(tourSearchableFields).
		Filter().
		Sort().
		Fields().
		Paginate().
		Populate(
			query.PathSelect("tourType", r.types, "name"),
			query.PathSelect("division", r.divisions, "name", "description"),
		)

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
		return nil, query.Meta{}, fmt.Errorf("failed to list tours: %w", errDocs)
	}
	if errMeta != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to count tours: %w", errMeta)
	}
	return docs, meta, nil
}

func (r *mongoTourRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create tour title index: %w", err)
	}
	return nil
}
