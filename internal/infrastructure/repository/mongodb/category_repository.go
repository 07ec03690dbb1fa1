package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mkravets/eventhub/internal/domain/category"
	"github.com/mkravets/eventhub/internal/domain/errs"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// MongoCategoryRepository implements categoryapp.Repository and the category
// resolver used by event operations.
type MongoCategoryRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// CategoryRepoOption configures MongoCategoryRepository.
type CategoryRepoOption func(*MongoCategoryRepository)

// WithCategoryRepoLogger sets the logger for the category repository.
func WithCategoryRepoLogger(logger *slog.Logger) CategoryRepoOption {
	return func(r *MongoCategoryRepository) {
		r.logger = logger
	}
}

// NewMongoCategoryRepository creates a new MongoDB category repository.
func NewMongoCategoryRepository(collection *mongo.Collection, opts ...CategoryRepoOption) *MongoCategoryRepository {
	r := &MongoCategoryRepository{
		collection: collection,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// FindByID finds a category by id.
func (r *MongoCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	if id.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"category_id": id.String()}
	var doc categoryDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, HandleMongoError(err, "category")
	}

	return documentToCategory(&doc)
}

// FindByName finds the first category whose name contains the given string,
// matched case-insensitively. Sorting by name ascending before taking the
// first match keeps repeated lookups deterministic when several names match.
func (r *MongoCategoryRepository) FindByName(ctx context.Context, name string) (*category.Category, error) {
	if name == "" {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"name": ContainsPattern(name)}
	opts := options.FindOne().SetSort(bson.D{{Key: "name", Value: 1}})

	var doc categoryDocument
	err := r.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.ErrorContext(ctx, "failed to find category by name",
				slog.String("name", name),
				slog.String("error", err.Error()),
			)
		}
		return nil, HandleMongoError(err, "category")
	}

	return documentToCategory(&doc)
}

// List returns all categories sorted by name.
func (r *MongoCategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, HandleMongoError(err, "categories")
	}

	return decodeAll(ctx, cursor, documentToCategory)
}

// Save persists a category.
func (r *MongoCategoryRepository) Save(ctx context.Context, c *category.Category) error {
	if c == nil || c.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	doc := categoryToDocument(c)
	filter := bson.M{"category_id": c.ID().String()}
	update := bson.M{"$set": doc}

	_, err := r.collection.UpdateOne(ctx, filter, update, UpsertOptions())
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to save category",
			slog.String("category_id", c.ID().String()),
			slog.String("name", c.Name()),
			slog.String("error", err.Error()),
		)
	}
	return HandleMongoError(err, "category")
}

// Exists reports whether a category with the given id exists.
func (r *MongoCategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if id.IsZero() {
		return false, errs.ErrInvalidInput
	}

	filter := bson.M{"category_id": id.String()}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, HandleMongoError(err, "category")
	}

	return count > 0, nil
}

// ResolveName resolves a case-insensitive partial name to a category id.
func (r *MongoCategoryRepository) ResolveName(ctx context.Context, name string) (uuid.UUID, error) {
	found, err := r.FindByName(ctx, name)
	if err != nil {
		return "", err
	}
	return found.ID(), nil
}

// categoryDocument is the MongoDB shape of a category.
type categoryDocument struct {
	CategoryID string    `bson:"category_id"`
	Name       string    `bson:"name"`
	CreatedAt  time.Time `bson:"created_at"`
}

func categoryToDocument(c *category.Category) categoryDocument {
	return categoryDocument{
		CategoryID: c.ID().String(),
		Name:       c.Name(),
		CreatedAt:  c.CreatedAt(),
	}
}

func documentToCategory(doc *categoryDocument) (*category.Category, error) {
	if doc == nil {
		return nil, errs.ErrInvalidInput
	}

	id, err := uuid.ParseUUID(doc.CategoryID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}

	return category.Reconstruct(id, doc.Name, doc.CreatedAt), nil
}
