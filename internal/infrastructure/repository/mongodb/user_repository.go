package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mkravets/eventhub/internal/domain/errs"
	userdomain "github.com/mkravets/eventhub/internal/domain/user"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// MongoUserRepository implements userapp.Repository and doubles as the
// organizer directory for event mutations.
type MongoUserRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// UserRepoOption configures MongoUserRepository.
type UserRepoOption func(*MongoUserRepository)

// WithUserRepoLogger sets the logger for the user repository.
func WithUserRepoLogger(logger *slog.Logger) UserRepoOption {
	return func(r *MongoUserRepository) {
		r.logger = logger
	}
}

// NewMongoUserRepository creates a new MongoDB user repository.
func NewMongoUserRepository(collection *mongo.Collection, opts ...UserRepoOption) *MongoUserRepository {
	r := &MongoUserRepository{
		collection: collection,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// FindByID finds a user by internal id.
func (r *MongoUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userdomain.User, error) {
	if id.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"user_id": id.String()}
	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.ErrorContext(ctx, "failed to find user by ID",
				slog.String("user_id", id.String()),
				slog.String("error", err.Error()),
			)
		}
		return nil, HandleMongoError(err, "user")
	}

	return documentToUser(&doc)
}

// FindByExternalID finds a user by the identity-provider subject id.
func (r *MongoUserRepository) FindByExternalID(ctx context.Context, externalID string) (*userdomain.User, error) {
	if externalID == "" {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"external_id": externalID}
	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.ErrorContext(ctx, "failed to find user by external ID",
				slog.String("external_id", externalID),
				slog.String("error", err.Error()),
			)
		}
		return nil, HandleMongoError(err, "user")
	}

	return documentToUser(&doc)
}

// EnsureByExternalID atomically finds-or-creates the record for an external
// subject id. A single FindOneAndUpdate with $setOnInsert closes the race
// between concurrent first requests: whichever insert wins, every caller
// gets the same stored record back. The unique index on external_id backs
// this up.
func (r *MongoUserRepository) EnsureByExternalID(
	ctx context.Context,
	candidate *userdomain.User,
) (*userdomain.User, bool, error) {
	if candidate == nil || candidate.ExternalID() == "" {
		return nil, false, errs.ErrInvalidInput
	}

	filter := bson.M{"external_id": candidate.ExternalID()}
	update := bson.M{"$setOnInsert": userToDocument(candidate)}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc userDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to ensure user",
			slog.String("external_id", candidate.ExternalID()),
			slog.String("error", err.Error()),
		)
		return nil, false, HandleMongoError(err, "user")
	}

	stored, convErr := documentToUser(&doc)
	if convErr != nil {
		return nil, false, convErr
	}

	created := stored.ID() == candidate.ID()
	return stored, created, nil
}

// Exists reports whether a user with the given internal id exists.
func (r *MongoUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if id.IsZero() {
		return false, errs.ErrInvalidInput
	}

	filter := bson.M{"user_id": id.String()}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, HandleMongoError(err, "user")
	}

	return count > 0, nil
}

// AppendEvent adds an event id to the user's owned-events list. $addToSet
// keeps the append idempotent.
func (r *MongoUserRepository) AppendEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	if userID.IsZero() || eventID.IsZero() {
		return errs.ErrInvalidInput
	}

	filter := bson.M{"user_id": userID.String()}
	update := bson.M{
		"$addToSet": bson.M{"event_ids": eventID.String()},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to append owned event",
			slog.String("user_id", userID.String()),
			slog.String("event_id", eventID.String()),
			slog.String("error", err.Error()),
		)
		return HandleMongoError(err, "user")
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// userDocument is the MongoDB shape of a user.
type userDocument struct {
	UserID     string    `bson:"user_id"`
	ExternalID string    `bson:"external_id"`
	Username   string    `bson:"username"`
	Email      string    `bson:"email"`
	FirstName  string    `bson:"first_name"`
	LastName   string    `bson:"last_name"`
	EventIDs   []string  `bson:"event_ids"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func userToDocument(u *userdomain.User) userDocument {
	eventIDs := make([]string, 0, len(u.EventIDs()))
	for _, id := range u.EventIDs() {
		eventIDs = append(eventIDs, id.String())
	}

	return userDocument{
		UserID:     u.ID().String(),
		ExternalID: u.ExternalID(),
		Username:   u.Username(),
		Email:      u.Email(),
		FirstName:  u.FirstName(),
		LastName:   u.LastName(),
		EventIDs:   eventIDs,
		CreatedAt:  u.CreatedAt(),
		UpdatedAt:  u.UpdatedAt(),
	}
}

func documentToUser(doc *userDocument) (*userdomain.User, error) {
	if doc == nil {
		return nil, errs.ErrInvalidInput
	}

	id, err := uuid.ParseUUID(doc.UserID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}

	eventIDs := make([]uuid.UUID, 0, len(doc.EventIDs))
	for _, raw := range doc.EventIDs {
		eventID, parseErr := uuid.ParseUUID(raw)
		if parseErr != nil {
			continue
		}
		eventIDs = append(eventIDs, eventID)
	}

	return userdomain.Reconstruct(
		id,
		doc.ExternalID,
		doc.Username,
		doc.Email,
		doc.FirstName,
		doc.LastName,
		eventIDs,
		doc.CreatedAt,
		doc.UpdatedAt,
	), nil
}
