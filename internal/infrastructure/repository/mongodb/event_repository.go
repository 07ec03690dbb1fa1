package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	eventapp "github.com/mkravets/eventhub/internal/application/event"
	"github.com/mkravets/eventhub/internal/domain/errs"
	eventdomain "github.com/mkravets/eventhub/internal/domain/event"
	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// MongoEventRepository implements eventapp.Repository. Reads are populated:
// the stored category and organizer foreign keys are replaced with display
// snapshots fetched in batched lookups against the sibling collections.
type MongoEventRepository struct {
	events     *mongo.Collection
	categories *mongo.Collection
	users      *mongo.Collection
	logger     *slog.Logger
}

// EventRepoOption configures MongoEventRepository.
type EventRepoOption func(*MongoEventRepository)

// WithEventRepoLogger sets the logger for the event repository.
func WithEventRepoLogger(logger *slog.Logger) EventRepoOption {
	return func(r *MongoEventRepository) {
		r.logger = logger
	}
}

// NewMongoEventRepository creates a new MongoDB event repository over the
// given database. It reads from the categories and users collections when
// populating views.
func NewMongoEventRepository(db *mongo.Database, opts ...EventRepoOption) *MongoEventRepository {
	r := &MongoEventRepository{
		events:     db.Collection(EventsCollection),
		categories: db.Collection(CategoriesCollection),
		users:      db.Collection(UsersCollection),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Insert stores a new event.
func (r *MongoEventRepository) Insert(ctx context.Context, e *eventdomain.Event) error {
	if e == nil || e.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	_, err := r.events.InsertOne(ctx, eventToDocument(e))
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to insert event",
			slog.String("event_id", e.ID().String()),
			slog.String("error", err.Error()),
		)
	}
	return HandleMongoError(err, "event")
}

// Load fetches the raw aggregate for mutation.
func (r *MongoEventRepository) Load(ctx context.Context, id uuid.UUID) (*eventdomain.Event, error) {
	if id.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"event_id": id.String()}
	var doc eventDocument
	err := r.events.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.ErrorContext(ctx, "failed to load event",
				slog.String("event_id", id.String()),
				slog.String("error", err.Error()),
			)
		}
		return nil, HandleMongoError(err, "event")
	}

	return documentToEvent(&doc)
}

// Update persists a mutated aggregate.
func (r *MongoEventRepository) Update(ctx context.Context, e *eventdomain.Event) error {
	if e == nil || e.ID().IsZero() {
		return errs.ErrInvalidInput
	}

	filter := bson.M{"event_id": e.ID().String()}
	update := bson.M{"$set": eventToDocument(e)}

	result, err := r.events.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to update event",
			slog.String("event_id", e.ID().String()),
			slog.String("error", err.Error()),
		)
		return HandleMongoError(err, "event")
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// Delete removes an event by id. Deleting an absent id is not an error; the
// boolean reports whether a document was removed.
func (r *MongoEventRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if id.IsZero() {
		return false, errs.ErrInvalidInput
	}

	filter := bson.M{"event_id": id.String()}
	result, err := r.events.DeleteOne(ctx, filter)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to delete event",
			slog.String("event_id", id.String()),
			slog.String("error", err.Error()),
		)
		return false, HandleMongoError(err, "event")
	}

	return result.DeletedCount > 0, nil
}

// FindByID fetches one populated event.
func (r *MongoEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*eventapp.View, error) {
	if id.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"event_id": id.String()}
	var doc eventDocument
	err := r.events.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, HandleMongoError(err, "event")
	}

	views, err := r.populate(ctx, []*eventDocument{&doc})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// List returns a page of populated events matching the filter, newest first,
// together with the total match count.
func (r *MongoEventRepository) List(ctx context.Context, filter eventapp.Filter) ([]*eventapp.View, int, error) {
	query := bson.M{}
	if filter.TitleQuery != "" {
		query["title"] = ContainsPattern(filter.TitleQuery)
	}
	if !filter.CategoryID.IsZero() {
		query["category_id"] = filter.CategoryID.String()
	}

	return r.findPage(ctx, query, filter.Offset, filter.Limit)
}

// ListByOrganizer returns a page of the organizer's events, newest first,
// together with the total match count.
func (r *MongoEventRepository) ListByOrganizer(
	ctx context.Context,
	organizerID uuid.UUID,
	offset, limit int,
) ([]*eventapp.View, int, error) {
	if organizerID.IsZero() {
		return nil, 0, errs.ErrInvalidInput
	}

	query := bson.M{"organizer_id": organizerID.String()}
	return r.findPage(ctx, query, offset, limit)
}

// ListRelated returns a page of events sharing a category, excluding one
// event id, newest first, together with the total match count.
func (r *MongoEventRepository) ListRelated(
	ctx context.Context,
	categoryID, excludeEventID uuid.UUID,
	offset, limit int,
) ([]*eventapp.View, int, error) {
	if categoryID.IsZero() {
		return nil, 0, errs.ErrInvalidInput
	}

	query := bson.M{"category_id": categoryID.String()}
	if !excludeEventID.IsZero() {
		query["event_id"] = bson.M{"$ne": excludeEventID.String()}
	}

	return r.findPage(ctx, query, offset, limit)
}

// findPage runs the shared count-then-find-then-populate sequence.
func (r *MongoEventRepository) findPage(
	ctx context.Context,
	query bson.M,
	offset, limit int,
) ([]*eventapp.View, int, error) {
	total, err := CountFilter(ctx, r.events, query)
	if err != nil {
		return nil, 0, HandleMongoError(err, "events")
	}

	cursor, err := r.events.Find(ctx, query, FindWithPaginationDesc(offset, limit))
	if err != nil {
		return nil, 0, HandleMongoError(err, "events")
	}
	defer cursor.Close(ctx)

	docs := make([]*eventDocument, 0)
	for cursor.Next(ctx) {
		var doc eventDocument
		if decodeErr := cursor.Decode(&doc); decodeErr != nil {
			continue
		}
		docs = append(docs, &doc)
	}
	if cursorErr := cursor.Err(); cursorErr != nil {
		return nil, 0, HandleMongoError(cursorErr, "events")
	}

	views, err := r.populate(ctx, docs)
	if err != nil {
		return nil, 0, err
	}

	return views, total, nil
}

// populate turns event documents into views, replacing the category and
// organizer foreign keys with display snapshots. One $in query per sibling
// collection covers the whole page. A dangling organizer reference yields a
// nil Organizer rather than an error; a dangling category yields a snapshot
// with an empty name.
func (r *MongoEventRepository) populate(ctx context.Context, docs []*eventDocument) ([]*eventapp.View, error) {
	categoryIDs := make([]string, 0, len(docs))
	organizerIDs := make([]string, 0, len(docs))
	seenCategories := make(map[string]struct{})
	seenOrganizers := make(map[string]struct{})
	for _, doc := range docs {
		if _, ok := seenCategories[doc.CategoryID]; !ok {
			seenCategories[doc.CategoryID] = struct{}{}
			categoryIDs = append(categoryIDs, doc.CategoryID)
		}
		if _, ok := seenOrganizers[doc.OrganizerID]; !ok {
			seenOrganizers[doc.OrganizerID] = struct{}{}
			organizerIDs = append(organizerIDs, doc.OrganizerID)
		}
	}

	categoryNames, err := r.lookupCategoryNames(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	organizers, err := r.lookupOrganizers(ctx, organizerIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*eventapp.View, 0, len(docs))
	for _, doc := range docs {
		view, convErr := documentToView(doc)
		if convErr != nil {
			continue
		}

		view.Category.Name = categoryNames[doc.CategoryID]
		if ref, ok := organizers[doc.OrganizerID]; ok {
			view.Organizer = &ref
		}

		views = append(views, view)
	}

	return views, nil
}

func (r *MongoEventRepository) lookupCategoryNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	filter := bson.M{"category_id": bson.M{"$in": ids}}
	cursor, err := r.categories.Find(ctx, filter)
	if err != nil {
		return nil, HandleMongoError(err, "categories")
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc categoryDocument
		if decodeErr := cursor.Decode(&doc); decodeErr != nil {
			continue
		}
		names[doc.CategoryID] = doc.Name
	}
	if cursorErr := cursor.Err(); cursorErr != nil {
		return nil, HandleMongoError(cursorErr, "categories")
	}

	return names, nil
}

func (r *MongoEventRepository) lookupOrganizers(
	ctx context.Context,
	ids []string,
) (map[string]eventapp.OrganizerRef, error) {
	refs := make(map[string]eventapp.OrganizerRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	filter := bson.M{"user_id": bson.M{"$in": ids}}
	cursor, err := r.users.Find(ctx, filter)
	if err != nil {
		return nil, HandleMongoError(err, "users")
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc userDocument
		if decodeErr := cursor.Decode(&doc); decodeErr != nil {
			continue
		}
		id, parseErr := uuid.ParseUUID(doc.UserID)
		if parseErr != nil {
			continue
		}
		refs[doc.UserID] = eventapp.OrganizerRef{
			ID:        id,
			FirstName: doc.FirstName,
			LastName:  doc.LastName,
		}
	}
	if cursorErr := cursor.Err(); cursorErr != nil {
		return nil, HandleMongoError(cursorErr, "users")
	}

	return refs, nil
}

// eventDocument is the MongoDB shape of an event.
type eventDocument struct {
	EventID       string    `bson:"event_id"`
	Title         string    `bson:"title"`
	Description   string    `bson:"description,omitempty"`
	Location      string    `bson:"location,omitempty"`
	URL           string    `bson:"url,omitempty"`
	Price         string    `bson:"price,omitempty"`
	IsFree        bool      `bson:"is_free"`
	StartDateTime time.Time `bson:"start_date_time"`
	EndDateTime   time.Time `bson:"end_date_time"`
	ImageURL      string    `bson:"image_url,omitempty"`
	CategoryID    string    `bson:"category_id"`
	OrganizerID   string    `bson:"organizer_id"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func eventToDocument(e *eventdomain.Event) eventDocument {
	return eventDocument{
		EventID:       e.ID().String(),
		Title:         e.Title(),
		Description:   e.Description(),
		Location:      e.Location(),
		URL:           e.URL(),
		Price:         e.Price(),
		IsFree:        e.IsFree(),
		StartDateTime: e.StartDateTime(),
		EndDateTime:   e.EndDateTime(),
		ImageURL:      e.ImageURL(),
		CategoryID:    e.CategoryID().String(),
		OrganizerID:   e.OrganizerID().String(),
		CreatedAt:     e.CreatedAt(),
		UpdatedAt:     e.UpdatedAt(),
	}
}

func documentToEvent(doc *eventDocument) (*eventdomain.Event, error) {
	if doc == nil {
		return nil, errs.ErrInvalidInput
	}

	id, err := uuid.ParseUUID(doc.EventID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}
	categoryID, err := uuid.ParseUUID(doc.CategoryID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}
	organizerID, err := uuid.ParseUUID(doc.OrganizerID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}

	details := eventdomain.Details{
		Title:         doc.Title,
		Description:   doc.Description,
		Location:      doc.Location,
		URL:           doc.URL,
		Price:         doc.Price,
		IsFree:        doc.IsFree,
		StartDateTime: doc.StartDateTime,
		EndDateTime:   doc.EndDateTime,
		ImageURL:      doc.ImageURL,
		CategoryID:    categoryID,
	}

	return eventdomain.Reconstruct(id, details, organizerID, doc.CreatedAt, doc.UpdatedAt), nil
}

func documentToView(doc *eventDocument) (*eventapp.View, error) {
	id, err := uuid.ParseUUID(doc.EventID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}
	categoryID, err := uuid.ParseUUID(doc.CategoryID)
	if err != nil {
		return nil, errs.ErrInvalidInput
	}

	return &eventapp.View{
		ID:            id,
		Title:         doc.Title,
		Description:   doc.Description,
		Location:      doc.Location,
		URL:           doc.URL,
		Price:         doc.Price,
		IsFree:        doc.IsFree,
		StartDateTime: doc.StartDateTime,
		EndDateTime:   doc.EndDateTime,
		ImageURL:      doc.ImageURL,
		Category:      eventapp.CategoryRef{ID: categoryID},
		CreatedAt:     doc.CreatedAt,
	}, nil
}
