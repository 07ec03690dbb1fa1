// Package mongodb provides MongoDB infrastructure components including
// index management.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names as constants for consistency.
const (
	CollectionEvents     = "events"
	CollectionCategories = "categories"
	CollectionUsers      = "users"
)

// IndexDefinition describes a MongoDB index to be created.
type IndexDefinition struct {
	Collection string
	Keys       bson.D
	Options    *options.IndexOptionsBuilder
}

// EnsureIndexes creates all necessary indexes for the application.
// This function is idempotent - calling it multiple times is safe.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, idx := range GetAllIndexDefinitions() {
		coll := db.Collection(idx.Collection)
		model := mongo.IndexModel{
			Keys:    idx.Keys,
			Options: idx.Options,
		}

		if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on collection %s: %w", idx.Collection, err)
		}
	}

	return nil
}

// GetAllIndexDefinitions returns all index definitions for all collections.
func GetAllIndexDefinitions() []IndexDefinition {
	var indexes []IndexDefinition

	indexes = append(indexes, GetEventIndexes()...)
	indexes = append(indexes, GetCategoryIndexes()...)
	indexes = append(indexes, GetUserIndexes()...)

	return indexes
}

// GetEventIndexes returns index definitions for the events collection.
func GetEventIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			// Primary key - unique event ID
			Collection: CollectionEvents,
			Keys:       bson.D{{Key: "event_id", Value: 1}},
			Options:    options.Index().SetUnique(true).SetName("idx_events_id_unique"),
		},
		{
			// Category listing and related-events queries, newest first
			Collection: CollectionEvents,
			Keys:       bson.D{{Key: "category_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options:    options.Index().SetName("idx_events_category_time"),
		},
		{
			// Organizer listing, newest first
			Collection: CollectionEvents,
			Keys:       bson.D{{Key: "organizer_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options:    options.Index().SetName("idx_events_organizer_time"),
		},
		{
			// Unfiltered listing sort
			Collection: CollectionEvents,
			Keys:       bson.D{{Key: "created_at", Value: -1}},
			Options:    options.Index().SetName("idx_events_created_at"),
		},
	}
}

// GetCategoryIndexes returns index definitions for the categories collection.
func GetCategoryIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			// Primary key - unique category ID
			Collection: CollectionCategories,
			Keys:       bson.D{{Key: "category_id", Value: 1}},
			Options:    options.Index().SetUnique(true).SetName("idx_categories_id_unique"),
		},
		{
			// Unique names; also backs the name-ascending lookup order
			Collection: CollectionCategories,
			Keys:       bson.D{{Key: "name", Value: 1}},
			Options:    options.Index().SetUnique(true).SetName("idx_categories_name_unique"),
		},
	}
}

// GetUserIndexes returns index definitions for the users collection.
func GetUserIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			// Primary key - unique user ID
			Collection: CollectionUsers,
			Keys:       bson.D{{Key: "user_id", Value: 1}},
			Options:    options.Index().SetUnique(true).SetName("idx_users_id_unique"),
		},
		{
			// The find-or-create upsert races on this key; uniqueness makes
			// concurrent first requests converge on one record.
			Collection: CollectionUsers,
			Keys:       bson.D{{Key: "external_id", Value: 1}},
			Options:    options.Index().SetUnique(true).SetName("idx_users_external_unique"),
		},
	}
}
