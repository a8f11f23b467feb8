// registration/store/mongostore/settings_store.go
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gripclub/registration-service/registration/store"
	"github.com/gripclub/registration-service/shared/models"
)

// SettingsStore is the MongoDB data store for the singleton registration
// settings document.
type SettingsStore struct {
	collection *mongo.Collection
}

// NewSettingsStore creates a new SettingsStore instance.
func NewSettingsStore(collection *mongo.Collection) *SettingsStore {
	return &SettingsStore{collection: collection}
}

// Get retrieves the settings document.
func (ss *SettingsStore) Get(ctx context.Context) (*models.RegistrationSettings, error) {
	var settings models.RegistrationSettings
	err := ss.collection.FindOne(ctx, bson.M{"_id": models.SettingsID}).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get registration settings: %w", err)
	}
	return &settings, nil
}

// Upsert applies the patch, creating the document with defaults merged in
// on first write.
func (ss *SettingsStore) Upsert(ctx context.Context, patch models.SettingsPatch) (*models.RegistrationSettings, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.RegistrationOpen != nil {
		set["registration_open"] = *patch.RegistrationOpen
	}
	if patch.RegistrationDeadline != nil {
		set["registration_deadline"] = *patch.RegistrationDeadline
	}
	if patch.PilotModificationDeadline != nil {
		set["pilot_modification_deadline"] = *patch.PilotModificationDeadline
	}
	if patch.MaxTeams != nil {
		set["max_teams"] = *patch.MaxTeams
	}
	if patch.EventDate != nil {
		set["event_date"] = *patch.EventDate
	}
	if patch.EventLocation != nil {
		set["event_location"] = *patch.EventLocation
	}

	// Defaults are only applied on first write, and only for fields the
	// patch does not set ($set and $setOnInsert may not share keys).
	setOnInsert := bson.M{}
	defaults := models.DefaultSettings()
	if _, ok := set["registration_open"]; !ok {
		setOnInsert["registration_open"] = defaults.RegistrationOpen
	}
	if _, ok := set["max_teams"]; !ok {
		setOnInsert["max_teams"] = defaults.MaxTeams
	}

	update := bson.M{"$set": set}
	if len(setOnInsert) > 0 {
		update["$setOnInsert"] = setOnInsert
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var settings models.RegistrationSettings
	err := ss.collection.FindOneAndUpdate(ctx, bson.M{"_id": models.SettingsID}, update, opts).Decode(&settings)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert registration settings: %w", err)
	}
	return &settings, nil
}
