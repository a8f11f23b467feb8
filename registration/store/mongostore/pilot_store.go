// registration/store/mongostore/pilot_store.go
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

// PilotStore is the MongoDB data store for pilot roster entries.
type PilotStore struct {
	collection *mongo.Collection
}

// NewPilotStore creates a new PilotStore instance.
func NewPilotStore(collection *mongo.Collection) *PilotStore {
	return &PilotStore{collection: collection}
}

// Create inserts a new pilot document.
func (ps *PilotStore) Create(ctx context.Context, pilot *models.Pilot) error {
	_, err := ps.collection.InsertOne(ctx, pilot)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create pilot %s: %w", pilot.ID, err)
	}
	return nil
}

// Get retrieves a pilot, scoped to its team.
func (ps *PilotStore) Get(ctx context.Context, teamID, id string) (*models.Pilot, error) {
	var pilot models.Pilot
	err := ps.collection.FindOne(ctx, bson.M{"_id": id, "team_id": teamID}).Decode(&pilot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pilot %s: %w", id, err)
	}
	return &pilot, nil
}

// ListByTeam retrieves the team's pilots in creation order.
func (ps *PilotStore) ListByTeam(ctx context.Context, teamID string) ([]models.Pilot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := ps.collection.Find(ctx, bson.M{"team_id": teamID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find pilots for team %s: %w", teamID, err)
	}
	defer cursor.Close(ctx)

	pilots := []models.Pilot{}
	if err := cursor.All(ctx, &pilots); err != nil {
		return nil, fmt.Errorf("failed to decode pilots for team %s: %w", teamID, err)
	}
	return pilots, nil
}

// CountByTeam returns the number of pilots on the team.
func (ps *PilotStore) CountByTeam(ctx context.Context, teamID string) (int64, error) {
	count, err := ps.collection.CountDocuments(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, fmt.Errorf("failed to count pilots for team %s: %w", teamID, err)
	}
	return count, nil
}

// DNIExists reports whether another pilot on the team carries the national ID.
func (ps *PilotStore) DNIExists(ctx context.Context, teamID, dni, excludeID string) (bool, error) {
	filter := bson.M{"team_id": teamID, "dni": dni}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := ps.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check pilot dni for team %s: %w", teamID, err)
	}
	return count > 0, nil
}

// Update applies the patch to the pilot and returns the updated document.
func (ps *PilotStore) Update(ctx context.Context, teamID, id string, patch models.PilotPatch) (*models.Pilot, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	setString(set, "name", patch.Name)
	setString(set, "surname", patch.Surname)
	setString(set, "dni", patch.DNI)
	setString(set, "email", patch.Email)
	setString(set, "phone", patch.Phone)
	setString(set, "emergency_contact_name", patch.EmergencyContactName)
	setString(set, "emergency_contact_phone", patch.EmergencyContactPhone)
	if patch.DrivingLevel != nil {
		set["driving_level"] = *patch.DrivingLevel
	}
	setString(set, "track_experience", patch.TrackExperience)
	if patch.IsRepresentative != nil {
		set["is_representative"] = *patch.IsRepresentative
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var pilot models.Pilot
	err := ps.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "team_id": teamID}, bson.M{"$set": set}, opts).Decode(&pilot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update pilot %s: %w", id, err)
	}
	return &pilot, nil
}

// Delete removes a pilot, scoped to its team.
func (ps *PilotStore) Delete(ctx context.Context, teamID, id string) error {
	res, err := ps.collection.DeleteOne(ctx, bson.M{"_id": id, "team_id": teamID})
	if err != nil {
		return fmt.Errorf("failed to delete pilot %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteByTeam removes every pilot belonging to the team.
func (ps *PilotStore) DeleteByTeam(ctx context.Context, teamID string) error {
	_, err := ps.collection.DeleteMany(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return fmt.Errorf("failed to delete pilots for team %s: %w", teamID, err)
	}
	return nil
}
