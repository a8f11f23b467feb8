// registration/store/mongostore/staff_store.go
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

// StaffStore is the MongoDB data store for staff roster entries.
type StaffStore struct {
	collection *mongo.Collection
}

// NewStaffStore creates a new StaffStore instance.
func NewStaffStore(collection *mongo.Collection) *StaffStore {
	return &StaffStore{collection: collection}
}

// Create inserts a new staff document.
func (ss *StaffStore) Create(ctx context.Context, staff *models.StaffMember) error {
	_, err := ss.collection.InsertOne(ctx, staff)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create staff member %s: %w", staff.ID, err)
	}
	return nil
}

// Get retrieves a staff member, scoped to its team.
func (ss *StaffStore) Get(ctx context.Context, teamID, id string) (*models.StaffMember, error) {
	var staff models.StaffMember
	err := ss.collection.FindOne(ctx, bson.M{"_id": id, "team_id": teamID}).Decode(&staff)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get staff member %s: %w", id, err)
	}
	return &staff, nil
}

// ListByTeam retrieves the team's staff in creation order.
func (ss *StaffStore) ListByTeam(ctx context.Context, teamID string) ([]models.StaffMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := ss.collection.Find(ctx, bson.M{"team_id": teamID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find staff for team %s: %w", teamID, err)
	}
	defer cursor.Close(ctx)

	staff := []models.StaffMember{}
	if err := cursor.All(ctx, &staff); err != nil {
		return nil, fmt.Errorf("failed to decode staff for team %s: %w", teamID, err)
	}
	return staff, nil
}

// CountByTeam returns the number of staff members on the team.
func (ss *StaffStore) CountByTeam(ctx context.Context, teamID string) (int64, error) {
	count, err := ss.collection.CountDocuments(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, fmt.Errorf("failed to count staff for team %s: %w", teamID, err)
	}
	return count, nil
}

// DNIExists reports whether another staff member on the team carries the national ID.
func (ss *StaffStore) DNIExists(ctx context.Context, teamID, dni, excludeID string) (bool, error) {
	filter := bson.M{"team_id": teamID, "dni": dni}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := ss.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check staff dni for team %s: %w", teamID, err)
	}
	return count > 0, nil
}

// Update applies the patch to the staff member and returns the updated document.
func (ss *StaffStore) Update(ctx context.Context, teamID, id string, patch models.StaffPatch) (*models.StaffMember, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	setString(set, "name", patch.Name)
	setString(set, "dni", patch.DNI)
	setString(set, "phone", patch.Phone)
	if patch.Role != nil {
		set["role"] = *patch.Role
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var staff models.StaffMember
	err := ss.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "team_id": teamID}, bson.M{"$set": set}, opts).Decode(&staff)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update staff member %s: %w", id, err)
	}
	return &staff, nil
}

// Delete removes a staff member, scoped to its team.
func (ss *StaffStore) Delete(ctx context.Context, teamID, id string) error {
	res, err := ss.collection.DeleteOne(ctx, bson.M{"_id": id, "team_id": teamID})
	if err != nil {
		return fmt.Errorf("failed to delete staff member %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteByTeam removes every staff member belonging to the team.
func (ss *StaffStore) DeleteByTeam(ctx context.Context, teamID string) error {
	_, err := ss.collection.DeleteMany(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return fmt.Errorf("failed to delete staff for team %s: %w", teamID, err)
	}
	return nil
}
