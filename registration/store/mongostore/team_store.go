// registration/store/mongostore/team_store.go
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

// TeamStore is the MongoDB data store for team registrations.
type TeamStore struct {
	collection *mongo.Collection
}

// NewTeamStore creates a new TeamStore instance.
func NewTeamStore(collection *mongo.Collection) *TeamStore {
	return &TeamStore{collection: collection}
}

// EnsureIndexes creates the unique index that enforces one team per owner.
func (ts *TeamStore) EnsureIndexes(ctx context.Context) error {
	_, err := ts.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "representative_user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create owner index on teams: %w", err)
	}
	return nil
}

// Create inserts a new team document.
func (ts *TeamStore) Create(ctx context.Context, team *models.Team) error {
	_, err := ts.collection.InsertOne(ctx, team)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create team %s: %w", team.ID, err)
	}
	return nil
}

// GetByID retrieves a team by its identifier.
func (ts *TeamStore) GetByID(ctx context.Context, id string) (*models.Team, error) {
	var team models.Team
	err := ts.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	return &team, nil
}

// GetByOwner retrieves the team owned by the given user.
func (ts *TeamStore) GetByOwner(ctx context.Context, userID string) (*models.Team, error) {
	var team models.Team
	err := ts.collection.FindOne(ctx, bson.M{"representative_user_id": userID}).Decode(&team)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team for user %s: %w", userID, err)
	}
	return &team, nil
}

// List retrieves all teams, newest registration first.
func (ts *TeamStore) List(ctx context.Context) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := ts.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find teams: %w", err)
	}
	defer cursor.Close(ctx)

	teams := []models.Team{}
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams: %w", err)
	}
	return teams, nil
}

// Count returns the total number of registered teams.
func (ts *TeamStore) Count(ctx context.Context) (int64, error) {
	count, err := ts.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}

// Update applies the patch to the team and returns the updated document.
func (ts *TeamStore) Update(ctx context.Context, id string, patch models.TeamPatch) (*models.Team, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	setString(set, "name", patch.Name)
	if patch.NumberOfPilots != nil {
		set["number_of_pilots"] = *patch.NumberOfPilots
	}
	setString(set, "representative_name", patch.RepresentativeName)
	setString(set, "representative_surname", patch.RepresentativeSurname)
	setString(set, "representative_dni", patch.RepresentativeDNI)
	setString(set, "representative_phone", patch.RepresentativePhone)
	setString(set, "representative_email", patch.RepresentativeEmail)
	setString(set, "address", patch.Address)
	setString(set, "municipality", patch.Municipality)
	setString(set, "postal_code", patch.PostalCode)
	setString(set, "province", patch.Province)
	setString(set, "motorcycle_brand", patch.MotorcycleBrand)
	setString(set, "motorcycle_model", patch.MotorcycleModel)
	if patch.EngineCapacity != nil {
		set["engine_capacity"] = *patch.EngineCapacity
	}
	setString(set, "registration_date", patch.RegistrationDate)
	setString(set, "modifications", patch.Modifications)
	setString(set, "comments", patch.Comments)
	if patch.GDPRConsent != nil {
		set["gdpr_consent"] = *patch.GDPRConsent
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var team models.Team
	err := ts.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&team)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update team %s: %w", id, err)
	}
	return &team, nil
}

// UpdateStatus sets the team's status unconditionally.
func (ts *TeamStore) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) (*models.Team, error) {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var team models.Team
	err := ts.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&team)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update status for team %s: %w", id, err)
	}
	return &team, nil
}

// TransitionStatus flips the status with a single conditional write: the
// update matches only while the team still has the `from` status, so a
// concurrent transition cannot clobber an admin decision.
func (ts *TeamStore) TransitionStatus(ctx context.Context, id string, from, to models.RegistrationStatus) error {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}}
	_, err := ts.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to transition team %s from %s to %s: %w", id, from, to, err)
	}
	return nil
}

// Delete removes the team document.
func (ts *TeamStore) Delete(ctx context.Context, id string) error {
	res, err := ts.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete team %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// setString adds a $set entry for a present string field.
func setString(set bson.M, key string, value *string) {
	if value != nil {
		set[key] = *value
	}
}
