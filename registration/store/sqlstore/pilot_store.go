// registration/store/sqlstore/pilot_store.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gripclub/registration-service/registration/store"
	"github.com/gripclub/registration-service/shared/models"
)

const pilotColumns = `id, team_id, name, surname, dni, email, phone,
	emergency_contact_name, emergency_contact_phone,
	driving_level, track_experience, is_representative,
	created_at, updated_at`

// PilotStore is the SQLite data store for pilot roster entries.
type PilotStore struct {
	db *sql.DB
}

// NewPilotStore creates a new PilotStore instance.
func NewPilotStore(db *sql.DB) *PilotStore {
	return &PilotStore{db: db}
}

// Create inserts a new pilot row.
func (ps *PilotStore) Create(ctx context.Context, pilot *models.Pilot) error {
	_, err := ps.db.ExecContext(ctx, `INSERT INTO pilots (`+pilotColumns+`) VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pilot.ID, pilot.TeamID, pilot.Name, pilot.Surname, pilot.DNI, pilot.Email, pilot.Phone,
		pilot.EmergencyContactName, pilot.EmergencyContactPhone,
		string(pilot.DrivingLevel), pilot.TrackExperience, pilot.IsRepresentative,
		toMillis(pilot.CreatedAt), toMillis(pilot.UpdatedAt),
	)
	if err != nil {
		if isConstraintErr(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create pilot %s: %w", pilot.ID, err)
	}
	return nil
}

func scanPilot(row interface{ Scan(...any) error }) (*models.Pilot, error) {
	var (
		pilot     models.Pilot
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(
		&pilot.ID, &pilot.TeamID, &pilot.Name, &pilot.Surname, &pilot.DNI, &pilot.Email, &pilot.Phone,
		&pilot.EmergencyContactName, &pilot.EmergencyContactPhone,
		&pilot.DrivingLevel, &pilot.TrackExperience, &pilot.IsRepresentative,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	pilot.CreatedAt = fromMillis(createdAt)
	pilot.UpdatedAt = fromMillis(updatedAt)
	return &pilot, nil
}

// Get retrieves a pilot, scoped to its team.
func (ps *PilotStore) Get(ctx context.Context, teamID, id string) (*models.Pilot, error) {
	row := ps.db.QueryRowContext(ctx, `SELECT `+pilotColumns+` FROM pilots WHERE id = ? AND team_id = ?`, id, teamID)
	pilot, err := scanPilot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pilot %s: %w", id, err)
	}
	return pilot, nil
}

// ListByTeam retrieves the team's pilots in creation order.
func (ps *PilotStore) ListByTeam(ctx context.Context, teamID string) ([]models.Pilot, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT `+pilotColumns+` FROM pilots WHERE team_id = ? ORDER BY created_at, id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pilots for team %s: %w", teamID, err)
	}
	defer rows.Close()

	pilots := []models.Pilot{}
	for rows.Next() {
		pilot, err := scanPilot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pilot: %w", err)
		}
		pilots = append(pilots, *pilot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pilots: %w", err)
	}
	return pilots, nil
}

// CountByTeam returns the number of pilots on the team.
func (ps *PilotStore) CountByTeam(ctx context.Context, teamID string) (int64, error) {
	var count int64
	if err := ps.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pilots WHERE team_id = ?`, teamID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pilots for team %s: %w", teamID, err)
	}
	return count, nil
}

// DNIExists reports whether another pilot on the team carries the national ID.
func (ps *PilotStore) DNIExists(ctx context.Context, teamID, dni, excludeID string) (bool, error) {
	var count int64
	err := ps.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pilots WHERE team_id = ? AND dni = ? AND id != ?`,
		teamID, dni, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check pilot dni for team %s: %w", teamID, err)
	}
	return count > 0, nil
}

// Update applies the patch to the pilot and returns the updated row.
func (ps *PilotStore) Update(ctx context.Context, teamID, id string, patch models.PilotPatch) (*models.Pilot, error) {
	assignments := []string{"updated_at = ?"}
	args := []any{toMillis(time.Now())}

	appendString := func(column string, value *string) {
		if value != nil {
			assignments = append(assignments, column+" = ?")
			args = append(args, *value)
		}
	}
	appendString("name", patch.Name)
	appendString("surname", patch.Surname)
	appendString("dni", patch.DNI)
	appendString("email", patch.Email)
	appendString("phone", patch.Phone)
	appendString("emergency_contact_name", patch.EmergencyContactName)
	appendString("emergency_contact_phone", patch.EmergencyContactPhone)
	if patch.DrivingLevel != nil {
		assignments = append(assignments, "driving_level = ?")
		args = append(args, string(*patch.DrivingLevel))
	}
	appendString("track_experience", patch.TrackExperience)
	if patch.IsRepresentative != nil {
		assignments = append(assignments, "is_representative = ?")
		args = append(args, *patch.IsRepresentative)
	}

	args = append(args, id, teamID)
	query := `UPDATE pilots SET ` + strings.Join(assignments, ", ") + ` WHERE id = ? AND team_id = ?`
	res, err := ps.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isConstraintErr(err) {
			return nil, store.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update pilot %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result for pilot %s: %w", id, err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return ps.Get(ctx, teamID, id)
}

// Delete removes a pilot, scoped to its team.
func (ps *PilotStore) Delete(ctx context.Context, teamID, id string) error {
	res, err := ps.db.ExecContext(ctx, `DELETE FROM pilots WHERE id = ? AND team_id = ?`, id, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete pilot %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result for pilot %s: %w", id, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteByTeam removes every pilot belonging to the team.
func (ps *PilotStore) DeleteByTeam(ctx context.Context, teamID string) error {
	if _, err := ps.db.ExecContext(ctx, `DELETE FROM pilots WHERE team_id = ?`, teamID); err != nil {
		return fmt.Errorf("failed to delete pilots for team %s: %w", teamID, err)
	}
	return nil
}
