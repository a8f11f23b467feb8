// registration/store/sqlstore/team_store.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/gripclub/registration-service/registration/store"
	"github.com/gripclub/registration-service/shared/models"
)

// teamColumns is the select list every team query shares.
const teamColumns = `id, representative_user_id, name, number_of_pilots,
	representative_name, representative_surname, representative_dni,
	representative_phone, representative_email,
	address, municipality, postal_code, province,
	motorcycle_brand, motorcycle_model, engine_capacity, registration_date,
	modifications, comments, gdpr_consent, gdpr_consent_date,
	status, created_at, updated_at`

// TeamStore is the SQLite data store for team registrations.
type TeamStore struct {
	db *sql.DB
}

// NewTeamStore creates a new TeamStore instance.
func NewTeamStore(db *sql.DB) *TeamStore {
	return &TeamStore{db: db}
}

// isConstraintErr reports whether err is a uniqueness violation.
func isConstraintErr(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// Create inserts a new team row.
func (ts *TeamStore) Create(ctx context.Context, team *models.Team) error {
	_, err := ts.db.ExecContext(ctx, `INSERT INTO teams (`+teamColumns+`) VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		team.ID, team.RepresentativeUserID, team.Name, team.NumberOfPilots,
		team.RepresentativeName, team.RepresentativeSurname, team.RepresentativeDNI,
		team.RepresentativePhone, team.RepresentativeEmail,
		team.Address, team.Municipality, team.PostalCode, team.Province,
		team.MotorcycleBrand, team.MotorcycleModel, string(team.EngineCapacity), team.RegistrationDate,
		team.Modifications, team.Comments, team.GDPRConsent, toNullMillis(team.GDPRConsentDate),
		string(team.Status), toMillis(team.CreatedAt), toMillis(team.UpdatedAt),
	)
	if err != nil {
		if isConstraintErr(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create team %s: %w", team.ID, err)
	}
	return nil
}

// scanTeam reads one team row.
func scanTeam(row interface{ Scan(...any) error }) (*models.Team, error) {
	var (
		team        models.Team
		consentDate sql.NullInt64
		createdAt   int64
		updatedAt   int64
	)
	err := row.Scan(
		&team.ID, &team.RepresentativeUserID, &team.Name, &team.NumberOfPilots,
		&team.RepresentativeName, &team.RepresentativeSurname, &team.RepresentativeDNI,
		&team.RepresentativePhone, &team.RepresentativeEmail,
		&team.Address, &team.Municipality, &team.PostalCode, &team.Province,
		&team.MotorcycleBrand, &team.MotorcycleModel, &team.EngineCapacity, &team.RegistrationDate,
		&team.Modifications, &team.Comments, &team.GDPRConsent, &consentDate,
		&team.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	team.GDPRConsentDate = fromNullMillis(consentDate)
	team.CreatedAt = fromMillis(createdAt)
	team.UpdatedAt = fromMillis(updatedAt)
	return &team, nil
}

// GetByID retrieves a team by its identifier.
func (ts *TeamStore) GetByID(ctx context.Context, id string) (*models.Team, error) {
	row := ts.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id)
	team, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	return team, nil
}

// GetByOwner retrieves the team owned by the given user.
func (ts *TeamStore) GetByOwner(ctx context.Context, userID string) (*models.Team, error) {
	row := ts.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE representative_user_id = ?`, userID)
	team, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team for user %s: %w", userID, err)
	}
	return team, nil
}

// List retrieves all teams, newest registration first.
func (ts *TeamStore) List(ctx context.Context) ([]models.Team, error) {
	rows, err := ts.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}
	return teams, nil
}

// Count returns the total number of registered teams.
func (ts *TeamStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := ts.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}

// Update applies the patch to the team and returns the updated row.
func (ts *TeamStore) Update(ctx context.Context, id string, patch models.TeamPatch) (*models.Team, error) {
	assignments := []string{"updated_at = ?"}
	args := []any{toMillis(time.Now())}

	appendString := func(column string, value *string) {
		if value != nil {
			assignments = append(assignments, column+" = ?")
			args = append(args, *value)
		}
	}
	appendString("name", patch.Name)
	if patch.NumberOfPilots != nil {
		assignments = append(assignments, "number_of_pilots = ?")
		args = append(args, *patch.NumberOfPilots)
	}
	appendString("representative_name", patch.RepresentativeName)
	appendString("representative_surname", patch.RepresentativeSurname)
	appendString("representative_dni", patch.RepresentativeDNI)
	appendString("representative_phone", patch.RepresentativePhone)
	appendString("representative_email", patch.RepresentativeEmail)
	appendString("address", patch.Address)
	appendString("municipality", patch.Municipality)
	appendString("postal_code", patch.PostalCode)
	appendString("province", patch.Province)
	appendString("motorcycle_brand", patch.MotorcycleBrand)
	appendString("motorcycle_model", patch.MotorcycleModel)
	if patch.EngineCapacity != nil {
		assignments = append(assignments, "engine_capacity = ?")
		args = append(args, string(*patch.EngineCapacity))
	}
	appendString("registration_date", patch.RegistrationDate)
	appendString("modifications", patch.Modifications)
	appendString("comments", patch.Comments)
	if patch.GDPRConsent != nil {
		assignments = append(assignments, "gdpr_consent = ?")
		args = append(args, *patch.GDPRConsent)
	}

	args = append(args, id)
	query := `UPDATE teams SET ` + strings.Join(assignments, ", ") + ` WHERE id = ?`
	res, err := ts.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update team %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result for team %s: %w", id, err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return ts.GetByID(ctx, id)
}

// UpdateStatus sets the team's status unconditionally.
func (ts *TeamStore) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) (*models.Team, error) {
	res, err := ts.db.ExecContext(ctx, `UPDATE teams SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), toMillis(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update status for team %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read status update result for team %s: %w", id, err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return ts.GetByID(ctx, id)
}

// TransitionStatus flips the status with a single conditional write.
func (ts *TeamStore) TransitionStatus(ctx context.Context, id string, from, to models.RegistrationStatus) error {
	_, err := ts.db.ExecContext(ctx, `UPDATE teams SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(to), toMillis(time.Now()), id, string(from))
	if err != nil {
		return fmt.Errorf("failed to transition team %s from %s to %s: %w", id, from, to, err)
	}
	return nil
}

// Delete removes the team row.
func (ts *TeamStore) Delete(ctx context.Context, id string) error {
	res, err := ts.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result for team %s: %w", id, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
