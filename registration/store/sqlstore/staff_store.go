// registration/store/sqlstore/staff_store.go
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

const staffColumns = `id, team_id, name, dni, phone, role, created_at, updated_at`

// StaffStore is the SQLite data store for staff roster entries.
type StaffStore struct {
	db *sql.DB
}

// NewStaffStore creates a new StaffStore instance.
func NewStaffStore(db *sql.DB) *StaffStore {
	return &StaffStore{db: db}
}

// Create inserts a new staff row.
func (ss *StaffStore) Create(ctx context.Context, staff *models.StaffMember) error {
	_, err := ss.db.ExecContext(ctx, `INSERT INTO staff (`+staffColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		staff.ID, staff.TeamID, staff.Name, staff.DNI, staff.Phone, string(staff.Role),
		toMillis(staff.CreatedAt), toMillis(staff.UpdatedAt),
	)
	if err != nil {
		if isConstraintErr(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create staff member %s: %w", staff.ID, err)
	}
	return nil
}

func scanStaff(row interface{ Scan(...any) error }) (*models.StaffMember, error) {
	var (
		staff     models.StaffMember
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&staff.ID, &staff.TeamID, &staff.Name, &staff.DNI, &staff.Phone, &staff.Role,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	staff.CreatedAt = fromMillis(createdAt)
	staff.UpdatedAt = fromMillis(updatedAt)
	return &staff, nil
}

// Get retrieves a staff member, scoped to its team.
func (ss *StaffStore) Get(ctx context.Context, teamID, id string) (*models.StaffMember, error) {
	row := ss.db.QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = ? AND team_id = ?`, id, teamID)
	staff, err := scanStaff(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get staff member %s: %w", id, err)
	}
	return staff, nil
}

// ListByTeam retrieves the team's staff in creation order.
func (ss *StaffStore) ListByTeam(ctx context.Context, teamID string) ([]models.StaffMember, error) {
	rows, err := ss.db.QueryContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE team_id = ? ORDER BY created_at, id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff for team %s: %w", teamID, err)
	}
	defer rows.Close()

	staff := []models.StaffMember{}
	for rows.Next() {
		member, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		staff = append(staff, *member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff: %w", err)
	}
	return staff, nil
}

// CountByTeam returns the number of staff members on the team.
func (ss *StaffStore) CountByTeam(ctx context.Context, teamID string) (int64, error) {
	var count int64
	if err := ss.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff WHERE team_id = ?`, teamID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count staff for team %s: %w", teamID, err)
	}
	return count, nil
}

// DNIExists reports whether another staff member on the team carries the national ID.
func (ss *StaffStore) DNIExists(ctx context.Context, teamID, dni, excludeID string) (bool, error) {
	var count int64
	err := ss.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM staff WHERE team_id = ? AND dni = ? AND id != ?`,
		teamID, dni, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check staff dni for team %s: %w", teamID, err)
	}
	return count > 0, nil
}

// Update applies the patch to the staff member and returns the updated row.
func (ss *StaffStore) Update(ctx context.Context, teamID, id string, patch models.StaffPatch) (*models.StaffMember, error) {
	assignments := []string{"updated_at = ?"}
	args := []any{toMillis(time.Now())}

	if patch.Name != nil {
		assignments = append(assignments, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.DNI != nil {
		assignments = append(assignments, "dni = ?")
		args = append(args, *patch.DNI)
	}
	if patch.Phone != nil {
		assignments = append(assignments, "phone = ?")
		args = append(args, *patch.Phone)
	}
	if patch.Role != nil {
		assignments = append(assignments, "role = ?")
		args = append(args, string(*patch.Role))
	}

	args = append(args, id, teamID)
	query := `UPDATE staff SET ` + strings.Join(assignments, ", ") + ` WHERE id = ? AND team_id = ?`
	res, err := ss.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update staff member %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result for staff member %s: %w", id, err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return ss.Get(ctx, teamID, id)
}

// Delete removes a staff member, scoped to its team.
func (ss *StaffStore) Delete(ctx context.Context, teamID, id string) error {
	res, err := ss.db.ExecContext(ctx, `DELETE FROM staff WHERE id = ? AND team_id = ?`, id, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete staff member %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result for staff member %s: %w", id, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteByTeam removes every staff member belonging to the team.
func (ss *StaffStore) DeleteByTeam(ctx context.Context, teamID string) error {
	if _, err := ss.db.ExecContext(ctx, `DELETE FROM staff WHERE team_id = ?`, teamID); err != nil {
		return fmt.Errorf("failed to delete staff for team %s: %w", teamID, err)
	}
	return nil
}
