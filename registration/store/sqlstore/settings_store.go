// registration/store/sqlstore/settings_store.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gripclub/registration-service/registration/store"
	"github.com/gripclub/registration-service/shared/models"
)

// SettingsStore is the SQLite data store for the singleton registration
// settings row.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore creates a new SettingsStore instance.
func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get retrieves the settings row.
func (ss *SettingsStore) Get(ctx context.Context) (*models.RegistrationSettings, error) {
	row := ss.db.QueryRowContext(ctx, `SELECT id, registration_open, registration_deadline,
		pilot_modification_deadline, max_teams, event_date, event_location, updated_at
		FROM registration_settings WHERE id = ?`, models.SettingsID)

	var (
		settings      models.RegistrationSettings
		regDeadline   sql.NullInt64
		pilotDeadline sql.NullInt64
		eventDate     sql.NullInt64
		updatedAt     int64
	)
	err := row.Scan(&settings.ID, &settings.RegistrationOpen, &regDeadline,
		&pilotDeadline, &settings.MaxTeams, &eventDate, &settings.EventLocation, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get registration settings: %w", err)
	}
	settings.RegistrationDeadline = fromNullMillis(regDeadline)
	settings.PilotModificationDeadline = fromNullMillis(pilotDeadline)
	settings.EventDate = fromNullMillis(eventDate)
	settings.UpdatedAt = fromMillis(updatedAt)
	return &settings, nil
}

// Upsert applies the patch, creating the row with defaults merged in on
// first write.
func (ss *SettingsStore) Upsert(ctx context.Context, patch models.SettingsPatch) (*models.RegistrationSettings, error) {
	current, err := ss.Get(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		defaults := models.DefaultSettings()
		current = &defaults
	}

	if patch.RegistrationOpen != nil {
		current.RegistrationOpen = *patch.RegistrationOpen
	}
	if patch.RegistrationDeadline != nil {
		current.RegistrationDeadline = patch.RegistrationDeadline
	}
	if patch.PilotModificationDeadline != nil {
		current.PilotModificationDeadline = patch.PilotModificationDeadline
	}
	if patch.MaxTeams != nil {
		current.MaxTeams = *patch.MaxTeams
	}
	if patch.EventDate != nil {
		current.EventDate = patch.EventDate
	}
	if patch.EventLocation != nil {
		current.EventLocation = *patch.EventLocation
	}
	current.UpdatedAt = time.Now().UTC()

	_, err = ss.db.ExecContext(ctx, `INSERT INTO registration_settings
		(id, registration_open, registration_deadline, pilot_modification_deadline,
		 max_teams, event_date, event_location, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			registration_open = excluded.registration_open,
			registration_deadline = excluded.registration_deadline,
			pilot_modification_deadline = excluded.pilot_modification_deadline,
			max_teams = excluded.max_teams,
			event_date = excluded.event_date,
			event_location = excluded.event_location,
			updated_at = excluded.updated_at`,
		current.ID, current.RegistrationOpen,
		toNullMillis(current.RegistrationDeadline), toNullMillis(current.PilotModificationDeadline),
		current.MaxTeams, toNullMillis(current.EventDate), current.EventLocation,
		toMillis(current.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert registration settings: %w", err)
	}
	return ss.Get(ctx)
}
