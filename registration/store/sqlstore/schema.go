// registration/store/sqlstore/schema.go
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// schema is applied at startup. Timestamps are stored as Unix milliseconds.
const schema = `
CREATE TABLE IF NOT EXISTS teams (
	id                     TEXT PRIMARY KEY,
	representative_user_id TEXT NOT NULL UNIQUE,
	name                   TEXT NOT NULL,
	number_of_pilots       INTEGER NOT NULL,
	representative_name    TEXT NOT NULL DEFAULT '',
	representative_surname TEXT NOT NULL DEFAULT '',
	representative_dni     TEXT NOT NULL DEFAULT '',
	representative_phone   TEXT NOT NULL DEFAULT '',
	representative_email   TEXT NOT NULL DEFAULT '',
	address                TEXT NOT NULL DEFAULT '',
	municipality           TEXT NOT NULL DEFAULT '',
	postal_code            TEXT NOT NULL DEFAULT '',
	province               TEXT NOT NULL DEFAULT '',
	motorcycle_brand       TEXT NOT NULL DEFAULT '',
	motorcycle_model       TEXT NOT NULL DEFAULT '',
	engine_capacity        TEXT NOT NULL DEFAULT '125cc_4t',
	registration_date      TEXT NOT NULL DEFAULT '',
	modifications          TEXT NOT NULL DEFAULT '',
	comments               TEXT NOT NULL DEFAULT '',
	gdpr_consent           INTEGER NOT NULL DEFAULT 0,
	gdpr_consent_date      INTEGER,
	status                 TEXT NOT NULL DEFAULT 'draft',
	created_at             INTEGER NOT NULL,
	updated_at             INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pilots (
	id                      TEXT PRIMARY KEY,
	team_id                 TEXT NOT NULL REFERENCES teams(id),
	name                    TEXT NOT NULL,
	surname                 TEXT NOT NULL,
	dni                     TEXT NOT NULL,
	email                   TEXT NOT NULL,
	phone                   TEXT NOT NULL,
	emergency_contact_name  TEXT NOT NULL,
	emergency_contact_phone TEXT NOT NULL,
	driving_level           TEXT NOT NULL DEFAULT 'amateur',
	track_experience        TEXT NOT NULL DEFAULT '',
	is_representative       INTEGER NOT NULL DEFAULT 0,
	created_at              INTEGER NOT NULL,
	updated_at              INTEGER NOT NULL,
	UNIQUE (team_id, dni)
);

CREATE TABLE IF NOT EXISTS staff (
	id         TEXT PRIMARY KEY,
	team_id    TEXT NOT NULL REFERENCES teams(id),
	name       TEXT NOT NULL,
	dni        TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS registration_settings (
	id                          TEXT PRIMARY KEY,
	registration_open           INTEGER NOT NULL DEFAULT 1,
	registration_deadline       INTEGER,
	pilot_modification_deadline INTEGER,
	max_teams                   INTEGER NOT NULL DEFAULT 35,
	event_date                  INTEGER,
	event_location              TEXT NOT NULL DEFAULT '',
	updated_at                  INTEGER NOT NULL
);
`

// Init applies the schema to the database.
func Init(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func toNullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func fromNullMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
}
