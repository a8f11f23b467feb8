// shared/config/config.go
package config

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// Backend selects which datastore adapter the service runs against.
type Backend string

const (
	BackendMongo  Backend = "mongo"
	BackendSQLite Backend = "sqlite"
)

// RegistrationServiceConfig holds configuration for the registration service.
type RegistrationServiceConfig struct {
	ListenAddr string  // Address for the HTTP server (e.g., ":8080")
	Backend    Backend // Datastore adapter: "mongo" or "sqlite"

	MongoDBConnStr            string // MongoDB connection string
	MongoDBDatabase           string // MongoDB database name
	MongoDBTeamsCollection    string
	MongoDBPilotsCollection   string
	MongoDBStaffCollection    string
	MongoDBSettingsCollection string

	SQLitePath string // Path to the SQLite database file

	IdentityPublicKey ed25519.PublicKey // Verifies bearer tokens from the identity provider
	AdminEmails       []string          // Allow-list of administrator email addresses
}

// LoadRegistrationServiceConfig loads configuration for the registration
// service from environment variables.
func LoadRegistrationServiceConfig() (*RegistrationServiceConfig, error) {
	cfg := &RegistrationServiceConfig{
		ListenAddr:                os.Getenv("REGISTRATION_LISTEN_ADDR"),
		Backend:                   Backend(os.Getenv("REGISTRATION_BACKEND")),
		MongoDBConnStr:            os.Getenv("MONGODB_CONN_STR"),
		MongoDBDatabase:           os.Getenv("MONGODB_DATABASE"),
		MongoDBTeamsCollection:    os.Getenv("MONGODB_TEAMS_COLLECTION"),
		MongoDBPilotsCollection:   os.Getenv("MONGODB_PILOTS_COLLECTION"),
		MongoDBStaffCollection:    os.Getenv("MONGODB_STAFF_COLLECTION"),
		MongoDBSettingsCollection: os.Getenv("MONGODB_SETTINGS_COLLECTION"),
		SQLitePath:                os.Getenv("SQLITE_PATH"),
	}

	// Apply defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendMongo
	}
	if cfg.Backend != BackendMongo && cfg.Backend != BackendSQLite {
		return nil, fmt.Errorf("REGISTRATION_BACKEND must be %q or %q (got %q)", BackendMongo, BackendSQLite, cfg.Backend)
	}
	if cfg.MongoDBConnStr == "" {
		cfg.MongoDBConnStr = "mongodb://mongodb-service:27017"
	}
	if cfg.MongoDBDatabase == "" {
		cfg.MongoDBDatabase = "gripclub"
	}
	if cfg.MongoDBTeamsCollection == "" {
		cfg.MongoDBTeamsCollection = "teams"
	}
	if cfg.MongoDBPilotsCollection == "" {
		cfg.MongoDBPilotsCollection = "pilots"
	}
	if cfg.MongoDBStaffCollection == "" {
		cfg.MongoDBStaffCollection = "staff"
	}
	if cfg.MongoDBSettingsCollection == "" {
		cfg.MongoDBSettingsCollection = "settings"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "registration.db"
	}

	// The identity provider's public key is required: every protected
	// endpoint verifies token signatures against it.
	keyStr := os.Getenv("IDENTITY_PUBLIC_KEY")
	if keyStr == "" {
		return nil, fmt.Errorf("IDENTITY_PUBLIC_KEY is required")
	}
	key, err := decodeEd25519PublicKey(keyStr)
	if err != nil {
		return nil, fmt.Errorf("invalid IDENTITY_PUBLIC_KEY: %w", err)
	}
	cfg.IdentityPublicKey = key

	cfg.AdminEmails = splitList(os.Getenv("ADMIN_EMAILS"))

	return cfg, nil
}

// decodeEd25519PublicKey parses a base64-encoded Ed25519 public key.
func decodeEd25519PublicKey(value string) (ed25519.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("expected %d key bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// splitList splits a comma-separated environment value into trimmed entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
