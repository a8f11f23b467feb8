// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	registrationapi "github.com/gripclub/registration-service/registration/api"
	"github.com/gripclub/registration-service/registration/service"
	"github.com/gripclub/registration-service/registration/store"
	"github.com/gripclub/registration-service/registration/store/mongostore"
	"github.com/gripclub/registration-service/registration/store/sqlstore"
	"github.com/gripclub/registration-service/shared/api"
	"github.com/gripclub/registration-service/shared/auth"
	"github.com/gripclub/registration-service/shared/config"
	mongodbu "github.com/gripclub/registration-service/shared/mongodb"
	"github.com/gripclub/registration-service/shared/sqlitedb"
)

func main() {
	// --- 1. Load Configuration ---
	_ = godotenv.Load()
	cfg, err := config.LoadRegistrationServiceConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- 2. Token Verification ---
	verifier := auth.NewVerifier(cfg.IdentityPublicKey, cfg.AdminEmails)

	// --- 3. Initialize Data Stores (backend selected by configuration) ---
	var stores store.Stores
	switch cfg.Backend {
	case config.BackendMongo:
		mongoClient, err := mongodbu.NewClient(cfg.MongoDBConnStr, cfg.MongoDBDatabase)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Fatalf("Failed to disconnect from MongoDB: %v", err)
			}
			log.Println("Disconnected from MongoDB.")
		}()

		teamStore := mongostore.NewTeamStore(mongoClient.Collection(cfg.MongoDBTeamsCollection))
		if err := teamStore.EnsureIndexes(context.Background()); err != nil {
			log.Fatalf("Failed to create MongoDB indexes: %v", err)
		}
		stores = store.Stores{
			Teams:    teamStore,
			Pilots:   mongostore.NewPilotStore(mongoClient.Collection(cfg.MongoDBPilotsCollection)),
			Staff:    mongostore.NewStaffStore(mongoClient.Collection(cfg.MongoDBStaffCollection)),
			Settings: mongostore.NewSettingsStore(mongoClient.Collection(cfg.MongoDBSettingsCollection)),
		}

	case config.BackendSQLite:
		db, err := sqlitedb.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open SQLite database: %v", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("WARN: Failed to close SQLite database: %v", err)
			}
		}()
		if err := sqlstore.Init(context.Background(), db); err != nil {
			log.Fatalf("Failed to initialize SQLite schema: %v", err)
		}
		stores = store.Stores{
			Teams:    sqlstore.NewTeamStore(db),
			Pilots:   sqlstore.NewPilotStore(db),
			Staff:    sqlstore.NewStaffStore(db),
			Settings: sqlstore.NewSettingsStore(db),
		}
	}

	// --- 4. Initialize Business Logic Services ---
	teamService := service.NewTeamService(stores)
	rosterService := service.NewRosterService(stores)
	adminService := service.NewAdminService(stores)

	// --- 5. Initialize API Handlers ---
	teamHandlers := registrationapi.NewRegistrationAPIHandlers(verifier, teamService, rosterService)
	adminHandlers := registrationapi.NewAdminAPIHandlers(verifier, teamService, adminService)

	// --- 6. Setup HTTP Server and Register Routes ---
	baseServer := api.NewBaseServer(cfg.ListenAddr, log.Default())
	teamHandlers.RegisterRoutes(baseServer.Router)
	adminHandlers.RegisterRoutes(baseServer.Router)

	// --- 7. Start HTTP Server ---
	go func() {
		log.Printf("HTTP server starting on %s (backend: %s)...", cfg.ListenAddr, cfg.Backend)
		if err := baseServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed to start: %v", err)
		}
	}()

	// --- 8. Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := baseServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server graceful shutdown failed: %v", err)
	}
	log.Println("Server gracefully stopped.")
}
