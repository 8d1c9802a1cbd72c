package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/acadsys/acadsys-backend/internal/config"
	"github.com/acadsys/acadsys-backend/internal/database"
	"github.com/acadsys/acadsys-backend/internal/logger"
	"github.com/acadsys/acadsys-backend/internal/repository"
	"github.com/acadsys/acadsys-backend/internal/service"
	"github.com/acadsys/acadsys-backend/internal/store"
)

// reset-users wipes EVERY operator account and recreates a single
// bootstrap admin. It exists for broken installs where no admin can
// sign in anymore; it is deliberately not exposed over HTTP.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to the Entity Store ───────────────────────────────────
	var entityStore store.Store
	switch cfg.StoreBackend {
	case config.StoreBackendRemote:
		entityStore = store.NewRemoteStore(cfg.StoreBaseURL, cfg.StoreAPIKey, log)
	default:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		entityStore = store.NewPostgresStore(pool, log)
	}

	// ─── Initialize Service ────────────────────────────────────────────
	userRepo := repository.NewUserRepository(entityStore)
	userService := service.NewUserService(cfg, userRepo, log)

	// ─── Typed Confirmation ────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Reset ALL Users ===")
	fmt.Println("WARNING: this deletes every operator account.")
	fmt.Print("Type RESET to continue: ")
	confirm, _ := reader.ReadString('\n')
	if strings.TrimSpace(confirm) != "RESET" {
		fmt.Println("Aborted")
		return
	}

	// ─── New Admin Credentials ─────────────────────────────────────────
	fmt.Print("Enter new admin handle: ")
	handle, _ := reader.ReadString('\n')
	handle = strings.TrimSpace(handle)
	if handle == "" {
		fmt.Println("Error: Handle is required")
		return
	}

	fmt.Print("Enter new admin password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println()
	if len(password) < 4 {
		fmt.Println("Error: Password must be at least 4 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	admin, err := userService.ResetAllUsers(ctx, handle, handle, password)
	if err != nil {
		log.Fatal().Err(err).Msg("Reset failed")
	}

	fmt.Printf("\nDone. All users removed; admin '%s' created with ID: %s\n", admin.UserName, admin.ID)
}
