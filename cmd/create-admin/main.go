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

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Bootstrap Admin ===")

	// Display name (doubles as the login handle).
	fmt.Print("Enter Handle: ")
	handle, _ := reader.ReadString('\n')
	handle = strings.TrimSpace(handle)
	if handle == "" {
		fmt.Println("Error: Handle is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 4 {
		fmt.Println("Error: Password must be at least 4 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	// Any existing record with the same handle is removed first, so this
	// command is safe to re-run after a botched bootstrap.
	admin, err := userService.EnsureBootstrapAdmin(ctx, handle, handle, password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' created with ID: %s\n", admin.UserName, admin.ID)
}
