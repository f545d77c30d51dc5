package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"tempmail/bot/internal/config"
	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/storage/postgres"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: grant-admin <telegram_id> [username]")
		os.Exit(1)
	}

	telegramID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil || telegramID <= 0 {
		fmt.Printf("Invalid telegram id: %s\n", os.Args[1])
		os.Exit(1)
	}
	username := ""
	if len(os.Args) >= 3 {
		username = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Type != config.DatabasePostgres && cfg.Database.Type != config.DatabaseMySQL {
		fmt.Println("grant-admin requires a postgres or mysql database (database.type / DATABASE_DSN)")
		os.Exit(1)
	}

	store, err := postgres.Open(cfg.Database)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin := &domain.Admin{
		TelegramID: telegramID,
		Username:   username,
		AddedBy:    cfg.Telegram.AdminID,
		CreatedAt:  time.Now(),
	}
	added, err := store.AddAdmin(ctx, admin)
	if err != nil {
		fmt.Printf("Failed to add admin: %v\n", err)
		os.Exit(1)
	}
	if !added {
		fmt.Printf("User %d is already an admin\n", telegramID)
		return
	}

	fmt.Printf("✓ Admin granted successfully!\n")
	fmt.Printf("  Telegram ID: %d\n", admin.TelegramID)
	if admin.Username != "" {
		fmt.Printf("  Username:    @%s\n", admin.Username)
	}
	fmt.Println("\nThe running bot sees the new admin once its cached admin lookup expires.")
}
