package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mise/internal/app"
	"mise/internal/config"
	"mise/internal/database"
	"mise/internal/logger"
	"mise/internal/meal"
	"mise/internal/metrics"
	"mise/internal/recipe"
	"mise/internal/snapshot"
	"mise/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	db, err := database.NewDB(cfg.DBPath, zl)
	if err != nil {
		zl.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	exports, err := storage.NewSnapshotStore(cfg.ExportDir)
	if err != nil {
		zl.Fatal("Failed to initialize snapshot export store", zap.Error(err))
	}

	application := app.NewApp(
		cfg,
		db,
		recipe.NewRepository(db.SQL),
		meal.NewRepository(db.SQL),
		metrics.NewStore(db.SQL),
		exports,
		snapshot.NewGenerator(zl),
		zl,
	)

	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err := cmd.run(context.Background(), application, os.Args[2:]); err != nil {
		reportError(os.Args[1], err)
		zl.Sync()
		db.Close()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: mise <command> [arguments]")
	fmt.Println("\nCommands:")
	for _, name := range commandOrder {
		fmt.Printf("  %-17s %s\n", name, commands[name].usage)
	}
}
