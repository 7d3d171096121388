package main

import (
	"fmt"
	"os"
	"streemi/internal/config"
	"streemi/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := db.Migrate("file://"+cfg.MigrationsPath, cfg.PostgresqlURL); err != nil {
		fmt.Fprintf(os.Stderr, "Could not apply migrations: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Migrations applied.")
}
