package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"streemi/internal/config"
	c "streemi/internal/core/domain/common"
	"streemi/internal/core/domain/user"
	dbuser "streemi/internal/db/user"
	passwordhasher "streemi/internal/implementations/password_hasher"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	count := flag.Int("count", 10, "number of accounts to create")
	password := flag.String("password", "password", "password of every created account")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fail("Could not load config", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, cfg.PostgresqlURL)
	if err != nil {
		fail("Could not connect to DB", err)
	}
	defer pool.Close()

	accounts := dbuser.NewPgxRepository(pool)
	hasher := passwordhasher.NewBcrypt(cfg.Secret, cfg.BcryptHasherCost)

	hash, err := hasher.HashPassword(user.RawPassword(*password))
	if err != nil {
		fail("Could not hash password", err)
	}

	created := 0
	for i := 1; i <= *count; i++ {
		_, err := accounts.Create(ctx, user.CreateAccountInput{
			Email:        c.NewEmail(fmt.Sprintf("user%d@example.com", i)),
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		})
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			continue
		}
		if err != nil {
			fail("Could not create account", err)
		}
		created++
	}
	fmt.Printf("Seeded %d accounts.\n", created)
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
