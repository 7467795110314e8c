package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/joho/godotenv"

	"github.com/docfold-labs/docfold/internal/auth"
	"github.com/docfold-labs/docfold/internal/config"
	"github.com/docfold-labs/docfold/internal/store"
	"github.com/docfold-labs/docfold/internal/store/postgres"
)

// Seeds users and documents for local development. The first users become
// admins, the next block editors, the rest viewers; every account uses the
// password "password".
func main() {
	userCount := flag.Int("users", 50, "number of users to create")
	docCount := flag.Int("documents", 200, "number of documents to create")
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	s := store.New(pool)

	hash, err := auth.HashPassword("password")
	if err != nil {
		logger.Error("hash password", slog.String("error", err.Error()))
		os.Exit(1)
	}

	users := make([]postgres.User, 0, *userCount)
	for i := 1; i <= *userCount; i++ {
		role := postgres.RoleViewer
		switch {
		case i <= *userCount/50+1:
			role = postgres.RoleAdmin
		case i <= *userCount/10+1:
			role = postgres.RoleEditor
		}

		name := fmt.Sprintf("User %d", i)
		user, err := s.CreateUser(ctx, postgres.CreateUserParams{
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: hash,
			Name:         &name,
			Role:         role,
		})
		if err != nil {
			logger.Error("create user", slog.Int("n", i), slog.String("error", err.Error()))
			os.Exit(1)
		}
		users = append(users, user)
	}
	logger.Info("seeded users", slog.Int("count", len(users)))

	err = s.WithTx(ctx, func(q *postgres.Queries) error {
		for i := 1; i <= *docCount; i++ {
			owner := users[rand.Intn(len(users))]
			content := fmt.Sprintf("This is the content of document %d.", i)
			_, err := q.CreateDocument(ctx, postgres.CreateDocumentParams{
				Title:   fmt.Sprintf("Document %d", i),
				Content: &content,
				Type:    "text",
				Size:    int64(len(content)),
				OwnerID: &owner.ID,
			})
			if err != nil {
				return fmt.Errorf("create document %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("seed documents", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("seeded documents", slog.Int("count", *docCount))
}
