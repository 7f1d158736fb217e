// Command import loads users and videos from CSV files, mints subscription
// codes and prints bearer tokens for local testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ArowuTest/pointhub-backend/internal/config"
	mongorepo "github.com/ArowuTest/pointhub-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/pointhub-backend/internal/services"
	"github.com/ArowuTest/pointhub-backend/internal/utils"
	"github.com/ArowuTest/pointhub-backend/pkg/jwt"
	mongodb "github.com/ArowuTest/pointhub-backend/pkg/mongodb"
	"golang.org/x/exp/slog"
)

func main() {
	usersFile := flag.String("users", "", "CSV file with email,password,point,referredBy columns")
	videosFile := flag.String("videos", "", "CSV file with link,point,time columns")
	codes := flag.Int("codes", config.GetEnvAsInt("IMPORT_CODES", 0), "number of subscription codes to mint")
	tokenFor := flag.String("token", "", "print a bearer token for this email")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(*usersFile, *videosFile, *codes, *tokenFor); err != nil {
		slog.Error("Import failed", "error", err)
		os.Exit(1)
	}
}

func run(usersFile, videosFile string, codes int, tokenFor string) error {
	cfg, err := config.LoadConfig(config.GetEnv("CONFIG_PATH", "."))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := mongodb.NewClient(cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDB.Database)

	ctx := context.Background()
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	userRepo := mongorepo.NewUserRepository(db)
	videoRepo := mongorepo.NewVideoRepository(db)
	importer := utils.NewCSVImporter(userRepo, videoRepo)

	if usersFile != "" {
		if err := importFile(usersFile, func(f *os.File) (*utils.ImportResult, error) {
			return importer.ImportUsers(ctx, f)
		}); err != nil {
			return err
		}
	}
	if videosFile != "" {
		if err := importFile(videosFile, func(f *os.File) (*utils.ImportResult, error) {
			return importer.ImportVideos(ctx, f)
		}); err != nil {
			return err
		}
	}

	if codes > 0 {
		subscriptions := services.NewSubscriptionService(userRepo, mongorepo.NewSubscriptionCodeRepository(db), cfg.Subscription.MinimumPoints, cfg.Subscription.CodeLength)
		for i := 0; i < codes; i++ {
			code, err := subscriptions.GenerateCode(ctx)
			if err != nil {
				return fmt.Errorf("failed to mint code %d: %w", i+1, err)
			}
			fmt.Println(code.Code)
		}
	}

	if tokenFor != "" {
		user, err := userRepo.FindByEmail(ctx, strings.TrimSpace(tokenFor))
		if err != nil {
			return fmt.Errorf("failed to find %s: %w", tokenFor, err)
		}
		tokens, err := jwt.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
		if err != nil {
			return err
		}
		token, err := tokens.Generate(user.ID.Hex(), user.Email, user.Role)
		if err != nil {
			return err
		}
		fmt.Println(token)
	}
	return nil
}

func importFile(path string, load func(*os.File) (*utils.ImportResult, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	result, err := load(f)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	for _, e := range result.Errors {
		slog.Warn("Import row rejected", "file", path, "detail", e)
	}
	slog.Info("Import finished", "file", path, "rows", result.TotalRows, "created", result.Created, "skipped", result.Skipped)
	return nil
}
