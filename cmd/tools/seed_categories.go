// Command seed-categories loads the category catalogue into MongoDB.
// Categories are created through an admin surface in production; this
// tool bootstraps a fresh environment or a local stack.
//
// Usage:
//
//	go run ./cmd/tools -names "Technology,Music,Art"
//	go run ./cmd/tools -file configs/categories.txt
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mkravets/eventhub/internal/config"
	"github.com/mkravets/eventhub/internal/domain/category"
	"github.com/mkravets/eventhub/internal/domain/errs"
	mongodbinfra "github.com/mkravets/eventhub/internal/infrastructure/mongodb"
	mongodbrepo "github.com/mkravets/eventhub/internal/infrastructure/repository/mongodb"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	names := flag.String("names", "", "Comma-separated category names")
	file := flag.String("file", "", "File with one category name per line")
	flag.Parse()

	catalogue, err := readCatalogue(*names, *file)
	if err != nil {
		logger.Error("failed to read category names", slog.String("error", err.Error()))
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		logger.Error("failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
			logger.Error("failed to disconnect from MongoDB", slog.String("error", disconnectErr.Error()))
		}
	}()

	db := client.Database(cfg.MongoDB.Database)
	if err = mongodbinfra.EnsureIndexes(ctx, db); err != nil {
		logger.Error("failed to ensure indexes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo := mongodbrepo.NewMongoCategoryRepository(db.Collection(mongodbrepo.CategoriesCollection))

	var created, skipped int
	for _, name := range catalogue {
		c, buildErr := category.NewCategory(name)
		if buildErr != nil {
			logger.Error("invalid category name",
				slog.String("name", name),
				slog.String("error", buildErr.Error()))
			os.Exit(1)
		}

		saveErr := repo.Save(ctx, c)
		switch {
		case errors.Is(saveErr, errs.ErrAlreadyExists):
			logger.Info("category already present", slog.String("name", name))
			skipped++
		case saveErr != nil:
			logger.Error("failed to save category",
				slog.String("name", name),
				slog.String("error", saveErr.Error()))
			os.Exit(1)
		default:
			logger.Info("category created", slog.String("name", name))
			created++
		}
	}

	logger.Info("seeding complete",
		slog.Int("created", created),
		slog.Int("skipped", skipped))
}

func readCatalogue(names, file string) ([]string, error) {
	switch {
	case names != "" && file != "":
		return nil, errors.New("use either -names or -file, not both")
	case names != "":
		return splitNames(names), nil
	case file != "":
		return readNamesFile(file)
	default:
		return nil, errors.New("either -names or -file is required")
	}
}

func splitNames(names string) []string {
	var out []string
	for _, name := range strings.Split(names, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func readNamesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if trimmed := strings.TrimSpace(scanner.Text()); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, scanner.Err()
}
