package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"financetracker/internal/config"
	"financetracker/internal/db"
	apperrors "financetracker/internal/errors"
	"financetracker/internal/logging"
	"financetracker/internal/model"
	"financetracker/internal/repository"
)

// defaultCategories are created when CATEGORY_SEED_URL is not set.
var defaultCategories = []string{
	"Salary",
	"Groceries",
	"Rent",
	"Utilities",
	"Transport",
	"Dining",
	"Entertainment",
	"Health",
	"Savings",
	"Other",
}

// SeedCategoryData represents one entry of the remote seed file.
type SeedCategoryData struct {
	Name string `json:"name"`
}

func main() {
	logger := logging.New(os.Stdout, os.Getenv("LOG_LEVEL"))
	logger.Info("starting seed script")

	// Load configuration
	cfg, err := config.Parse(".env")
	if err != nil {
		fatal(logger, "load config", err)
	}

	// Connect to database
	gormDB, err := db.Open(cfg)
	if err != nil {
		fatal(logger, "connect to database", err)
	}

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		fatal(logger, "run migrations", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	names := defaultCategories
	if cfg.CategorySeedURL != "" {
		logger.Info("fetching categories", slog.String("url", cfg.CategorySeedURL))
		names, err = fetchCategoriesFromAPI(ctx, http.DefaultClient, cfg.CategorySeedURL)
		if err != nil {
			fatal(logger, "fetch categories", err)
		}
	}

	created, existing, err := seedCategories(ctx, repository.NewCategoryRepository(gormDB), names)
	if err != nil {
		fatal(logger, "seed categories", err)
	}

	logger.Info("seed completed",
		slog.Int("created", created),
		slog.Int("existing", existing),
		slog.Int("total", created+existing),
	)
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	os.Exit(1)
}

// fetchCategoriesFromAPI fetches category names from a JSON array of
// {"name": "..."} objects.
func fetchCategoriesFromAPI(ctx context.Context, client *http.Client, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var items []SeedCategoryData
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		if name := strings.TrimSpace(item.Name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// seedCategories creates the categories that do not exist yet. Running it
// twice creates nothing the second time.
func seedCategories(ctx context.Context, repo repository.CategoryRepository, names []string) (created int, existing int, err error) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		_, err := repo.FindByName(ctx, name)
		switch {
		case err == nil:
			existing++
			continue
		case !errors.Is(err, apperrors.ErrCategoryNotFound):
			return created, existing, fmt.Errorf("error checking category %q: %w", name, err)
		}

		if err := repo.Create(ctx, &model.Category{Name: name}); err != nil {
			return created, existing, fmt.Errorf("error creating category %q: %w", name, err)
		}
		created++
	}
	return created, existing, nil
}
