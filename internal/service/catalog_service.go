package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/repository"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ErrValidationFailed marks input the services refuse to store.
var ErrValidationFailed = errors.New("validation failed")

// CatalogSeed is the layout of the catalog YAML file.
type CatalogSeed struct {
	Exercises []domain.CatalogExercise `yaml:"exercises"`
	Foods     []domain.FoodEntry       `yaml:"foods"`
}

// CatalogService serves the exercise and food reference lists.
type CatalogService interface {
	ListExercises(ctx context.Context) ([]domain.CatalogExercise, error)
	ListFoods(ctx context.Context) ([]domain.FoodEntry, error)
	Seed(ctx context.Context, r io.Reader) (CatalogSeed, error)
	SeedFile(ctx context.Context, path string) error
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) ListExercises(ctx context.Context) ([]domain.CatalogExercise, error) {
	items, err := s.catalogRepo.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CatalogExercise{}
	}
	return items, nil
}

func (s *catalogService) ListFoods(ctx context.Context) ([]domain.FoodEntry, error) {
	items, err := s.catalogRepo.ListFoods(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.FoodEntry{}
	}
	return items, nil
}

// Seed upserts the catalog read from r. Items without a name are rejected.
func (s *catalogService) Seed(ctx context.Context, r io.Reader) (CatalogSeed, error) {
	var seed CatalogSeed
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return CatalogSeed{}, fmt.Errorf("decode catalog: %w", err)
	}
	for i, ex := range seed.Exercises {
		if ex.Name == "" {
			return CatalogSeed{}, fmt.Errorf("%w: exercise %d has no name", ErrValidationFailed, i)
		}
	}
	for i, f := range seed.Foods {
		if f.Name == "" {
			return CatalogSeed{}, fmt.Errorf("%w: food %d has no name", ErrValidationFailed, i)
		}
		if f.Protein < 0 || f.Carbs < 0 || f.Fats < 0 || f.Calories < 0 {
			return CatalogSeed{}, fmt.Errorf("%w: food %q has a negative macro", ErrValidationFailed, f.Name)
		}
	}

	if err := s.catalogRepo.UpsertExercises(ctx, seed.Exercises); err != nil {
		return CatalogSeed{}, err
	}
	if err := s.catalogRepo.UpsertFoods(ctx, seed.Foods); err != nil {
		return CatalogSeed{}, err
	}
	return seed, nil
}

// SeedFile seeds from a YAML file on disk.
func (s *catalogService) SeedFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	seed, err := s.Seed(ctx, f)
	if err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	log.Info().Str("file", path).Int("exercises", len(seed.Exercises)).Int("foods", len(seed.Foods)).
		Msg("catalog seeded")
	return nil
}
