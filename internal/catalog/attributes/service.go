package attributes

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/catalog-api/catalog-api/internal/catalog/shared"
	"github.com/catalog-api/catalog-api/internal/platform/cache"
)

// Service implements attribute CRUD on top of the repository. Reads go
// through the versioned catalog cache; mutations bump it, which also orphans
// cached product payloads embedding attribute rows.
type Service struct {
	repo     Repository
	cache    *cache.Cache
	validate *validator.Validate
}

func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c, validate: shared.NewValidator()}
}

func (s *Service) List(ctx context.Context, fs shared.FilterSet) ([]Attribute, error) {
	key, err := s.cache.BuildKey(ctx, "attributes", "list", fs.Key())
	if err != nil {
		return s.repo.List(ctx, fs)
	}
	attrs := []Attribute{}
	err = s.cache.FetchJSON(ctx, key, &attrs, func(ctx context.Context) (any, error) {
		return s.repo.List(ctx, fs)
	})
	if err != nil {
		return nil, err
	}
	return attrs, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Attribute, error) {
	key, err := s.cache.BuildKey(ctx, "attributes", "detail", strconv.FormatInt(id, 10))
	if err != nil {
		return s.repo.Get(ctx, id)
	}
	var a Attribute
	err = s.cache.FetchJSON(ctx, key, &a, func(ctx context.Context) (any, error) {
		return s.repo.Get(ctx, id)
	})
	if err != nil {
		return Attribute{}, err
	}
	return a, nil
}

func (s *Service) Create(ctx context.Context, form AttributeForm) (Attribute, error) {
	if err := shared.CheckStruct(s.validate, form); err != nil {
		return Attribute{}, err
	}
	attr, err := s.repo.Create(ctx, Attribute{Type: form.Type, Value: form.Value})
	if err != nil {
		return Attribute{}, err
	}
	_ = s.cache.Bump(ctx)
	return attr, nil
}

// Update applies a full update. The not-found check runs before validation.
func (s *Service) Update(ctx context.Context, id int64, form AttributeForm) (Attribute, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Attribute{}, err
	}
	if err := shared.CheckStruct(s.validate, form); err != nil {
		return Attribute{}, err
	}
	attr, err := s.repo.Update(ctx, id, Attribute{Type: form.Type, Value: form.Value})
	if err != nil {
		return Attribute{}, err
	}
	_ = s.cache.Bump(ctx)
	return attr, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Bump(ctx)
	return nil
}
