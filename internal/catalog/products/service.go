package products

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/catalog-api/catalog-api/internal/catalog/shared"
	"github.com/catalog-api/catalog-api/internal/platform/cache"
)

// Service implements product CRUD plus the attribute association operations.
// Reads go through the versioned catalog cache; every mutation bumps it.
type Service struct {
	repo     Repository
	cache    *cache.Cache
	validate *validator.Validate
}

func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c, validate: shared.NewValidator()}
}

func (s *Service) List(ctx context.Context, fs shared.FilterSet) ([]Product, error) {
	key, err := s.cache.BuildKey(ctx, "products", "list", fs.Key())
	if err != nil {
		return s.repo.List(ctx, fs)
	}
	prods := []Product{}
	err = s.cache.FetchJSON(ctx, key, &prods, func(ctx context.Context) (any, error) {
		return s.repo.List(ctx, fs)
	})
	if err != nil {
		return nil, err
	}
	return prods, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	key, err := s.cache.BuildKey(ctx, "products", "detail", strconv.FormatInt(id, 10))
	if err != nil {
		return s.repo.Get(ctx, id)
	}
	var p Product
	err = s.cache.FetchJSON(ctx, key, &p, func(ctx context.Context) (any, error) {
		return s.repo.Get(ctx, id)
	})
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	if err := shared.CheckStruct(s.validate, form); err != nil {
		return Product{}, err
	}
	product, err := s.repo.Create(ctx, productFromForm(form))
	if err != nil {
		return Product{}, err
	}
	_ = s.cache.Bump(ctx)
	return product, nil
}

// Update applies a full update. The not-found check runs before validation.
// A release_date absent from the form keeps its stored value.
func (s *Service) Update(ctx context.Context, id int64, form ProductForm) (Product, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Product{}, err
	}
	if err := shared.CheckStruct(s.validate, form); err != nil {
		return Product{}, err
	}
	product, err := s.repo.Update(ctx, id, productFromForm(form))
	if err != nil {
		return Product{}, err
	}
	_ = s.cache.Bump(ctx)
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Bump(ctx)
	return nil
}

// AddAttribute associates an attribute with a product and returns the product
// with its full current attribute set. Adding an already-associated attribute
// is a no-op. The product's own fields, including modified_at, are untouched:
// the operation is scoped to the association alone.
func (s *Service) AddAttribute(ctx context.Context, productID int64, form AssociationForm) (Product, error) {
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return Product{}, err
	}
	if err := shared.CheckStruct(s.validate, form); err != nil {
		return Product{}, err
	}
	if err := s.repo.AddAttribute(ctx, productID, form.AttributeID); err != nil {
		return Product{}, err
	}
	_ = s.cache.Bump(ctx)
	return s.repo.Get(ctx, productID)
}

// RemoveAttribute disassociates an attribute. Removing a non-associated
// attribute is a no-op, not an error.
func (s *Service) RemoveAttribute(ctx context.Context, productID int64, form AssociationForm) (Product, error) {
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return Product{}, err
	}
	if err := shared.CheckStruct(s.validate, form); err != nil {
		return Product{}, err
	}
	if err := s.repo.RemoveAttribute(ctx, productID, form.AttributeID); err != nil {
		return Product{}, err
	}
	_ = s.cache.Bump(ctx)
	return s.repo.Get(ctx, productID)
}

func productFromForm(form ProductForm) Product {
	p := Product{
		Name:         form.Name,
		Manufacturer: form.Manufacturer,
		ProductType:  form.ProductType,
	}
	if form.Price != nil {
		p.Price = *form.Price
	}
	if form.ReleaseDate != nil {
		p.ReleaseDate = *form.ReleaseDate
	}
	return p
}
