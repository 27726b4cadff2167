package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catalog-api/catalog-api/internal/catalog/attributes"
	"github.com/catalog-api/catalog-api/internal/catalog/shared"
	"github.com/catalog-api/catalog-api/internal/platform/httpx"
)

// FilterColumns is the allow-list of recognized list filter parameters.
// The attributes__ keys traverse the association: a product matches when at
// least one associated attribute has the given type/value.
var FilterColumns = map[string]shared.Column{
	"name":         {Expr: "p.name = $%d", Kind: shared.KindText},
	"price":        {Expr: "p.price = $%d", Kind: shared.KindNumeric},
	"manufacturer": {Expr: "p.manufacturer = $%d", Kind: shared.KindText},
	"product_type": {Expr: "p.product_type = $%d", Kind: shared.KindText},
	"release_date": {Expr: "p.release_date = $%d", Kind: shared.KindTimestamp},
	"created_at":   {Expr: "p.created_at = $%d", Kind: shared.KindTimestamp},
	"modified_at":  {Expr: "p.modified_at = $%d", Kind: shared.KindTimestamp},
	"attributes__type": {
		Expr: "EXISTS (SELECT 1 FROM product_attributes pa JOIN attributes a ON a.id = pa.attribute_id WHERE pa.product_id = p.id AND a.type = $%d)",
		Kind: shared.KindText,
	},
	"attributes__value": {
		Expr: "EXISTS (SELECT 1 FROM product_attributes pa JOIN attributes a ON a.id = pa.attribute_id WHERE pa.product_id = p.id AND a.value = $%d)",
		Kind: shared.KindText,
	},
}

type Repository interface {
	List(ctx context.Context, fs shared.FilterSet) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) (Product, error)
	Delete(ctx context.Context, id int64) error
	AddAttribute(ctx context.Context, productID, attributeID int64) error
	RemoveAttribute(ctx context.Context, productID, attributeID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectColumns = `p.id, p.name, p.price, p.manufacturer, p.product_type, p.release_date, p.created_at, p.modified_at`

func (r *repository) List(ctx context.Context, fs shared.FilterSet) ([]Product, error) {
	query := `SELECT ` + selectColumns + ` FROM products p WHERE 1=1`
	args := []any{}
	for _, cond := range fs.Conds {
		args = append(args, cond.Value)
		query += " AND " + fmt.Sprintf(cond.Expr, len(args))
	}
	query += " ORDER BY p.id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prods := []Product{}
	ids := []int64{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Manufacturer, &p.ProductType, &p.ReleaseDate, &p.CreatedAt, &p.ModifiedAt); err != nil {
			return nil, err
		}
		p.Attributes = []attributes.Attribute{}
		prods = append(prods, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	attrsByProduct, err := r.loadAttributes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range prods {
		if attrs, ok := attrsByProduct[prods[i].ID]; ok {
			prods[i].Attributes = attrs
		}
	}
	return prods, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	query := `SELECT ` + selectColumns + ` FROM products p WHERE p.id = $1`
	var p Product
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Manufacturer, &p.ProductType, &p.ReleaseDate, &p.CreatedAt, &p.ModifiedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	p.Attributes = []attributes.Attribute{}
	attrsByProduct, err := r.loadAttributes(ctx, []int64{id})
	if err != nil {
		return Product{}, err
	}
	if attrs, ok := attrsByProduct[id]; ok {
		p.Attributes = attrs
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	query := `INSERT INTO products (name, price, manufacturer, product_type, release_date, created_at, modified_at) VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`
	now := time.Now().UTC()
	release := product.ReleaseDate
	if release.IsZero() {
		release = now
	}
	err := r.db.QueryRow(ctx, query, product.Name, product.Price, product.Manufacturer, product.ProductType, release, now).Scan(&product.ID)
	if err != nil {
		return Product{}, err
	}
	product.ReleaseDate = release
	product.CreatedAt = now
	product.ModifiedAt = now
	product.Attributes = []attributes.Attribute{}
	return product, nil
}

func (r *repository) Update(ctx context.Context, id int64, product Product) (Product, error) {
	query := `UPDATE products SET name = $1, price = $2, manufacturer = $3, product_type = $4, release_date = COALESCE($5, release_date), modified_at = $6 WHERE id = $7 RETURNING created_at`
	now := time.Now().UTC()
	var release *time.Time
	if !product.ReleaseDate.IsZero() {
		release = &product.ReleaseDate
	}
	var createdAt time.Time
	err := r.db.QueryRow(ctx, query, product.Name, product.Price, product.Manufacturer, product.ProductType, release, now, id).Scan(&createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return r.Get(ctx, id)
}

// Delete removes the product row. The ON DELETE CASCADE on
// product_attributes removes its association rows; attribute rows persist.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// AddAttribute inserts the association pair. Inserting an already-present
// pair is a no-op. An attribute id that does not resolve is a validation
// failure, not a not-found.
func (r *repository) AddAttribute(ctx context.Context, productID, attributeID int64) error {
	if err := r.checkAttribute(ctx, attributeID); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `INSERT INTO product_attributes (product_id, attribute_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, productID, attributeID)
	return mapAssociationError(err)
}

// RemoveAttribute deletes the association pair. Removing a pair that is not
// present is a no-op.
func (r *repository) RemoveAttribute(ctx context.Context, productID, attributeID int64) error {
	if err := r.checkAttribute(ctx, attributeID); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM product_attributes WHERE product_id = $1 AND attribute_id = $2`, productID, attributeID)
	return err
}

func (r *repository) checkAttribute(ctx context.Context, attributeID int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attributes WHERE id = $1)`, attributeID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return httpx.NewFieldError("attribute_id", "attribute does not exist")
	}
	return nil
}

// mapAssociationError classifies foreign key violations raised when a row
// referenced by the association vanished between check and insert.
func mapAssociationError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		if strings.Contains(pgErr.ConstraintName, "attribute_id") {
			return httpx.NewFieldError("attribute_id", "attribute does not exist")
		}
		return httpx.ErrNotFound
	}
	return err
}

func (r *repository) loadAttributes(ctx context.Context, productIDs []int64) (map[int64][]attributes.Attribute, error) {
	if len(productIDs) == 0 {
		return map[int64][]attributes.Attribute{}, nil
	}
	query := `SELECT pa.product_id, a.id, a.type, a.value, a.created_at, a.modified_at
FROM product_attributes pa
JOIN attributes a ON a.id = pa.attribute_id
WHERE pa.product_id = ANY($1)
ORDER BY a.id`
	rows, err := r.db.Query(ctx, query, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[int64][]attributes.Attribute{}
	for rows.Next() {
		var productID int64
		var a attributes.Attribute
		if err := rows.Scan(&productID, &a.ID, &a.Type, &a.Value, &a.CreatedAt, &a.ModifiedAt); err != nil {
			return nil, err
		}
		result[productID] = append(result[productID], a)
	}
	return result, rows.Err()
}
