package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slateworks/slate/internal/domain"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure; the
// sites table carries a unique index on slug.
const uniqueViolation = "23505"

type SiteRepo struct {
	pool *pgxpool.Pool
}

func NewSiteRepo(pool *pgxpool.Pool) *SiteRepo {
	return &SiteRepo{pool: pool}
}

func (r *SiteRepo) Create(ctx context.Context, s *domain.Site) error {
	schema, err := json.Marshal(s.Schema)
	if err != nil {
		return fmt.Errorf("siteRepo.Create: marshal schema: %w", err)
	}
	content, err := json.Marshal(s.Content)
	if err != nil {
		return fmt.Errorf("siteRepo.Create: marshal content: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO sites (id, name, slug, schema, content, created_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Slug, schema, content, s.CreatedAt, s.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("siteRepo.Create: slug %q taken: %w", s.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("siteRepo.Create: %w", err)
	}

	return nil
}

func (r *SiteRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Site, error) {
	s, err := r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, name, slug, schema, content, created_at, created_by
		 FROM sites WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("siteRepo.GetByID: %w", err)
	}

	return s, nil
}

func (r *SiteRepo) GetBySlug(ctx context.Context, slug string) (*domain.Site, error) {
	s, err := r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, name, slug, schema, content, created_at, created_by
		 FROM sites WHERE slug = $1`,
		slug,
	))
	if err != nil {
		return nil, fmt.Errorf("siteRepo.GetBySlug: %w", err)
	}

	return s, nil
}

func (r *SiteRepo) List(ctx context.Context) ([]*domain.Site, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug, schema, content, created_at, created_by
		 FROM sites ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("siteRepo.List: %w", err)
	}
	defer rows.Close()

	var sites []*domain.Site
	for rows.Next() {
		s, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("siteRepo.List: %w", err)
		}
		sites = append(sites, s)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("siteRepo.List: rows: %w", err)
	}

	return sites, nil
}

// UpdateContent replaces the site's content wholesale and returns the
// stored row. The schema and slug are never touched here.
func (r *SiteRepo) UpdateContent(ctx context.Context, id uuid.UUID, content domain.Content) (*domain.Site, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("siteRepo.UpdateContent: marshal content: %w", err)
	}

	s, err := r.scanOne(r.pool.QueryRow(ctx,
		`UPDATE sites SET content = $1 WHERE id = $2
		 RETURNING id, name, slug, schema, content, created_at, created_by`,
		raw, id,
	))
	if err != nil {
		return nil, fmt.Errorf("siteRepo.UpdateContent: %w", err)
	}

	return s, nil
}

func (r *SiteRepo) scanOne(row pgx.Row) (*domain.Site, error) {
	var s domain.Site
	var schema, content []byte

	err := row.Scan(&s.ID, &s.Name, &s.Slug, &schema, &content, &s.CreatedAt, &s.CreatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	if err := json.Unmarshal(schema, &s.Schema); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	if err := json.Unmarshal(content, &s.Content); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}

	return &s, nil
}
