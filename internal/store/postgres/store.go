package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slateworks/slate/internal/domain"
)

type Store struct {
	pool  *pgxpool.Pool
	sites *SiteRepo
	users *UserRepo
	roles *RoleRepo
	audit *AuditRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:  pool,
		sites: NewSiteRepo(pool),
		users: NewUserRepo(pool),
		roles: NewRoleRepo(pool),
		audit: NewAuditRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Sites() domain.SiteRepository { return s.sites }
func (s *Store) Users() domain.UserRepository { return s.users }
func (s *Store) Roles() domain.RoleRepository { return s.roles }
func (s *Store) Audit() domain.AuditRepository { return s.audit }
