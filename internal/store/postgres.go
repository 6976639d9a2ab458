package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-admin/internal/config"
	"github.com/spec-kit/clinic-admin/internal/domain"
)

// Postgres implements Directory against a direct database connection, for
// deployments that bypass the hosted data API.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool from the configured DSN.
func NewPostgres(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &Postgres{pool: pool}, nil
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

// EnsureAnonymousSession is a no-op: a direct connection authenticates when
// it is established, so there is no anonymous principal to negotiate.
func (p *Postgres) EnsureAnonymousSession(_ context.Context) error {
	return nil
}

// ListNames returns all names from the table in ascending order.
func (p *Postgres) ListNames(ctx context.Context, table string) ([]string, error) {
	query := fmt.Sprintf(`SELECT name FROM %s ORDER BY name ASC`, pgx.Identifier{table}.Sanitize())

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// InsertName adds a new row; no duplicate check is performed.
func (p *Postgres) InsertName(ctx context.Context, table, name string) error {
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1)`, pgx.Identifier{table}.Sanitize())
	_, err := p.pool.Exec(ctx, query, name)
	return err
}

// DeleteName removes rows matching the name exactly.
func (p *Postgres) DeleteName(ctx context.Context, table, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE name=$1`, pgx.Identifier{table}.Sanitize())
	_, err := p.pool.Exec(ctx, query, name)
	return err
}

// ListWhitelist returns whitelist entries ordered by email, optionally
// narrowed to one provider.
func (p *Postgres) ListWhitelist(ctx context.Context, provider *domain.Provider) ([]domain.WhitelistEntry, error) {
	query := `SELECT id, email, provider, created_at FROM whitelist_emails`
	args := []any{}
	if provider != nil {
		query += ` WHERE provider=$1`
		args = append(args, string(*provider))
	}
	query += ` ORDER BY email ASC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.WhitelistEntry
	for rows.Next() {
		var entry domain.WhitelistEntry
		if err := rows.Scan(&entry.ID, &entry.Email, &entry.Provider, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// InsertWhitelist adds a whitelist row. The caller normalizes the email.
func (p *Postgres) InsertWhitelist(ctx context.Context, email string, provider domain.Provider) error {
	const query = `INSERT INTO whitelist_emails (email, provider) VALUES ($1,$2)`
	_, err := p.pool.Exec(ctx, query, email, string(provider))
	return err
}

// DeleteWhitelist removes rows matching the email exactly.
func (p *Postgres) DeleteWhitelist(ctx context.Context, email string) error {
	const query = `DELETE FROM whitelist_emails WHERE email=$1`
	_, err := p.pool.Exec(ctx, query, email)
	return err
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
