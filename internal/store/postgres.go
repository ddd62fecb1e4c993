package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcanavci/lawjobs/internal/model"
)

// Postgres implements Store on a pgx connection pool. Case-insensitive
// matching uses LOWER() comparisons; the dedup append is a single statement
// so concurrent writers cannot both pass the check.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the schema if it does not exist.
func (s *Postgres) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			company      TEXT NOT NULL,
			location     TEXT NOT NULL,
			description  TEXT NOT NULL,
			requirements TEXT[] NOT NULL DEFAULT '{}',
			type         TEXT NOT NULL,
			salary       TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL,
			source       TEXT NOT NULL DEFAULT '',
			source_url   TEXT NOT NULL DEFAULT '',
			employer_id  TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_dedup ON jobs (LOWER(title), LOWER(company))`,
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users (id),
			job_id     TEXT NOT NULL REFERENCES jobs (id),
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, job_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

const jobColumns = `id, title, company, location, description, requirements,
	type, salary, created_at, source, source_url, employer_id`

func (s *Postgres) ListJobs(ctx context.Context) ([]model.JobRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs`)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.JobRecord, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func scanJob(row pgx.Row) (model.JobRecord, error) {
	var j model.JobRecord
	err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &j.Description,
		&j.Requirements, &j.Type, &j.Salary, &j.CreatedAt,
		&j.Source, &j.SourceURL, &j.EmployerID,
	)
	return j, err
}

func (s *Postgres) AppendJob(ctx context.Context, job model.JobRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (`+jobColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		job.ID, job.Title, job.Company, job.Location, job.Description,
		job.Requirements, job.Type, job.Salary, job.CreatedAt,
		job.Source, job.SourceURL, job.EmployerID,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *Postgres) AppendJobDedup(ctx context.Context, job model.JobRecord) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (`+jobColumns+`)
		 SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		 WHERE NOT EXISTS (
		   SELECT 1 FROM jobs WHERE LOWER(title) = LOWER($2) AND LOWER(company) = LOWER($3)
		 )`,
		job.ID, job.Title, job.Company, job.Location, job.Description,
		job.Requirements, job.Type, job.Salary, job.CreatedAt,
		job.Source, job.SourceURL, job.EmployerID,
	)
	if err != nil {
		return false, fmt.Errorf("dedup insert job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Postgres) FindJobByID(ctx context.Context, id string) (model.JobRecord, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.JobRecord{}, ErrNotFound
	}
	if err != nil {
		return model.JobRecord{}, fmt.Errorf("query job %s: %w", id, err)
	}
	return j, nil
}

func (s *Postgres) CreateUser(ctx context.Context, user model.User) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email) DO NOTHING`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateEmail
	}
	return nil
}

func (s *Postgres) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.findUser(ctx, `email = $1`, email)
}

func (s *Postgres) FindUserByID(ctx context.Context, id string) (model.User, error) {
	return s.findUser(ctx, `id = $1`, id)
}

func (s *Postgres) findUser(ctx context.Context, where, arg string) (model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, created_at FROM users WHERE `+where,
		arg,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (s *Postgres) CreateApplication(ctx context.Context, app model.Application) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO applications (id, user_id, job_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, job_id) DO NOTHING`,
		app.ID, app.UserID, app.JobID, app.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert application: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
