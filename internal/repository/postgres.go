package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the server's repository. Diary data is always read and written
// on behalf of one user; see ForUser.
type Postgres struct {
	pool   *pgxpool.Pool
	Shares ShareRepository
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{
		pool:   pool,
		Shares: &pgShareRepo{pool: pool},
	}
}

// ForUser returns a Repository whose queries are restricted to userID.
func (p *Postgres) ForUser(userID string) *Repository {
	return &Repository{
		Sleep:    &pgSleepRepo{pool: p.pool, userID: userID},
		Workouts: &pgWorkoutRepo{pool: p.pool, userID: userID},
	}
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
