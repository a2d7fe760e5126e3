package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrettladley/snooze/internal/share"
)

const pgShareSelect = `SELECT id, share_token, user_id, expires_at, created_at FROM public_shares`

type pgShareRepo struct {
	pool *pgxpool.Pool
}

func (r *pgShareRepo) Create(ctx context.Context, link *share.Link) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO public_shares (id, share_token, user_id, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		link.ID, link.Token, link.UserID, link.ExpiresAt,
	).Scan(&link.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating share link: %w", err)
	}
	return nil
}

func (r *pgShareRepo) ListByUser(ctx context.Context, userID string) ([]share.Link, error) {
	rows, err := r.pool.Query(ctx, pgShareSelect+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing share links: %w", err)
	}
	links, err := pgx.CollectRows(rows, pgx.RowToStructByPos[share.Link])
	if err != nil {
		return nil, fmt.Errorf("collecting share links: %w", err)
	}
	return links, nil
}

func (r *pgShareRepo) GetByToken(ctx context.Context, token string) (*share.Link, error) {
	rows, err := r.pool.Query(ctx, pgShareSelect+` WHERE share_token = $1`, token)
	if err != nil {
		return nil, fmt.Errorf("getting share link: %w", err)
	}
	link, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByPos[share.Link])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting share link: %w", err)
	}
	return link, nil
}

func (r *pgShareRepo) Delete(ctx context.Context, userID, id string) (string, error) {
	var token string
	err := r.pool.QueryRow(ctx,
		`DELETE FROM public_shares WHERE user_id = $1 AND id = $2 RETURNING share_token`,
		userID, id,
	).Scan(&token)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("deleting share link: %w", err)
	}
	return token, nil
}
