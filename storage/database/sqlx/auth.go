package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasadev/darasa/core/auth"
)

type refreshTokenRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	HashedToken string    `db:"hashed_token"`
	Revoked     bool      `db:"revoked"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r refreshTokenRow) unpack() auth.RefreshToken {
	return auth.RefreshToken(r)
}

func packRefreshToken(rt auth.RefreshToken) refreshTokenRow {
	rt.CreatedAt = rt.CreatedAt.UTC()
	rt.UpdatedAt = rt.UpdatedAt.UTC()
	return refreshTokenRow(rt)
}

type refreshTokenRepository struct {
	db *sqlx.DB
}

var _ auth.Repository = (*refreshTokenRepository)(nil) // interface compliance check

func NewRefreshTokenRepository(db *sqlx.DB) *refreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

const insertRefreshToken = `
	INSERT INTO refresh_token (id, user_id, hashed_token, revoked, created_at, updated_at)
	VALUES (:id, :user_id, :hashed_token, :revoked, :created_at, :updated_at)`

func (repo refreshTokenRepository) CreateRefreshToken(ctx context.Context, rt auth.RefreshToken) (auth.RefreshToken, error) {
	row := packRefreshToken(rt)
	if _, err := repo.db.NamedExecContext(ctx, insertRefreshToken, row); err != nil {
		return auth.RefreshToken{}, errors.Wrap(err, "inserting refresh token")
	}
	return rt, nil
}

func (repo refreshTokenRepository) GetRefreshTokenByID(ctx context.Context, id string) (auth.RefreshToken, error) {
	var row refreshTokenRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM refresh_token WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return auth.RefreshToken{}, auth.ErrInvalidToken
		}
		return auth.RefreshToken{}, errors.Wrap(err, "getting refresh token")
	}
	return row.unpack(), nil
}

// RotateRefreshToken swaps the exchanged record for its replacement in one
// transaction. If the old record is gone (a concurrent exchange won), the
// whole rotation fails and neither token is honored.
func (repo refreshTokenRepository) RotateRefreshToken(ctx context.Context, oldID string, rt auth.RefreshToken) (auth.RefreshToken, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return auth.RefreshToken{}, errors.Wrap(err, "starting rotation")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM refresh_token WHERE id = $1`, oldID)
	if err != nil {
		return auth.RefreshToken{}, errors.Wrap(err, "deleting exchanged token")
	}
	if n, err := res.RowsAffected(); err != nil {
		return auth.RefreshToken{}, errors.Wrap(err, "deleting exchanged token")
	} else if n == 0 {
		return auth.RefreshToken{}, auth.ErrInvalidToken
	}

	row := packRefreshToken(rt)
	if _, err = tx.NamedExecContext(ctx, insertRefreshToken, row); err != nil {
		return auth.RefreshToken{}, errors.Wrap(err, "inserting replacement token")
	}

	if err = tx.Commit(); err != nil {
		return auth.RefreshToken{}, errors.Wrap(err, "committing rotation")
	}
	return rt, nil
}

func (repo refreshTokenRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := repo.db.ExecContext(ctx, `
		UPDATE refresh_token SET revoked = true, updated_at = $1 WHERE user_id = $2`,
		time.Now().UTC(), userID)
	if err != nil {
		return errors.Wrap(err, "revoking refresh tokens")
	}
	return nil
}
