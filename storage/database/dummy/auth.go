package dummydb

import (
	"context"
	"time"

	"github.com/darasadev/darasa/core/auth"
)

type refreshTokenRepository struct {
	db *refreshTokenTable
}

var _ auth.Repository = (*refreshTokenRepository)(nil) // interface compliance check

func NewRefreshTokenRepository(db *DB) *refreshTokenRepository {
	return &refreshTokenRepository{db: db.refreshToken}
}

func (repo *refreshTokenRepository) CreateRefreshToken(ctx context.Context, rt auth.RefreshToken) (auth.RefreshToken, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[rt.ID] = &rt
	return rt, nil
}

func (repo *refreshTokenRepository) GetRefreshTokenByID(ctx context.Context, id string) (auth.RefreshToken, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rt, ok := repo.db.table[id]; ok {
		return *rt, nil
	}
	return auth.RefreshToken{}, auth.ErrInvalidToken
}

// RotateRefreshToken performs the delete and the insert under one lock so no
// reader ever sees both tokens live.
func (repo *refreshTokenRepository) RotateRefreshToken(ctx context.Context, oldID string, rt auth.RefreshToken) (auth.RefreshToken, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[oldID]; !ok {
		return auth.RefreshToken{}, auth.ErrInvalidToken
	}
	delete(repo.db.table, oldID)
	repo.db.table[rt.ID] = &rt
	return rt, nil
}

func (repo *refreshTokenRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	now := time.Now().UTC()
	for _, rt := range repo.db.table {
		if rt.UserID == userID && !rt.Revoked {
			rt.Revoked = true
			rt.UpdatedAt = now
		}
	}
	return nil
}
