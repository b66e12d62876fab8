package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrTokenRevoked is returned when a refresh token was already used or the
// learner logged out.
var ErrTokenRevoked = errors.New("refresh token revoked")

type Service struct {
	jwt *JWTManager
	rdb redis.Cmdable
}

func NewService(jwt *JWTManager, rdb redis.Cmdable) *Service {
	return &Service{jwt: jwt, rdb: rdb}
}

func refreshKey(userID, tokenID string) string {
	return fmt.Sprintf("refresh:%s:%s", userID, tokenID)
}

func (s *Service) GenerateTokens(ctx context.Context, id Identity) (*TokenPair, error) {
	pair, tokenID, err := s.jwt.GenerateTokenPair(id)
	if err != nil {
		return nil, err
	}

	if err := s.rdb.Set(ctx, refreshKey(id.UserID, tokenID), "1", s.jwt.RefreshExpiry()).Err(); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}
	return pair, nil
}

// RefreshTokens rotates a refresh token: the presented one is revoked and a
// new pair is issued for the same identity.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	deleted, err := s.rdb.Del(ctx, refreshKey(claims.UserID, claims.TokenID)).Result()
	if err != nil {
		return nil, fmt.Errorf("revoking refresh token: %w", err)
	}
	if deleted == 0 {
		return nil, ErrTokenRevoked
	}

	return s.GenerateTokens(ctx, claims.Identity)
}

// Logout deletes every refresh token of the learner.
func (s *Service) Logout(ctx context.Context, userID string) error {
	iter := s.rdb.Scan(ctx, 0, refreshKey(userID, "*"), 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("deleting refresh token: %w", err)
		}
	}
	return iter.Err()
}

func (s *Service) ValidateAccessToken(token string) (*AccessClaims, error) {
	return s.jwt.ValidateAccessToken(token)
}
