package server

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/zizul/sailboat/internal/config"
	"github.com/zizul/sailboat/pkg/models"
)

// JWTValidator handles JWT token validation
type JWTValidator struct {
	config *config.Config
	redis  *redis.Client
	ctx    context.Context
}

// Claims represents JWT token claims issued by the account service
type Claims struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	Permissions int64  `json:"permissions"`
	jwt.RegisteredClaims
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.Config, redisClient *redis.Client) (*JWTValidator, error) {
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}

	validator := &JWTValidator{
		config: cfg,
		redis:  redisClient,
		ctx:    context.Background(),
	}

	log.Println("JWT validator initialized")
	return validator, nil
}

// ValidateToken validates a JWT token and returns client information
func (v *JWTValidator) ValidateToken(tokenString string) (*models.Client, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.config.JWT.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if v.config.JWT.Issuer != "" && claims.Issuer != v.config.JWT.Issuer {
		return nil, fmt.Errorf("unexpected token issuer: %s", claims.Issuer)
	}

	// Check the revocation blacklist
	if claims.ID != "" {
		revoked, err := v.isRevoked(claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("token has been revoked")
		}
	}

	client := &models.Client{
		ID:          strconv.FormatInt(claims.UserID, 10),
		Username:    claims.Username,
		Permissions: claims.Permissions,
	}

	return client, nil
}

// isRevoked checks whether the token ID is on the Redis blacklist
func (v *JWTValidator) isRevoked(tokenID string) (bool, error) {
	key := v.config.Redis.BlacklistPrefix + tokenID
	n, err := v.redis.Exists(v.ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
