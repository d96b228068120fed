package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gravitas-games/robotplanner/internal/config"
	"github.com/gravitas-games/robotplanner/internal/ctxlog"
	"github.com/gravitas-games/robotplanner/pkg/models"
)

var (
	ErrMissingToken  = errors.New("missing authentication token")
	ErrNotActivated  = errors.New("user not activated")
	ErrBanned        = errors.New("user is banned")
	ErrBlacklisted   = errors.New("token is blacklisted")
	ErrInvalidIssuer = errors.New("invalid issuer")
)

// JWTValidator handles JWT token validation
type JWTValidator struct {
	config          config.AuthConfig
	blacklistPrefix string
	publicKey       *ecdsa.PublicKey
	keyMu           sync.RWMutex
	redis           *redis.Client // nil disables the blacklist
	httpClient      *http.Client
	logger          *slog.Logger
}

// Claims represents JWT token claims from the login server
type Claims struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	AuthMethod  string `json:"auth_method"`
	Permissions int64  `json:"permissions"`
	Activated   int64  `json:"activated"`
	jwt.RegisteredClaims
}

// NewJWTValidator fetches the public key and keeps it fresh until ctx is
// cancelled. redisClient may be nil.
func NewJWTValidator(ctx context.Context, cfg config.AuthConfig, blacklistPrefix string, redisClient *redis.Client) (*JWTValidator, error) {
	v := &JWTValidator{
		config:          cfg,
		blacklistPrefix: blacklistPrefix,
		redis:           redisClient,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		logger:          ctxlog.FromContext(ctx),
	}

	if err := v.RefreshPublicKey(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch public key: %w", err)
	}

	go v.periodicKeyRefresh(ctx)

	v.logger.Info("JWT validator initialized", "issuer", cfg.Issuer)
	return v, nil
}

// RefreshPublicKey fetches the PEM encoded ECDSA key from the configured URL
func (v *JWTValidator) RefreshPublicKey(ctx context.Context) error {
	v.logger.Debug("Fetching public key", "url", v.config.PublicKeyURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.config.PublicKeyURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("public key endpoint returned status %d", resp.StatusCode)
	}

	keyData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read public key: %w", err)
	}

	key, err := parseECDSAPublicKey(keyData)
	if err != nil {
		return err
	}

	v.keyMu.Lock()
	v.publicKey = key
	v.keyMu.Unlock()

	v.logger.Info("Public key refreshed")
	return nil
}

func parseECDSAPublicKey(data []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	key, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not ECDSA")
	}
	return key, nil
}

func (v *JWTValidator) periodicKeyRefresh(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(v.config.PublicKeyRefreshHrs) * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := v.RefreshPublicKey(ctx); err != nil {
				v.logger.Warn("Failed to refresh public key", "error", err)
			}
		}
	}
}

// ValidateToken validates a JWT token and returns the client it identifies
func (v *JWTValidator) ValidateToken(ctx context.Context, tokenString string) (*models.Client, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		v.keyMu.RLock()
		defer v.keyMu.RUnlock()
		return v.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	if claims.Issuer != v.config.Issuer {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrInvalidIssuer, v.config.Issuer, claims.Issuer)
	}

	client := &models.Client{
		ID:          strconv.FormatInt(claims.UserID, 10),
		Username:    claims.Username,
		Email:       claims.Email,
		Permissions: claims.Permissions,
		Activated:   claims.Activated,
		AuthMethod:  claims.AuthMethod,
	}
	if client.IsBanned() {
		return nil, ErrBanned
	}
	if !client.IsActive() {
		return nil, ErrNotActivated
	}

	if v.redis != nil {
		blacklisted, err := v.redis.Exists(ctx, v.blacklistPrefix+client.ID).Result()
		if err != nil {
			// Redis being down must not lock every client out.
			v.logger.Warn("Failed to check blacklist", "user_id", client.ID, "error", err)
		} else if blacklisted > 0 {
			return nil, ErrBlacklisted
		}
	}

	return client, nil
}

// extractToken finds the JWT on a websocket upgrade request.
func extractToken(r *http.Request) string {
	// Format: "access_token, <token>"
	if protocols := r.Header.Get("Sec-WebSocket-Protocol"); protocols != "" {
		parts := strings.Split(protocols, ",")
		if len(parts) == 2 && strings.TrimSpace(parts[0]) == tokenProtocol {
			return strings.TrimSpace(parts[1])
		}
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
		return token
	}

	return r.URL.Query().Get("token")
}
