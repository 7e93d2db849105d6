package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lancerhub/lancerhub_be/internal/apperr"
	"github.com/lancerhub/lancerhub_be/internal/logger"
	"github.com/lancerhub/lancerhub_be/internal/models"
	"github.com/lancerhub/lancerhub_be/internal/utils"
)

const profileCacheTTL = 15 * time.Minute

// Resolver turns a bearer token into a session state. Profile rows are
// cached in Redis per user and dropped on sign-out.
type Resolver struct {
	DB        *gorm.DB
	RDB       *redis.Client
	JWTSecret string
}

func NewResolver(db *gorm.DB, rdb *redis.Client, secret string) *Resolver {
	return &Resolver{DB: db, RDB: rdb, JWTSecret: secret}
}

// Resolve runs one resolution cycle. An empty or invalid token resolves to
// Anonymous; a valid token whose profile row does not exist yet resolves to
// Authenticated with a nil profile.
func (r *Resolver) Resolve(ctx context.Context, token string) (State, error) {
	if token == "" {
		return Anonymous(), nil
	}

	claims, err := utils.ParseJWT(r.JWTSecret, token)
	if err != nil {
		return Anonymous(), nil
	}

	uid, err := uuidFromClaims(claims)
	if err != nil {
		return Anonymous(), nil
	}

	profile, err := r.loadProfile(ctx, uid.String())
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return Authenticated(uid, nil), nil
		}
		return Anonymous(), err
	}

	return Authenticated(uid, profile), nil
}

// SignOut discards everything cached for the session; the next cycle starts
// from the store.
func (r *Resolver) SignOut(ctx context.Context, userID string) {
	if err := r.RDB.Del(ctx, profileKey(userID)).Err(); err != nil {
		logger.L().Warn("session cache invalidation failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}

func (r *Resolver) loadProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if raw, err := r.RDB.Get(ctx, profileKey(userID)).Bytes(); err == nil {
		var cached models.Profile
		if json.Unmarshal(raw, &cached) == nil {
			return &cached, nil
		}
	}

	var profile models.Profile
	if err := r.DB.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("profile")
		}
		return nil, apperr.Wrap(err, apperr.KindStoreUnavailable, "profile lookup failed")
	}

	if raw, err := json.Marshal(&profile); err == nil {
		if err := r.RDB.Set(ctx, profileKey(userID), raw, profileCacheTTL).Err(); err != nil {
			logger.L().Debug("profile cache write skipped", zap.Error(err))
		}
	}

	return &profile, nil
}

func profileKey(userID string) string { return "session:profile:" + userID }

func uuidFromClaims(claims *utils.Claims) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(claims.UserID))
}
