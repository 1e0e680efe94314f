package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/smarttutor-backend/internal/clients/redis"
	"github.com/yungbote/smarttutor-backend/internal/data/repos"
	types "github.com/yungbote/smarttutor-backend/internal/domain"
	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/platform/apierr"
	"github.com/yungbote/smarttutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionRequired    = errors.New("session id required")
	ErrInvalidSession     = errors.New("invalid session")
	ErrUnauthenticated    = errors.New("authentication required")
)

type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	// OAuthSessionURL is the provider endpoint that turns an X-Session-ID into
	// user data. Empty disables the exchange.
	OAuthSessionURL string
	HTTPTimeout     time.Duration
}

type AuthService interface {
	Signup(ctx context.Context, req api.SignupRequest) (*api.Session, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.Session, error)
	ExchangeSession(ctx context.Context, sessionID string) (*api.Session, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*api.User, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	SessionTTL() time.Duration
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	sessionRepo repos.UserSessionRepo
	cache       redis.SessionCache
	oauth       *resty.Client
	cfg         AuthConfig
	now         func() time.Time
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	sessionRepo repos.UserSessionRepo,
	cache redis.SessionCache,
	cfg AuthConfig,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if cache == nil {
		cache = redis.NopSessionCache()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}
	return &authService{
		db:          db,
		log:         serviceLog,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cache:       cache,
		oauth:       resty.New().SetTimeout(cfg.HTTPTimeout),
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (as *authService) SessionTTL() time.Duration { return as.cfg.SessionTTL }

func (as *authService) Signup(ctx context.Context, req api.SignupRequest) (*api.Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, apierr.BadRequest("validation_error", fmt.Errorf("email and name are required"))
	}

	var hash string
	if req.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(b)
	}

	var session *api.Session
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := as.userRepo.EmailExists(ctx, tx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return apierr.BadRequest("user_exists", ErrUserExists)
		}
		now := as.now()
		u := &types.User{
			ID:              uuid.New(),
			Email:           email,
			Name:            name,
			Picture:         req.Picture,
			PasswordHash:    hash,
			CoursesEnrolled: datatypes.JSON([]byte("[]")),
			Badges:          datatypes.JSON([]byte("[]")),
			LastLogin:       &now,
		}
		if _, err := as.userRepo.Create(ctx, tx, []*types.User{u}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		token, err := as.issueSession(ctx, tx, u.ID)
		if err != nil {
			return err
		}
		session = toAPISession(u, token)
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User signed up", "user_id", session.ID)
	return session, nil
}

func (as *authService) Login(ctx context.Context, req api.LoginRequest) (*api.Session, error) {
	users, err := as.userRepo.GetByEmails(ctx, nil, []string{req.Email})
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if len(users) == 0 || users[0].PasswordHash == "" {
		return nil, apierr.Unauthorized("invalid_credentials", ErrInvalidCredentials)
	}
	u := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierr.Unauthorized("invalid_credentials", ErrInvalidCredentials)
	}

	var token string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userRepo.TouchLogin(ctx, tx, u.ID, as.now()); err != nil {
			return fmt.Errorf("update last login: %w", err)
		}
		t, err := as.issueSession(ctx, tx, u.ID)
		if err != nil {
			return err
		}
		token = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAPISession(u, token), nil
}

type oauthSessionData struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// ExchangeSession trades a provider session id for user data, creating the
// user on first sight, and stores the provider's token as a local session.
func (as *authService) ExchangeSession(ctx context.Context, sessionID string) (*api.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apierr.BadRequest("session_id_required", ErrSessionRequired)
	}
	if as.cfg.OAuthSessionURL == "" {
		return nil, apierr.New(http.StatusServiceUnavailable, "oauth_not_configured", fmt.Errorf("oauth session exchange is not configured"))
	}

	var data oauthSessionData
	resp, err := as.oauth.R().
		SetContext(ctx).
		SetHeader("X-Session-ID", sessionID).
		SetResult(&data).
		Get(as.cfg.OAuthSessionURL)
	if err != nil {
		as.log.Warn("OAuth session exchange failed", "error", err)
		return nil, apierr.New(http.StatusBadGateway, "oauth_unavailable", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apierr.BadRequest("invalid_session", ErrInvalidSession)
	}
	data.Email = strings.ToLower(strings.TrimSpace(data.Email))
	if data.Email == "" || data.SessionToken == "" {
		return nil, apierr.BadRequest("invalid_session", fmt.Errorf("%w: incomplete provider data", ErrInvalidSession))
	}

	var u *types.User
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := as.now()
		found, err := as.userRepo.GetByEmails(ctx, tx, []string{data.Email})
		if err != nil {
			return fmt.Errorf("lookup user: %w", err)
		}
		if len(found) == 0 {
			u = &types.User{
				ID:              uuid.New(),
				Email:           data.Email,
				Name:            data.Name,
				Picture:         data.Picture,
				CoursesEnrolled: datatypes.JSON([]byte("[]")),
				Badges:          datatypes.JSON([]byte("[]")),
				LastLogin:       &now,
			}
			if _, err := as.userRepo.Create(ctx, tx, []*types.User{u}); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
		} else {
			u = found[0]
			name, picture := u.Name, u.Picture
			if data.Name != "" {
				name = data.Name
			}
			if data.Picture != "" {
				picture = data.Picture
			}
			if name != u.Name || picture != u.Picture {
				if err := as.userRepo.UpdateProfile(ctx, tx, u.ID, name, picture); err != nil {
					return fmt.Errorf("refresh profile: %w", err)
				}
				u.Name, u.Picture = name, picture
			}
			if err := as.userRepo.TouchLogin(ctx, tx, u.ID, now); err != nil {
				return fmt.Errorf("update last login: %w", err)
			}
		}
		existing, err := as.sessionRepo.GetActiveByToken(ctx, tx, data.SessionToken, now)
		if err != nil {
			return fmt.Errorf("lookup session: %w", err)
		}
		if existing != nil {
			if existing.UserID != u.ID {
				return apierr.BadRequest("invalid_session", ErrInvalidSession)
			}
			return nil
		}
		return as.storeSession(ctx, tx, u.ID, data.SessionToken)
	})
	if err != nil {
		return nil, err
	}
	return toAPISession(u, data.SessionToken), nil
}

// Logout removes every session of the current user.
func (as *authService) Logout(ctx context.Context) error {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}
	sessions, err := as.sessionRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	if err := as.sessionRepo.DeleteByUserIDs(ctx, nil, []uuid.UUID{userID}); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	tokens := make([]string, 0, len(sessions))
	for _, s := range sessions {
		tokens = append(tokens, s.SessionToken)
	}
	if err := as.cache.Delete(ctx, tokens...); err != nil {
		as.log.Warn("Session cache delete failed", "error", err)
	}
	as.log.Info("User logged out", "user_id", userID, "sessions", len(sessions))
	return nil
}

func (as *authService) Me(ctx context.Context) (*api.User, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}
	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.Unauthorized("unauthorized", ErrUnauthenticated)
	}
	out := toAPIUser(as.log, users[0])
	return &out, nil
}

// SetContextFromToken resolves a session token to its user and attaches the
// request data. Locally issued JWTs are also checked for signature and expiry;
// provider tokens are opaque and rely on the session row alone.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, ErrUnauthenticated
	}

	var subject uuid.UUID
	if strings.Count(tokenString, ".") == 2 {
		claims := &JWTClaims{}
		parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(as.cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !parsed.Valid {
			return ctx, fmt.Errorf("invalid or expired token")
		}
		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			return ctx, fmt.Errorf("invalid user id in token: %w", err)
		}
		subject = id
	}

	userID, err := as.cache.Get(ctx, tokenString)
	if err != nil {
		as.log.Warn("Session cache get failed", "error", err)
		userID = uuid.Nil
	}
	if userID == uuid.Nil {
		now := as.now()
		s, err := as.sessionRepo.GetActiveByToken(ctx, nil, tokenString, now)
		if err != nil {
			return ctx, fmt.Errorf("lookup session: %w", err)
		}
		if s == nil {
			return ctx, fmt.Errorf("session expired or revoked")
		}
		userID = s.UserID
		if err := as.cache.Set(ctx, tokenString, userID, s.ExpiresAt.Sub(now)); err != nil {
			as.log.Warn("Session cache set failed", "error", err)
		}
	}
	if subject != uuid.Nil && subject != userID {
		return ctx, fmt.Errorf("token subject does not match session")
	}

	rd := &ctxutil.RequestData{
		UserID:       userID,
		SessionToken: tokenString,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) issueSession(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (string, error) {
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.cfg.SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := as.storeSession(ctx, tx, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

func (as *authService) storeSession(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string) error {
	s := &types.UserSession{
		ID:           uuid.New(),
		UserID:       userID,
		SessionToken: token,
		ExpiresAt:    as.now().Add(as.cfg.SessionTTL),
	}
	if _, err := as.sessionRepo.Create(ctx, tx, []*types.UserSession{s}); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}
