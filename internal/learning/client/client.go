// Package client talks to the SmartTutor REST API on behalf of a learner.
// The session cookie set by the login endpoints is kept in a cookie jar and
// a known token is also sent as a bearer header.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/platform/apierr"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

var (
	ErrEmptyTopic         = errors.New("topic is required")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingName        = errors.New("name is required")
	ErrMissingSessionID   = errors.New("session id is required")
)

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Token is a previously issued session token.
	Token string
}

type Client struct {
	http *resty.Client
	log  *logger.Logger
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func New(cfg Config, log *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("client: base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: cookie jar: %w", err)
	}
	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetCookieJar(jar).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}
	return &Client{http: rc, log: log.With("client", "SmartTutorClient")}, nil
}

// Token is the session token currently sent as bearer, if any.
func (c *Client) Token() string { return c.http.Token }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	return c.send(req, method, path, out)
}

func (c *Client) send(req *resty.Request, method, path string, out any) error {
	req.SetError(&errorEnvelope{})
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := http.StatusText(resp.StatusCode())
		code := ""
		if env, ok := resp.Error().(*errorEnvelope); ok && env.Error.Message != "" {
			msg, code = env.Error.Message, env.Error.Code
		}
		c.log.Debug("API error", "method", method, "path", path, "status", resp.StatusCode(), "code", code)
		return apierr.New(resp.StatusCode(), code, errors.New(msg))
	}
	return nil
}

func (c *Client) adopt(s *api.Session) {
	if s != nil && s.SessionToken != "" {
		c.http.SetAuthToken(s.SessionToken)
	}
}

func (c *Client) Signup(ctx context.Context, req api.SignupRequest) (*api.Session, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrMissingName
	}
	var out api.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &out); err != nil {
		return nil, err
	}
	c.adopt(&out)
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*api.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	var out api.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", api.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.adopt(&out)
	return &out, nil
}

// ExchangeSession trades an OAuth provider session id for a SmartTutor
// session.
func (c *Client) ExchangeSession(ctx context.Context, sessionID string) (*api.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrMissingSessionID
	}
	var out api.Session
	req := c.http.R().SetContext(ctx).SetHeader("X-Session-ID", sessionID)
	if err := c.send(req, http.MethodGet, "/api/auth/session-data", &out); err != nil {
		return nil, err
	}
	c.adopt(&out)
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.http.SetAuthToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (*api.User, error) {
	var out api.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCourse(ctx context.Context, req api.CreateCourseRequest) (*api.Course, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return nil, ErrEmptyTopic
	}
	if req.Mode == "" {
		req.Mode = api.ModeMixed
	}
	if req.Language == "" {
		req.Language = "English"
	}
	var out api.Course
	if err := c.do(ctx, http.MethodPost, "/api/create-course", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyCourses(ctx context.Context) ([]api.Course, error) {
	var out []api.Course
	if err := c.do(ctx, http.MethodGet, "/api/my-courses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchQuiz(ctx context.Context, lessonID uuid.UUID) (*api.Quiz, error) {
	var out api.Quiz
	if err := c.do(ctx, http.MethodGet, "/api/quiz/"+lessonID.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PushProgress(ctx context.Context, payload api.ProgressPayload) error {
	return c.do(ctx, http.MethodPost, "/api/progress", payload, &api.Message{})
}

func (c *Client) Progress(ctx context.Context) ([]api.Progress, error) {
	var out []api.Progress
	if err := c.do(ctx, http.MethodGet, "/api/progress", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CourseProgress returns the stored record for courseID, or nil when the
// learner has none yet.
// CourseProgress returns the stored record for courseID, or nil when the
// learner has none yet.
func (c *Client) CourseProgress(ctx context.Context, courseID uuid.UUID) (*api.Progress, error) {
	var out api.Progress
	err := c.do(ctx, http.MethodGet, "/api/progress/"+courseID.String(), nil, &out)
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status == http.StatusNotFound && ae.Code == "progress_not_found" {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Dashboard(ctx context.Context) (*api.Dashboard, error) {
	var out api.Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
