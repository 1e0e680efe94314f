package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/smarttutor-backend/internal/data/repos/testutil"
	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/platform/ctxutil"
)

func TestAuthSignupLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess, err := env.auth.Signup(ctx, api.SignupRequest{Email: "Ada@Example.com", Name: "Ada", Password: "pw-1234"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if sess.SessionToken == "" || sess.Email != "ada@example.com" {
		t.Fatalf("session=%+v", sess)
	}

	authed, err := env.auth.SetContextFromToken(ctx, sess.SessionToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if got := ctxutil.UserID(authed); got != sess.ID {
		t.Fatalf("user id=%s want %s", got, sess.ID)
	}

	me, err := env.auth.Me(authed)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.Name != "Ada" || me.LastLogin == nil || len(me.CoursesEnrolled) != 0 {
		t.Fatalf("me=%+v", me)
	}

	_, err = env.auth.Signup(ctx, api.SignupRequest{Email: "ada@example.com", Name: "Other"})
	wantAPIErr(t, err, http.StatusBadRequest, "user_exists")

	_, err = env.auth.Login(ctx, api.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	wantAPIErr(t, err, http.StatusUnauthorized, "invalid_credentials")
	_, err = env.auth.Login(ctx, api.LoginRequest{Email: "nobody@example.com", Password: "pw-1234"})
	wantAPIErr(t, err, http.StatusUnauthorized, "invalid_credentials")

	second, err := env.auth.Login(ctx, api.LoginRequest{Email: "ADA@example.com", Password: "pw-1234"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if second.SessionToken == sess.SessionToken {
		t.Fatalf("login reused the signup token")
	}

	if err := env.auth.Logout(authed); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	for _, tok := range []string{sess.SessionToken, second.SessionToken} {
		if _, err := env.auth.SetContextFromToken(ctx, tok); err == nil {
			t.Fatalf("token still valid after logout")
		}
	}
}

func TestAuthSignupWithoutPasswordCannotLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.auth.Signup(ctx, api.SignupRequest{Email: "nopw@example.com", Name: "No PW"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	_, err := env.auth.Login(ctx, api.LoginRequest{Email: "nopw@example.com", Password: ""})
	wantAPIErr(t, err, http.StatusUnauthorized, "invalid_credentials")
}

func TestAuthRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess, err := env.auth.Signup(ctx, api.SignupRequest{Email: "tok@example.com", Name: "Tok", Password: "pw"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	cases := map[string]string{
		"empty":    "",
		"unknown":  "opaque-unknown",
		"tampered": sess.SessionToken + "x",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := env.auth.SetContextFromToken(ctx, tok); err == nil {
				t.Fatalf("expected rejection")
			}
		})
	}
}

func TestAuthExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess, err := env.auth.Signup(ctx, api.SignupRequest{Email: "exp@example.com", Name: "Exp", Password: "pw"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	svc := env.auth.(*authService)
	svc.now = func() time.Time { return time.Now().UTC().Add(8 * 24 * time.Hour) }

	if _, err := env.auth.SetContextFromToken(ctx, sess.SessionToken); err == nil {
		t.Fatalf("expected expired session to be rejected")
	}
}

func TestAuthExchangeSession(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("X-Session-ID") {
		case "good":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"p1","email":"OAuth@Example.com","name":"OAuth User","picture":"https://img/p.png","session_token":"provider-token"}`))
		case "renamed":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"p1","email":"oauth@example.com","name":"Renamed User","session_token":"provider-token-2"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer provider.Close()

	env := newTestEnv(t)
	env.auth = NewAuthService(env.db, testutil.Logger(t), env.users, env.sessions, nil, AuthConfig{
		JWTSecret:       "test-secret",
		OAuthSessionURL: provider.URL,
	})
	ctx := context.Background()

	sess, err := env.auth.ExchangeSession(ctx, "good")
	if err != nil {
		t.Fatalf("ExchangeSession: %v", err)
	}
	if sess.Email != "oauth@example.com" || sess.SessionToken != "provider-token" {
		t.Fatalf("session=%+v", sess)
	}

	again, err := env.auth.ExchangeSession(ctx, "good")
	if err != nil {
		t.Fatalf("ExchangeSession(again): %v", err)
	}
	if again.ID != sess.ID {
		t.Fatalf("second exchange created a new user")
	}

	renamed, err := env.auth.ExchangeSession(ctx, "renamed")
	if err != nil {
		t.Fatalf("ExchangeSession(renamed): %v", err)
	}
	if renamed.ID != sess.ID || renamed.Name != "Renamed User" || renamed.Picture != "https://img/p.png" {
		t.Fatalf("renamed session=%+v", renamed)
	}
	users, err := env.users.GetByIDs(ctx, nil, []uuid.UUID{sess.ID})
	if err != nil || len(users) != 1 || users[0].Name != "Renamed User" {
		t.Fatalf("stored user=%v err=%v", users, err)
	}

	authed, err := env.auth.SetContextFromToken(ctx, "provider-token")
	if err != nil {
		t.Fatalf("SetContextFromToken(provider token): %v", err)
	}
	if ctxutil.UserID(authed) != sess.ID {
		t.Fatalf("provider token resolved to the wrong user")
	}

	_, err = env.auth.ExchangeSession(ctx, "bad")
	wantAPIErr(t, err, http.StatusBadRequest, "invalid_session")
	_, err = env.auth.ExchangeSession(ctx, "  ")
	wantAPIErr(t, err, http.StatusBadRequest, "session_id_required")
}

func TestAuthRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.auth.Me(context.Background()); err == nil {
		t.Fatalf("Me without identity should fail")
	}
	_, err := env.auth.Me(asUser(uuid.New()))
	wantAPIErr(t, err, http.StatusUnauthorized, "unauthorized")
}
