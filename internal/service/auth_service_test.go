package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"blog_api/internal/models"
)

func newTestAuth(t *testing.T, users *fakeUsers, clock *fixedClock) *AuthService {
	t.Helper()
	svc := NewAuthService(users, newTestTokenManager(users, clock), cheapHasher, time.Hour)
	svc.now = clock.now
	return svc
}

func validSignUp() SignUpInput {
	return SignUpInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     " Ada@Example.com ",
		Username:  "ada",
		Password:  "s3cr3t",
	}
}

// --- SignUp tests ---

func TestAuthService_SignUp_HashesPassword(t *testing.T) {
	users := newFakeUsers()
	svc := newTestAuth(t, users, &fixedClock{t: t0})

	id, err := svc.SignUp(context.Background(), validSignUp())
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	stored := users.byID[id]
	if stored == nil {
		t.Fatalf("user %d not stored", id)
	}
	if stored.PasswordHash == "s3cr3t" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if !cheapHasher.Verify(stored.PasswordHash, "s3cr3t") {
		t.Errorf("stored hash does not verify with original password")
	}
	if stored.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", stored.Email)
	}
	if stored.Token != "" {
		t.Errorf("new user must not hold a token")
	}
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	long := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}
	cases := []struct {
		name   string
		mutate func(*SignUpInput)
		field  string
	}{
		{"missing first name", func(in *SignUpInput) { in.FirstName = " " }, "firstName"},
		{"long last name", func(in *SignUpInput) { in.LastName = long(51) }, "lastName"},
		{"bad email", func(in *SignUpInput) { in.Email = "nope" }, "email"},
		{"long email", func(in *SignUpInput) { in.Email = long(70) + "@x.com" }, "email"},
		{"missing username", func(in *SignUpInput) { in.Username = "" }, "username"},
		{"blank password", func(in *SignUpInput) { in.Password = "   " }, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := newFakeUsers()
			svc := newTestAuth(t, users, &fixedClock{t: t0})
			in := validSignUp()
			tc.mutate(&in)

			_, err := svc.SignUp(context.Background(), in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("field: got %q, want %q", verr.Field, tc.field)
			}
			if len(users.byID) != 0 {
				t.Fatalf("no user should be created")
			}
		})
	}
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	users := newFakeUsers(&models.User{ID: 1, Username: "ada", Email: "other@example.com"})
	svc := newTestAuth(t, users, &fixedClock{t: t0})

	_, err := svc.SignUp(context.Background(), validSignUp())
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_SignUp_RepoError(t *testing.T) {
	users := newFakeUsers()
	users.createErr = errors.New("db down")
	svc := newTestAuth(t, users, &fixedClock{t: t0})

	if _, err := svc.SignUp(context.Background(), validSignUp()); err == nil {
		t.Fatalf("expected repo error, got nil")
	}
}

// --- SignIn tests ---

func seededAuth(t *testing.T, clock *fixedClock) (*AuthService, *fakeUsers) {
	t.Helper()
	hash, err := cheapHasher.Hash("letmein")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	users := newFakeUsers(&models.User{ID: 7, Username: "diana", PasswordHash: hash})
	return newTestAuth(t, users, clock), users
}

func TestAuthService_SignIn_IssuesThenReuses(t *testing.T) {
	clock := &fixedClock{t: t0}
	svc, users := seededAuth(t, clock)

	tok, exp, err := svc.SignIn(context.Background(), "diana", "letmein")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if tok == "" || !exp.Equal(t0.Add(time.Hour)) {
		t.Fatalf("unexpected token/expiry: %q %v", tok, exp)
	}

	clock.t = t0.Add(30 * time.Minute)
	again, exp2, err := svc.SignIn(context.Background(), "diana", "letmein")
	if err != nil {
		t.Fatalf("second SignIn: %v", err)
	}
	if again != tok || !exp2.Equal(exp) {
		t.Fatalf("expected reuse of %q, got %q", tok, again)
	}
	if users.saveTokenCalls != 1 {
		t.Fatalf("expected a single commit, got %d", users.saveTokenCalls)
	}
}

func TestAuthService_SignIn_Failures(t *testing.T) {
	svc, _ := seededAuth(t, &fixedClock{t: t0})

	if _, _, err := svc.SignIn(context.Background(), "ghost", "pw"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, _, err := svc.SignIn(context.Background(), "diana", "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestAuthService_SignIn_RepoError(t *testing.T) {
	svc, users := seededAuth(t, &fixedClock{t: t0})
	users.getErr = errors.New("query failed")

	if _, _, err := svc.SignIn(context.Background(), "diana", "letmein"); err == nil {
		t.Fatalf("expected repo error, got nil")
	}
}

// --- Authenticate / SignOut tests ---

func TestAuthService_AuthenticateAndSignOut(t *testing.T) {
	clock := &fixedClock{t: t0}
	svc, _ := seededAuth(t, clock)
	ctx := context.Background()

	tok, _, err := svc.SignIn(ctx, "diana", "letmein")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	u, err := svc.Authenticate(ctx, tok)
	if err != nil || u.ID != 7 {
		t.Fatalf("Authenticate: %+v, %v", u, err)
	}

	if err := svc.SignOut(ctx, 7); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := svc.Authenticate(ctx, tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("revoked token must fail, got %v", err)
	}

	// a new sign-in after revoke yields a different token
	fresh, _, err := svc.SignIn(ctx, "diana", "letmein")
	if err != nil || fresh == tok {
		t.Fatalf("expected new token after revoke, got %q (%v)", fresh, err)
	}
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	clock := &fixedClock{t: t0}
	svc, _ := seededAuth(t, clock)
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("empty token: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "unknown"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("unknown token: %v", err)
	}

	tok, _, _ := svc.SignIn(ctx, "diana", "letmein")
	clock.t = t0.Add(time.Hour) // exactly at expiry
	if _, err := svc.Authenticate(ctx, tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: %v", err)
	}
}

func TestAuthService_SignOut_UnknownUser(t *testing.T) {
	svc, _ := seededAuth(t, &fixedClock{t: t0})
	if err := svc.SignOut(context.Background(), 404); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
