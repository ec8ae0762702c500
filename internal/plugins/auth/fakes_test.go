package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/aitutor/academy/internal/apperror"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn      func(ctx context.Context, user *User) error
	findByIDFn    func(ctx context.Context, id string) (*User, error)
	findByEmailFn func(ctx context.Context, email string) (*User, error)
	emailExistsFn func(ctx context.Context, email string) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email)
	}
	return false, nil
}

// memUserRepo is an in-memory UserRepository with the same uniqueness rule
// as the users table: exact, case-sensitive email match.
type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*User
	byEmail map[string]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*User{}, byEmail: map[string]*User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return apperror.NewDuplicateAccount()
	}
	u := *user
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = &u
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.NewNotFound("user not found")
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.NewNotFound("user not found")
}

func (r *memUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

// --- Mock Login Recorder ---

// recordedLogin is one captured RecordLogin call.
type recordedLogin struct {
	UserID  *string
	Client  ClientInfo
	Success bool
}

// mockRecorder captures login history writes.
type mockRecorder struct {
	mu      sync.Mutex
	entries []recordedLogin
	err     error
}

func (m *mockRecorder) RecordLogin(_ context.Context, userID *string, client ClientInfo, success bool) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, recordedLogin{UserID: userID, Client: client, Success: success})
	return nil
}

func (m *mockRecorder) all() []recordedLogin {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedLogin(nil), m.entries...)
}

// --- Fake Cookie Store ---

// fakeCookies is an in-memory CookieStore that keeps the last cookie
// written under each name.
type fakeCookies struct {
	cookies map[string]*http.Cookie
}

func newFakeCookies() *fakeCookies {
	return &fakeCookies{cookies: map[string]*http.Cookie{}}
}

func (f *fakeCookies) Get(name string) (string, bool) {
	c, ok := f.cookies[name]
	if !ok {
		return "", false
	}
	return c.Value, true
}

func (f *fakeCookies) Set(cookie *http.Cookie) {
	f.cookies[cookie.Name] = cookie
}

func (f *fakeCookies) Delete(name string) {
	delete(f.cookies, name)
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// assertAppErrorType checks that err is an AppError of the given type.
func assertAppErrorType(t *testing.T, err error, errType string) {
	t.Helper()
	if !apperror.Is(err, errType) {
		t.Fatalf("expected %s error, got %v", errType, err)
	}
}
