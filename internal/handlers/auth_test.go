package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/accounts/internal/config"
	"github.com/example/accounts/internal/middleware"
	"github.com/example/accounts/internal/models"
	"github.com/example/accounts/internal/services"
	"github.com/example/accounts/internal/store"
	"github.com/example/accounts/internal/utils"
)

// -------- test fakes --------

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserStore) Create(user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrEmailTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) ByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) ByID(id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) Update(user *models.User) error {
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Delete(id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) List(q store.ListQuery) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserStore) CountAdmins() (int64, error) {
	var count int64
	for _, u := range f.users {
		if u.IsAdmin {
			count++
		}
	}
	return count, nil
}

type fakeOTPStore struct {
	codes  map[string]string
	issued int
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: map[string]string{}}
}

func (f *fakeOTPStore) Issue(userID uuid.UUID, kind models.CodeKind) (string, error) {
	f.issued++
	code := fmt.Sprintf("%06d", f.issued)
	f.codes[userID.String()+"/"+string(kind)] = code
	return code, nil
}

func (f *fakeOTPStore) Verify(userID uuid.UUID, kind models.CodeKind, code string) (store.Outcome, error) {
	key := userID.String() + "/" + string(kind)
	live, ok := f.codes[key]
	if !ok || live != code {
		return store.OutcomeInvalid, nil
	}
	delete(f.codes, key)
	return store.OutcomeValid, nil
}

type fakeMailer struct {
	sent int
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.sent++
	return nil
}

type envelope struct {
	Success    bool                `json:"success"`
	ReturnCode string              `json:"return_code"`
	Message    string              `json:"message"`
	Data       map[string]any      `json:"data"`
	Errors     map[string][]string `json:"errors"`
}

type testApp struct {
	app   *fiber.App
	users *fakeUserStore
	codes *fakeOTPStore
	mail  *fakeMailer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		OTPTTL:          10 * time.Minute,
	}

	users := newFakeUserStore()
	codes := newFakeOTPStore()
	mail := &fakeMailer{}

	authService := services.NewAuthService(users, codes, mail, cfg)

	authHandler := NewAuthHandler(authService)
	resetHandler := NewPasswordResetHandler(authService)
	profileHandler := NewProfileHandler(authService)
	adminHandler := NewAdminHandler(authService)

	app := fiber.New()
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/forgot-password", resetHandler.ForgotPassword)
	auth.Post("/reset-password", resetHandler.ResetPassword)

	protected := api.Group("", middleware.Authenticate(cfg, users))
	protected.Post("/auth/change-password", authHandler.ChangePassword)
	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Put("/users/:id", adminHandler.EditUser)

	admin := protected.Group("/users", middleware.RequireAdmin())
	admin.Get("/", adminHandler.ListUsers)
	admin.Post("/", adminHandler.AddUser)
	admin.Delete("/:id", adminHandler.DeleteUser)

	return &testApp{app: app, users: users, codes: codes, mail: mail}
}

func (ta *testApp) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func registration() map[string]any {
	return map[string]any{
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"email":            "a@b.com",
		"address":          "12 Analytical Lane",
		"password":         "Abcd123!",
		"confirm_password": "Abcd123!",
	}
}

// Full register -> verify -> login scenario over HTTP.
func TestRegisterVerifyLoginScenario(t *testing.T) {
	ta := newTestApp(t)

	status, env := ta.do(t, http.MethodPost, "/api/auth/register", "", registration())
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)
	assert.Equal(t, "REGISTRATION_SUCCESS", env.ReturnCode)

	user := env.Data["user"].(map[string]any)
	assert.Equal(t, false, user["is_verified"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
	assert.Equal(t, 1, ta.codes.issued)

	// Wrong code.
	status, env = ta.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{
		"email": "a@b.com", "otp": "999999",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "OTP_INVALID", env.ReturnCode)

	// Right code.
	status, env = ta.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{
		"email": "a@b.com", "otp": "000001",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OTP_VERIFIED", env.ReturnCode)
	assert.Equal(t, true, env.Data["user"].(map[string]any)["is_verified"])

	// Login issues both tokens.
	status, env = ta.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "a@b.com", "password": "Abcd123!",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "LOGIN_SUCCESS", env.ReturnCode)
	assert.NotEmpty(t, env.Data["access_token"])
	assert.NotEmpty(t, env.Data["refresh_token"])
	assert.Equal(t, "User", env.Data["role"])
}

func TestLoginUnverifiedIs403AndResendsOTP(t *testing.T) {
	ta := newTestApp(t)

	status, _ := ta.do(t, http.MethodPost, "/api/auth/register", "", registration())
	require.Equal(t, http.StatusCreated, status)

	status, env := ta.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "a@b.com", "password": "Abcd123!",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "ACCOUNT_NOT_VERIFIED", env.ReturnCode)
	assert.Equal(t, 2, ta.codes.issued)
}

func TestLoginDoesNotRevealWhichCredentialFailed(t *testing.T) {
	ta := newTestApp(t)

	status, _ := ta.do(t, http.MethodPost, "/api/auth/register", "", registration())
	require.Equal(t, http.StatusCreated, status)

	statusUnknown, envUnknown := ta.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "nobody@b.com", "password": "Abcd123!",
	})
	statusWrong, envWrong := ta.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "a@b.com", "password": "Wrong123!",
	})

	assert.Equal(t, http.StatusUnauthorized, statusUnknown)
	assert.Equal(t, statusUnknown, statusWrong)
	assert.Equal(t, envUnknown.ReturnCode, envWrong.ReturnCode)
	assert.Equal(t, envUnknown.Message, envWrong.Message)
}

func TestRegisterMismatchReportedFirst(t *testing.T) {
	ta := newTestApp(t)

	body := registration()
	body["email"] = "not-an-email"
	body["confirm_password"] = "Other456$"

	status, env := ta.do(t, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "PASSWORDS_DO_NOT_MATCH", env.ReturnCode)
	assert.Contains(t, env.Errors, "confirm_password")
}

func TestForgotPasswordEnvelopesAreIndistinguishable(t *testing.T) {
	ta := newTestApp(t)

	status, _ := ta.do(t, http.MethodPost, "/api/auth/register", "", registration())
	require.Equal(t, http.StatusCreated, status)

	statusReal, envReal := ta.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]any{
		"email": "a@b.com",
	})
	statusFake, envFake := ta.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]any{
		"email": "ghost@b.com",
	})

	assert.Equal(t, http.StatusOK, statusReal)
	assert.Equal(t, statusReal, statusFake)
	assert.Equal(t, "PASSWORD_RESET_EMAIL_SENT", envReal.ReturnCode)
	assert.Equal(t, envReal.ReturnCode, envFake.ReturnCode)
	assert.Equal(t, envReal.Message, envFake.Message)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	ta := newTestApp(t)

	status, env := ta.do(t, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_INVALID", env.ReturnCode)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	ta := newTestApp(t)

	status, _ := ta.do(t, http.MethodPost, "/api/auth/register", "", registration())
	require.Equal(t, http.StatusCreated, status)
	_, env := ta.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{
		"email": "a@b.com", "otp": "000001",
	})
	require.True(t, env.Success)

	status, env = ta.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "a@b.com", "password": "Abcd123!",
	})
	require.Equal(t, http.StatusOK, status)
	token := env.Data["access_token"].(string)

	// A plain user can read their profile...
	status, env = ta.do(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PROFILE_RETRIEVED", env.ReturnCode)

	// ...but not list users.
	status, env = ta.do(t, http.MethodGet, "/api/users/", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "PERMISSION_DENIED", env.ReturnCode)
}

func TestAdminCanManageUsers(t *testing.T) {
	ta := newTestApp(t)

	// Seed an admin directly in the store.
	adminUser := &models.User{
		FirstName: "Root", LastName: "Admin", Email: "root@b.com",
		IsVerified: true, IsAdmin: true,
	}
	require.NoError(t, ta.users.Create(adminUser))

	token, err := utils.GenerateToken("test-secret", adminUser.ID, utils.TokenKindAccess, time.Hour)
	require.NoError(t, err)

	status, env := ta.do(t, http.MethodPost, "/api/users/", token, map[string]any{
		"first_name":       "Eve",
		"last_name":        "Adams",
		"email":            "eve@b.com",
		"address":          "1 First Street",
		"password":         "Abcd123!",
		"confirm_password": "Abcd123!",
	})
	require.Equal(t, http.StatusCreated, status)
	created := env.Data["user"].(map[string]any)
	assert.Equal(t, true, created["is_verified"])
	assert.Equal(t, 0, ta.codes.issued)

	status, env = ta.do(t, http.MethodGet, "/api/users/", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "USERS_LIST_RETRIEVED", env.ReturnCode)

	createdID := created["id"].(string)
	status, env = ta.do(t, http.MethodDelete, "/api/users/"+createdID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "USER_DELETED_SUCCESS", env.ReturnCode)

	status, env = ta.do(t, http.MethodDelete, "/api/users/"+createdID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "USER_NOT_FOUND", env.ReturnCode)
}
