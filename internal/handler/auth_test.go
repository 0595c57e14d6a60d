package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"nutripae/internal/config"
	"nutripae/internal/dto"
	"nutripae/internal/middleware"
	"nutripae/internal/model"
	"nutripae/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── In-memory repository stub ────────────────────────────────────────────────

type stubUsuarioRepo struct {
	users map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	u.ID = uuid.New()
	r.users[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.users[username]
	if !ok || !u.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	users := make([]model.Usuario, 0, len(r.users))
	for _, u := range r.users {
		if u.Activo || incluirInactivos {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.users[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Activo = activo
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Helpers ──────────────────────────────────────────────────────────────────

const authTestSecret = "test_jwt_secret_32_chars_minimum!"

func seedUsuario(t *testing.T, repo *stubUsuarioRepo, username, password, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		ID: uuid.New(), Username: username, Nombre: "Operador de prueba",
		PasswordHash: string(hash), Rol: rol, Activo: true,
	}
	repo.users[username] = u
	return u
}

func newAuthRouter(repo *stubUsuarioRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewAuthService(repo, &config.Config{
		JWTSecret:          authTestSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	})
	authH := NewAuthHandler(svc)
	usuariosH := NewUsuariosHandler(svc)

	r := gin.New()
	r.POST("/login", authH.Login)
	r.POST("/refresh", authH.Refresh)
	u := r.Group("/usuarios", middleware.JWTAuth(authTestSecret), middleware.RequireRole(model.RolAdministrador))
	u.POST("", usuariosH.Crear)
	u.GET("", usuariosH.Listar)
	u.DELETE("/:id", usuariosH.Desactivar)
	u.PATCH("/:id/reactivar", usuariosH.Reactivar)
	return r
}

func adminToken(t *testing.T, u *model.Usuario) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID: u.ID.String(), Username: u.Username, Rol: u.Rol,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(authTestSecret))
	require.NoError(t, err)
	return s
}

func send(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── Tests: login ─────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "coordinadora", "pae-2026", model.RolCoordinador)
	r := newAuthRouter(repo)

	w := send(r, http.MethodPost, "/login", "", dto.LoginRequest{Username: "coordinadora", Password: "pae-2026"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RolCoordinador, resp.User.Rol)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "coordinadora", "pae-2026", model.RolCoordinador)
	r := newAuthRouter(repo)

	w := send(r, http.MethodPost, "/login", "", dto.LoginRequest{Username: "coordinadora", Password: "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(t, repo, "retirado", "pae-2026", model.RolConsulta)
	u.Activo = false
	r := newAuthRouter(repo)

	w := send(r, http.MethodPost, "/login", "", dto.LoginRequest{Username: "retirado", Password: "pae-2026"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	r := newAuthRouter(newStubUsuarioRepo())
	w := send(r, http.MethodPost, "/login", "", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRefresh_IssuesNewTokens(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "coordinadora", "pae-2026", model.RolCoordinador)
	r := newAuthRouter(repo)

	w := send(r, http.MethodPost, "/login", "", dto.LoginRequest{Username: "coordinadora", Password: "pae-2026"})
	require.Equal(t, http.StatusOK, w.Code)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = send(r, http.MethodPost, "/refresh", "", dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodPost, "/refresh", "", dto.RefreshRequest{RefreshToken: "no-es-un-jwt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ── Tests: operator management ───────────────────────────────────────────────

func TestUsuarios_CreateDuplicateIsConflict(t *testing.T) {
	repo := newStubUsuarioRepo()
	admin := seedUsuario(t, repo, "admin", "pae-2026", model.RolAdministrador)
	r := newAuthRouter(repo)
	tok := adminToken(t, admin)

	institucion := 7
	req := dto.CrearUsuarioRequest{
		Username: "rector7", Nombre: "Rector sede 7", Password: "clave-larga",
		Rol: model.RolCoordinador, InstitucionID: &institucion,
	}
	w := send(r, http.MethodPost, "/usuarios", tok, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.UsuarioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.InstitucionID)
	assert.Equal(t, 7, *created.InstitucionID)

	w = send(r, http.MethodPost, "/usuarios", tok, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUsuarios_InvalidRole(t *testing.T) {
	repo := newStubUsuarioRepo()
	admin := seedUsuario(t, repo, "admin", "pae-2026", model.RolAdministrador)
	r := newAuthRouter(repo)

	w := send(r, http.MethodPost, "/usuarios", adminToken(t, admin), dto.CrearUsuarioRequest{
		Username: "cajero", Nombre: "Cajero", Password: "clave-larga", Rol: "cajero",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUsuarios_DeactivateAndReactivate(t *testing.T) {
	repo := newStubUsuarioRepo()
	admin := seedUsuario(t, repo, "admin", "pae-2026", model.RolAdministrador)
	other := seedUsuario(t, repo, "consulta", "pae-2026", model.RolConsulta)
	r := newAuthRouter(repo)
	tok := adminToken(t, admin)

	w := send(r, http.MethodDelete, "/usuarios/"+admin.ID.String(), tok, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "self-deactivation is refused")

	w = send(r, http.MethodDelete, "/usuarios/"+other.ID.String(), tok, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, other.Activo)

	w = send(r, http.MethodGet, "/usuarios", tok, nil)
	var active []dto.UsuarioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	assert.Len(t, active, 1)

	w = send(r, http.MethodGet, "/usuarios?incluir_inactivos=true", tok, nil)
	var all []dto.UsuarioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	w = send(r, http.MethodPatch, "/usuarios/"+other.ID.String()+"/reactivar", tok, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, other.Activo)

	w = send(r, http.MethodPatch, "/usuarios/"+uuid.NewString()+"/reactivar", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(r, http.MethodDelete, "/usuarios/no-uuid", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsuarios_NonAdminForbidden(t *testing.T) {
	repo := newStubUsuarioRepo()
	coord := seedUsuario(t, repo, "coord", "pae-2026", model.RolCoordinador)
	r := newAuthRouter(repo)

	w := send(r, http.MethodGet, "/usuarios", adminToken(t, coord), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogin_EmptySecretIssuesNoToken(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "coordinadora", "pae-2026", model.RolCoordinador)
	svc := service.NewAuthService(repo, &config.Config{JWTExpirationHours: 8, JWTRefreshHours: 24})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "coordinadora", Password: "pae-2026"})
	assert.ErrorIs(t, err, service.ErrSecretoJWTVacio)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.NewString(), "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(""))
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), forged)
	assert.ErrorIs(t, err, service.ErrTokenInvalido)
}
