package dto

import "nutripae/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CrearUsuarioRequest struct {
	Username      string  `json:"username"       validate:"required,min=1,max=150"`
	Nombre        string  `json:"nombre"         validate:"required,min=2,max=100"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Password      string  `json:"password"       validate:"required,min=8"`
	Rol           string  `json:"rol"            validate:"required,oneof=administrador coordinador consulta"`
	InstitucionID *int    `json:"institucion_id" validate:"omitempty,gt=0"`
}

type ActualizarUsuarioRequest struct {
	Nombre        string  `json:"nombre"         validate:"omitempty,min=2,max=100"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Rol           string  `json:"rol"            validate:"omitempty,oneof=administrador coordinador consulta"`
	InstitucionID *int    `json:"institucion_id" validate:"omitempty,gt=0"`
	Password      string  `json:"password"       validate:"omitempty,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Nombre        string  `json:"nombre"`
	Email         *string `json:"email"`
	Rol           string  `json:"rol"`
	InstitucionID *int    `json:"institucion_id"`
	Activo        bool    `json:"activo"`
}

func UsuarioFrom(u *model.Usuario) UsuarioResponse {
	return UsuarioResponse{
		ID:            u.ID.String(),
		Username:      u.Username,
		Nombre:        u.Nombre,
		Email:         u.Email,
		Rol:           u.Rol,
		InstitucionID: u.InstitucionID,
		Activo:        u.Activo,
	}
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}

// ─── Audit log ───────────────────────────────────────────────────────────────

type AuditEntryResponse struct {
	ID        string  `json:"id"`
	Recurso   string  `json:"recurso"`
	Accion    string  `json:"accion"`
	RecursoID string  `json:"recurso_id"`
	UsuarioID *string `json:"usuario_id"`
	Username  string  `json:"username"`
	Detalle   *string `json:"detalle,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type AuditPageResponse struct {
	Data  []AuditEntryResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
