package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records one successful mutation performed through the BFF.
type AuditEntry struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Recurso   string     `gorm:"type:varchar(60);not null;index"`
	Accion    string     `gorm:"type:varchar(30);not null"`
	RecursoID string     `gorm:"type:varchar(64)"`
	UsuarioID *uuid.UUID `gorm:"type:uuid;index"`
	Username  string     `gorm:"type:varchar(100)"`
	Detalle   *string    `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"not null;index"`
}

func (AuditEntry) TableName() string { return "auditoria_mutaciones" }
