package service

import (
	"context"

	"nutripae/internal/dto"
	"nutripae/internal/model"
	"nutripae/internal/repository"

	"github.com/rs/zerolog/log"
)

// AuditService writes the mutation log and serves it back to administrators.
type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record implements Auditor. Failures are logged and swallowed.
func (s *AuditService) Record(ctx context.Context, recurso, accion, recursoID string) {
	if s == nil || s.repo == nil {
		return
	}
	entry := &model.AuditEntry{Recurso: recurso, Accion: accion, RecursoID: recursoID}
	if op, ok := OperatorFrom(ctx); ok {
		id := op.ID
		entry.UsuarioID = &id
		entry.Username = op.Username
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Warn().Err(err).
			Str("recurso", recurso).
			Str("accion", accion).
			Str("recurso_id", recursoID).
			Msg("audit: failed to record mutation")
	}
}

func (s *AuditService) Listar(ctx context.Context, f repository.AuditFilter) (*dto.AuditPageResponse, error) {
	entries, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	resp := &dto.AuditPageResponse{
		Data:  make([]dto.AuditEntryResponse, len(entries)),
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
	}
	for i, e := range entries {
		r := dto.AuditEntryResponse{
			ID:        e.ID.String(),
			Recurso:   e.Recurso,
			Accion:    e.Accion,
			RecursoID: e.RecursoID,
			Username:  e.Username,
			Detalle:   e.Detalle,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if e.UsuarioID != nil {
			uid := e.UsuarioID.String()
			r.UsuarioID = &uid
		}
		resp.Data[i] = r
	}
	return resp, nil
}
