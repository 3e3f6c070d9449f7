package audit

import (
	"context"
	"time"

	auditerrors "go-hrpay/internal/audit/errors"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, companyID string, req ListAuditLogsRequest) ([]AuditLogResponse, int64, error)
	GetEntityHistory(ctx context.Context, companyID, entityType, entityID string) ([]AuditLogResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) List(ctx context.Context, companyID string, req ListAuditLogsRequest) ([]AuditLogResponse, int64, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	logs, total, err := s.repo.FindAll(ctx, Filter{
		CompanyID:  companyID,
		Action:     req.Action,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		s.logger.Error("list audit logs failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(logs), total, nil
}

func (s *service) GetEntityHistory(ctx context.Context, companyID, entityType, entityID string) ([]AuditLogResponse, error) {
	if entityType == "" {
		return nil, auditerrors.ErrInvalidEntityType
	}
	if entityID == "" {
		return nil, auditerrors.ErrInvalidEntityID
	}

	logs, err := s.repo.FindByEntity(ctx, companyID, entityType, entityID)
	if err != nil {
		s.logger.Error("get entity history failed",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
		return nil, err
	}
	return mapToListResponse(logs), nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func mapToResponse(l AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         l.ID.String(),
		CompanyID:  l.CompanyID,
		ActorID:    l.ActorID,
		RequestID:  l.RequestID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		OldData:    l.OldData,
		NewData:    l.NewData,
		Metadata:   l.Metadata,
		OccurredAt: l.OccurredAt.Format(time.RFC3339),
	}
}

func mapToListResponse(logs []AuditLog) []AuditLogResponse {
	resp := make([]AuditLogResponse, len(logs))
	for i, l := range logs {
		resp[i] = mapToResponse(l)
	}
	return resp
}
