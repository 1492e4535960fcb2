package services

import (
	"context"

	"go.uber.org/zap"

	"affiliate-engine/internal/models"
	"affiliate-engine/internal/repository"
)

type AdminService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAdminService(repo *repository.Repository, log *zap.Logger) *AdminService {
	return &AdminService{
		repo: repo,
		log:  log,
	}
}

// LogAdminAction logs an admin action to the audit trail. Failures are
// logged, never returned, so the action itself is not rolled back.
func (s *AdminService) LogAdminAction(ctx context.Context, adminUserID uint, action, resourceType, resourceID string, details map[string]interface{}) {
	entry := models.AdminLog{
		AdminUserID:  adminUserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}

	if err := s.repo.CreateAdminLog(ctx, &entry); err != nil {
		s.log.Error("failed to log admin action",
			zap.String("action", action),
			zap.Uint("admin_id", adminUserID),
			zap.Error(err),
		)
	}
}

// GetAdminLogs returns the most recent audit entries
func (s *AdminService) GetAdminLogs(ctx context.Context, limit int) ([]models.AdminLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListAdminLogs(ctx, limit)
}
