package rbac

import (
	"context"
	"sync"
	"time"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// PolicyTTL is how long a company's loaded policy is trusted before Enforce
// reloads it from the repository.
const PolicyTTL = time.Minute

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(ctx context.Context, req EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	loadedAt map[string]time.Time
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
		ttl:      PolicyTTL,
		now:      time.Now,
		loadedAt: map[string]time.Time{},
	}
}

// ensureLoaded swaps in companyID's roles and grants when its cached copy is
// missing or older than ttl. Other companies' policies are left untouched.
// Caller holds s.mu.
func (s *service) ensureLoaded(ctx context.Context, companyID string) error {
	if at, ok := s.loadedAt[companyID]; ok && s.now().Sub(at) < s.ttl {
		return nil
	}

	roles, err := s.repo.ListEmployeeRoles(ctx, companyID)
	if err != nil {
		return err
	}
	perms, err := s.repo.ListRolePermissions(ctx, companyID)
	if err != nil {
		return err
	}

	if _, err := s.enforcer.RemoveFilteredGroupingPolicy(2, companyID); err != nil {
		return err
	}
	if _, err := s.enforcer.RemoveFilteredPolicy(1, companyID); err != nil {
		return err
	}
	for _, er := range roles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.RoleID, companyID); err != nil {
			return err
		}
	}
	for _, rp := range perms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, companyID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.loadedAt[companyID] = s.now()
	s.logger.Debug("rbac policy loaded",
		zap.String("company_id", companyID),
		zap.Int("employee_roles", len(roles)),
		zap.Int("role_permissions", len(perms)),
	)
	return nil
}

func (s *service) Enforce(ctx context.Context, req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx, req.CompanyID); err != nil {
		s.logger.Error("rbac policy load failed", zap.String("company_id", req.CompanyID), zap.Error(err))
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.EmployeeID, req.CompanyID, req.Resource, req.Action)
	if err != nil {
		return false, err
	}
	if !allowed {
		s.logger.Info("rbac denied",
			zap.String("employee_id", req.EmployeeID),
			zap.String("company_id", req.CompanyID),
			zap.String("permission", req.Resource+":"+req.Action),
			zap.Strings("roles", s.enforcer.GetRolesForUserInDomain(req.EmployeeID, req.CompanyID)),
		)
	}
	return allowed, nil
}
