package authz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	casbinTableName = "casbin_rule"
	userSubjectFmt  = "user:%d"
	rolePrefix      = "role:"

	// RoleModerator 可以访问评论审核队列
	RoleModerator = "role:moderator"
	// ObjectCommentModeration 是审核相关路由的策略对象
	ObjectCommentModeration = "/admin/comments/*"
)

const defaultRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Service Casbin 授权服务，决定哪些用户可以进入后台审核
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务并写入默认的审核员策略
func NewService(gdb *gorm.DB) (*Service, error) {
	if gdb == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(gdb, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(defaultRBACModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}

	svc := &Service{enforcer: enforcer}
	if err := svc.ensureModeratorPolicy(); err != nil {
		return nil, err
	}
	return svc, nil
}

// SubjectForUser 返回用户在策略中的主体标识
func SubjectForUser(userID uint) string {
	return fmt.Sprintf(userSubjectFmt, userID)
}

// NormalizeObject 去掉末尾的斜杠，使 /admin/comments/ 与 /admin/comments 等价
func NormalizeObject(obj string) string {
	trimmed := strings.TrimSpace(obj)
	if trimmed == "" {
		return "/"
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if len(trimmed) > 1 {
		trimmed = strings.TrimRight(trimmed, "/")
	}
	return trimmed
}

// NormalizeAction 统一为大写的 HTTP 方法
func NormalizeAction(act string) string {
	return strings.ToUpper(strings.TrimSpace(act))
}

// Enforce 执行授权判断
func (s *Service) Enforce(sub, obj, act string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.Enforce(strings.TrimSpace(sub), NormalizeObject(obj), NormalizeAction(act))
}

// EnforceUser 按用户 ID 判定授权
func (s *Service) EnforceUser(userID uint, obj, act string) (bool, error) {
	return s.Enforce(SubjectForUser(userID), obj, act)
}

// GrantModerator 将用户加入审核员角色
func (s *Service) GrantModerator(userID uint) error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	if _, err := s.enforcer.AddGroupingPolicy(SubjectForUser(userID), RoleModerator); err != nil {
		return fmt.Errorf("grant moderator failed: %w", err)
	}
	return nil
}

// RevokeModerator 移除用户的审核员角色
func (s *Service) RevokeModerator(userID uint) error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	if _, err := s.enforcer.RemoveGroupingPolicy(SubjectForUser(userID), RoleModerator); err != nil {
		return fmt.Errorf("revoke moderator failed: %w", err)
	}
	return nil
}

// IsModerator 判断用户是否拥有审核员角色
func (s *Service) IsModerator(userID uint) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.HasGroupingPolicy(SubjectForUser(userID), RoleModerator)
}

// ModeratorIDs 返回拥有审核员角色的全部用户 ID，按升序排列
func (s *Service) ModeratorIDs() ([]uint, error) {
	if s == nil || s.enforcer == nil {
		return nil, fmt.Errorf("authz service unavailable")
	}
	subjects, err := s.enforcer.GetUsersForRole(RoleModerator)
	if err != nil {
		return nil, fmt.Errorf("list moderators failed: %w", err)
	}

	ids := make([]uint, 0, len(subjects))
	for _, subject := range subjects {
		var id uint
		if _, err := fmt.Sscanf(subject, userSubjectFmt, &id); err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Service) ensureModeratorPolicy() error {
	if !strings.HasPrefix(RoleModerator, rolePrefix) {
		return fmt.Errorf("invalid moderator role %s", RoleModerator)
	}
	for _, obj := range []string{"/admin/comments", ObjectCommentModeration} {
		exists, err := s.enforcer.HasPolicy(RoleModerator, obj, "*")
		if err != nil {
			return fmt.Errorf("check moderator policy failed: %w", err)
		}
		if exists {
			continue
		}
		if _, err := s.enforcer.AddPolicy(RoleModerator, obj, "*"); err != nil {
			return fmt.Errorf("add moderator policy failed: %w", err)
		}
	}
	return nil
}
