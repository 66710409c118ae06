package authz

import (
	"errors"
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
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	rolePrefix      = "role:"
	userPrefix      = "user:"
	// roleAnchor 让空角色也能在 g 表中留痕
	roleAnchor = "role:__anchor__"
)

// 路由级 RBAC：主体为 role:<name> 或 user:<id>，资源为去掉 /api/v1 前缀的 gin 路由模板
const routeRBACModel = `
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

// ErrUnavailable 授权服务未初始化
var ErrUnavailable = errors.New("authz service unavailable")

// Policy 路由授权规则
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 基于 casbin 的路由授权
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务，策略持久化在 casbin_rule 表
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(routeRBACModel)
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
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// EnforceCaller 判定调用方能否访问路由
// 账号角色命中即放行，否则再看针对该用户单独授予的规则。
func (s *Service) EnforceCaller(userID uint, role, route, method string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	obj, act := NormalizeObject(route), NormalizeAction(method)
	if subject, err := NormalizeRole(role); err == nil {
		allow, err := s.enforcer.Enforce(subject, obj, act)
		if err != nil || allow {
			return allow, err
		}
	}
	if userID == 0 {
		return false, nil
	}
	return s.enforcer.Enforce(SubjectForUser(userID), obj, act)
}

// GrantUser 为单个用户追加路由规则
func (s *Service) GrantUser(userID uint, route, method string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if userID == 0 {
		return errors.New("user id is required")
	}
	return s.addPolicy(SubjectForUser(userID), route, method)
}

// RevokeUser 撤销用户的全部单独授权
func (s *Service) RevokeUser(userID uint) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.enforcer.RemoveFilteredPolicy(0, SubjectForUser(userID)); err != nil {
		return fmt.Errorf("revoke user policies failed: %w", err)
	}
	return nil
}

// RolePolicies 查询角色直接持有的规则，不含继承
func (s *Service) RolePolicies(role string) ([]Policy, error) {
	subject, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return nil, fmt.Errorf("get role policies failed: %w", err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{Subject: rule[0], Object: rule[1], Action: rule[2]})
	}
	sort.Slice(policies, func(i, j int) bool {
		if policies[i].Object != policies[j].Object {
			return policies[i].Object < policies[j].Object
		}
		return policies[i].Action < policies[j].Action
	})
	return policies, nil
}

// Roles 列出已登记的角色
func (s *Service) Roles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 1, roleAnchor)
	if err != nil {
		return nil, fmt.Errorf("list roles failed: %w", err)
	}
	roles := make([]string, 0, len(rules))
	for _, rule := range rules {
		roles = append(roles, rule[0])
	}
	sort.Strings(roles)
	return roles, nil
}

func (s *Service) addPolicy(subject, route, method string) error {
	act := NormalizeAction(method)
	if act == "" {
		return errors.New("action is required")
	}
	if _, err := s.enforcer.AddPolicy(subject, NormalizeObject(route), act); err != nil {
		return fmt.Errorf("add policy failed: %w", err)
	}
	return nil
}

func (s *Service) addGrouping(child, parent string) error {
	exists, err := s.enforcer.HasNamedGroupingPolicy("g", child, parent)
	if err != nil {
		return fmt.Errorf("check grouping failed: %w", err)
	}
	if exists {
		return nil
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", child, parent); err != nil {
		return fmt.Errorf("add grouping failed: %w", err)
	}
	return nil
}

// SubjectForUser 用户主体标识
func SubjectForUser(userID uint) string {
	return fmt.Sprintf("%s%d", userPrefix, userID)
}

// NormalizeRole 角色名转 casbin 主体，如 " Seller " -> role:seller
func NormalizeRole(role string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(role))
	name = strings.TrimPrefix(name, rolePrefix)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		return "", errors.New("role is required")
	}
	return rolePrefix + name, nil
}

// NormalizeObject 路由转授权资源，去掉版本前缀
func NormalizeObject(route string) string {
	obj := strings.TrimSpace(route)
	if !strings.HasPrefix(obj, "/") {
		obj = "/" + obj
	}
	switch {
	case obj == apiV1Prefix:
		return "/"
	case strings.HasPrefix(obj, apiV1Prefix+"/"):
		return strings.TrimPrefix(obj, apiV1Prefix)
	}
	return obj
}

// NormalizeAction HTTP 方法统一大写
func NormalizeAction(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}
