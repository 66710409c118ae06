package service

import (
	"context"
	"fmt"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/country"
	"github.com/souq-next/internal/repository"
)

// Scope 调用方可见范围
// 由已验证的令牌解析而来，引擎只信任该结构，不再二次鉴权。
type Scope struct {
	UserID           uint
	Role             string
	Unrestricted     bool
	CreatorIDs       []uint
	AllowedCountries []string
}

// UnrestrictedScope 系统任务使用的全量范围
func UnrestrictedScope() Scope {
	return Scope{Role: constants.RoleAdmin, Unrestricted: true}
}

// Workspace 转换为仓库层过滤条件
func (s Scope) Workspace() repository.WorkspaceFilter {
	return repository.WorkspaceFilter{
		Unrestricted: s.Unrestricted,
		CreatorIDs:   s.CreatorIDs,
	}
}

// CountryRestricted 是否为受国家限制的经理
func (s Scope) CountryRestricted() bool {
	return s.Role == constants.RoleManager && len(s.AllowedCountries) > 0
}

// AllowsCountry 判断国家是否可见（入参为规范代码）
func (s Scope) AllowsCountry(code string) bool {
	if !s.CountryRestricted() {
		return true
	}
	for _, allowed := range s.AllowedCountries {
		if allowed == code {
			return true
		}
	}
	return false
}

// Owns 判断工作区是否包含该创建人/所属人
func (s Scope) Owns(ownerID uint) bool {
	if s.Unrestricted {
		return true
	}
	for _, id := range s.CreatorIDs {
		if id == ownerID {
			return true
		}
	}
	return false
}

// ScopeResolver 根据用户解析可见范围
type ScopeResolver struct {
	userRepo repository.UserRepository
}

// NewScopeResolver 创建范围解析器
func NewScopeResolver(userRepo repository.UserRepository) *ScopeResolver {
	return &ScopeResolver{userRepo: userRepo}
}

// Resolve 解析用户的可见范围
// 卖家：本人与其成员；经理：所属卖家工作区，并按国家白名单收窄；管理员：不限。
func (r *ScopeResolver) Resolve(ctx context.Context, userID uint) (*Scope, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	user, err := r.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load caller: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthorized
	}

	scope := &Scope{UserID: user.ID, Role: user.Role}
	switch user.Role {
	case constants.RoleAdmin:
		scope.Unrestricted = true
		return scope, nil
	case constants.RoleSeller:
		scope.CreatorIDs, err = r.workspaceMembers(ctx, user.ID)
	case constants.RoleManager:
		if user.OwnerID == 0 {
			return nil, ErrForbidden
		}
		scope.CreatorIDs, err = r.workspaceMembers(ctx, user.OwnerID)
		scope.AllowedCountries = normalizeCountryList(user.AllowedCountries)
	default:
		return nil, ErrUnknownRole
	}
	if err != nil {
		return nil, err
	}
	return scope, nil
}

func (r *ScopeResolver) workspaceMembers(ctx context.Context, ownerID uint) ([]uint, error) {
	members, err := r.userRepo.ListIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load workspace members: %w", err)
	}
	return append([]uint{ownerID}, members...), nil
}

func normalizeCountryList(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		code := country.Normalize(item)
		if code == country.Unknown {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		result = append(result, code)
	}
	return result
}
