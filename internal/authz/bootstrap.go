package authz

import (
	"fmt"

	"github.com/souq-next/internal/constants"
)

// RoleSeed 内置角色
type RoleSeed struct {
	Role     string
	Inherits []string // 继承的角色，规则向上叠加
	Policies []Policy
}

// BuiltinRoleSeeds 内置角色矩阵：manager ⊂ seller ⊂ admin
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleManager,
			Policies: []Policy{
				{Object: "/inventory/summary", Action: "GET"},
				{Object: "/inventory/products/:id/history", Action: "GET"},
				{Object: "/inventory/products/:id/stock", Action: "POST"},
			},
		},
		{
			Role:     constants.RoleSeller,
			Inherits: []string{constants.RoleManager},
			Policies: []Policy{
				{Object: "/finance/orders", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleSeller},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 写入内置角色，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		if err := s.addGrouping(role, roleAnchor); err != nil {
			return fmt.Errorf("register role %s: %w", role, err)
		}
		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if err := s.addGrouping(role, parentRole); err != nil {
				return fmt.Errorf("inherit %s -> %s: %w", role, parentRole, err)
			}
		}
		for _, policy := range seed.Policies {
			if err := s.addPolicy(role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("seed policy for %s: %w", role, err)
			}
		}
	}
	return nil
}
