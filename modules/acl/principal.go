package acl

import (
	"github.com/tryanzu/tribunal/modules/exceptions"
)

// Principal is an authenticated caller: its platform role plus per
// community permission grants.
type Principal struct {
	ID     string
	Role   string
	Grants map[string][]string
	acl    *Module
}

// Principal binds caller data to the role graph.
func (refs *Module) Principal(id, role string, grants map[string][]string) *Principal {
	if _, known := refs.Rules[role]; !known {
		role = RoleMember
	}
	if grants == nil {
		grants = map[string][]string{}
	}
	return &Principal{ID: id, Role: role, Grants: grants, acl: refs}
}

func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// ActorRole as recorded on audit entries.
func (p *Principal) ActorRole() string {
	if p.IsAdmin() {
		return RoleAdmin
	}
	return RoleModerator
}

// Can reports whether the principal may use permission in community.
func (p *Principal) Can(permission, community string) bool {
	if !p.acl.CheckPermissions([]string{p.Role}, permission) {
		return false
	}
	if p.IsAdmin() || !scoped[permission] {
		return true
	}
	for _, granted := range p.Grants[community] {
		if granted == permission {
			return true
		}
	}
	return false
}

// Require is Can returning a ForbiddenError.
func (p *Principal) Require(permission, community string) error {
	if p.Can(permission, community) {
		return nil
	}
	return exceptions.Forbidden(permission, community)
}

// RequireAdmin rejects every non admin principal.
func (p *Principal) RequireAdmin(permission string) error {
	if p.IsAdmin() && p.acl.CheckPermissions([]string{p.Role}, permission) {
		return nil
	}
	return exceptions.Forbidden(permission, "")
}
