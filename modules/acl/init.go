package acl

import (
	"encoding/json"
	"io/ioutil"

	"github.com/mikespook/gorbac"
)

// Roles known to the engine.
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Permissions checked by the engine.
const (
	PermReport         = "report"
	PermAppeal         = "appeal"
	PermManagePosts    = "manage_posts"
	PermManageComments = "manage_comments"
	PermManageUsers    = "manage_users"
	PermLiftBans       = "lift_bans"
)

// Scoped permissions must also be granted for the community in question,
// unless the principal is an admin.
var scoped = map[string]bool{
	PermManagePosts:    true,
	PermManageComments: true,
	PermManageUsers:    true,
}

type AclRole struct {
	Permissions []string `json:"permissions"`
	Inherits    []string `json:"inherits"`
}

// DefaultRules used when no acl file is configured.
var DefaultRules = map[string]AclRole{
	RoleMember: {
		Permissions: []string{PermReport, PermAppeal},
	},
	RoleModerator: {
		Permissions: []string{PermManagePosts, PermManageComments, PermManageUsers},
		Inherits:    []string{RoleMember},
	},
	RoleAdmin: {
		Permissions: []string{PermLiftBans},
		Inherits:    []string{RoleModerator},
	},
}

var LoadedACL *Module

type Module struct {
	Map         *gorbac.RBAC
	Rules       map[string]AclRole
	Permissions map[string]gorbac.Permission
}

// Boot reads role rules from a JSON file, or the defaults when file is empty.
func Boot(file string) (*Module, error) {
	rules := DefaultRules
	if file != "" {
		data, err := ioutil.ReadFile(file)
		if err != nil {
			return nil, err
		}
		rules = map[string]AclRole{}
		if err := json.Unmarshal(data, &rules); err != nil {
			return nil, err
		}
	}
	module, err := New(rules)
	if err != nil {
		return nil, err
	}
	LoadedACL = module
	return module, nil
}

// New builds the role graph.
func New(rules map[string]AclRole) (*Module, error) {
	module := &Module{
		Map:         gorbac.New(),
		Rules:       rules,
		Permissions: make(map[string]gorbac.Permission),
	}
	for name, rule := range rules {
		role := gorbac.NewStdRole(name)
		for _, p := range rule.Permissions {
			if _, exists := module.Permissions[p]; !exists {
				module.Permissions[p] = gorbac.NewStdPermission(p)
			}
			role.Assign(module.Permissions[p])
		}

		// Populate map with permissions
		if err := module.Map.Add(role); err != nil {
			return nil, err
		}
	}
	for name, rule := range rules {
		if len(rule.Inherits) > 0 {
			if err := module.Map.SetParents(name, rule.Inherits); err != nil {
				return nil, err
			}
		}
	}
	return module, nil
}

// CheckPermissions reports whether any of roles is granted permission.
func (refs *Module) CheckPermissions(roles []string, permission string) bool {
	p, exists := refs.Permissions[permission]
	if !exists {
		return false
	}
	for _, role := range roles {
		if refs.Map.IsGranted(role, p, nil) {
			return true
		}
	}
	return false
}
