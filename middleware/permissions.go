package middleware

import "github.com/sharath018/temple-registry/internal/temple"

// Role constants to avoid string typos
const (
	RoleSuperAdmin  = temple.RoleSuperAdmin
	RoleTempleAdmin = temple.RoleTempleAdmin

	StatusActive = temple.StatusActive
)

// WriteRoles may register and edit temples.
var WriteRoles = []string{RoleSuperAdmin, RoleTempleAdmin}
