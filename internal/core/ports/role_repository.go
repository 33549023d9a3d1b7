package ports

import "context"

// RoleRepository is the lookup table mapping user ids to roles.
type RoleRepository interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
	Grant(ctx context.Context, userID, role string) error
}
