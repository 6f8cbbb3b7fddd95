package enums

import "fmt"

// UserRole distinguishes storefront customers from admin-panel users.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleAdmin,
}

// IsValid checks whether the given role matches the canonical enum.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw strings into UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
