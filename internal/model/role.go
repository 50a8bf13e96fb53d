package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // MASTER_ADMIN, ADMIN, CASHIER
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleAdmin       = "ADMIN"
	RoleCashier     = "CASHIER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Catalog, sales and reporting without user management",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Point of sale and own receipts",
	},
}

// DefaultRolePrivileges picks the privilege codes each seeded role receives.
// A nil func means every privilege.
var DefaultRolePrivileges = map[string]func(code string) bool{
	RoleMasterAdmin: nil,
	RoleAdmin: func(code string) bool {
		switch code {
		case PrivUserCreate, PrivUserUpdate, PrivUserDelete, PrivUserUpdatePrivilege:
			return false
		}
		return true
	},
	RoleCashier: func(code string) bool {
		switch code {
		case PrivProductView, PrivCategoryView, PrivSaleCreate, PrivTransactionView:
			return true
		}
		return false
	},
}

// PrivilegesFor filters all down to the ones the role should be seeded with.
func PrivilegesFor(roleCode string, all []Privilege) []Privilege {
	keep, ok := DefaultRolePrivileges[roleCode]
	if !ok {
		return nil
	}
	if keep == nil {
		return all
	}
	out := make([]Privilege, 0, len(all))
	for _, p := range all {
		if keep(p.Code) {
			out = append(out, p)
		}
	}
	return out
}
