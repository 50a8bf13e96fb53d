package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a staff account: a cashier ringing up sales or a back-office admin.
// Privileges are copied from the role when the account is created and can be
// tuned per user afterwards.
type User struct {
	BaseModel
	Email       string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string      `gorm:"type:varchar(255);not null" json:"-"`
	FullName    string      `gorm:"type:varchar(255)" json:"full_name"`
	PhoneNumber string      `gorm:"type:varchar(20)" json:"phone_number"`
	BirthDate   *time.Time  `gorm:"type:date" json:"birth_date,omitempty"`
	RoleID      *uint       `gorm:"index" json:"role_id"`
	Role        *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`
	Privileges  []Privilege `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`

	// TokenVersion is rotated on every login; tokens carrying an older
	// version are rejected, so only the newest device stays signed in.
	TokenVersion string `gorm:"type:varchar(64);default:''" json:"-"`
}

func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// IsMasterAdmin reports whether the user holds the top role.
func (u *User) IsMasterAdmin() bool {
	return u.Role != nil && u.Role.Code == RoleMasterAdmin
}

// RoleCode is "" for accounts without a role.
func (u *User) RoleCode() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Code
}

// PrivilegeCodes lists the codes embedded in the user's JWT.
func (u *User) PrivilegeCodes() []string {
	codes := make([]string, 0, len(u.Privileges))
	for _, p := range u.Privileges {
		codes = append(codes, p.Code)
	}
	return codes
}

// UserResponse is the account as exposed by the API, without secrets.
type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	PhoneNumber string      `json:"phone_number"`
	BirthDate   *time.Time  `json:"birth_date,omitempty"`
	RoleID      *uint       `json:"role_id,omitempty"`
	Role        *Role       `json:"role,omitempty"`
	IsActive    bool        `json:"is_active"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	Privileges  []Privilege `json:"privileges"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	privileges := u.Privileges
	if privileges == nil {
		privileges = []Privilege{}
	}
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		BirthDate:   u.BirthDate,
		RoleID:      u.RoleID,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		Privileges:  privileges,
		CreatedAt:   u.CreatedAt,
	}
}
