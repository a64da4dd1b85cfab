package model

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// Rank 角色等级，数值越大权限越高；未知角色为 0
func (r UserRole) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	}
	return 0
}

func (r UserRole) Valid() bool {
	return r.Rank() > 0
}

// NormalizeRole 非 ADMIN 一律视为 USER
func NormalizeRole(s string) UserRole {
	if UserRole(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// swagger:model User
type User struct {
	BaseModel
	Username     string   `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string   `gorm:"size:100;not null" json:"-"`
	Role         UserRole `gorm:"size:16;not null;default:USER" json:"role"`
}

func (User) TableName() string {
	return "users"
}
