package model

type UserRole string

const (
	RoleNone    UserRole = ""
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// LoginPath 返回该角色对应的登录接口
func (r UserRole) LoginPath() string {
	if r == RoleAdmin {
		return "/api/admin/login"
	}
	return "/api/student/login"
}
