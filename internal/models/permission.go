package models

// Permission 能力定义表（read/write/comment/...）
type Permission struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	Name           string `gorm:"size:100;not null" json:"name"`
	Constant       string `gorm:"uniqueIndex;size:50;not null" json:"constant"`
	UserPermission bool   `gorm:"default:false" json:"user_permission"` // 是否可直接授予用户
}

// TableName 指定表名
func (Permission) TableName() string {
	return "permissions"
}

// Role 角色表
type Role struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

// TableName 指定表名
func (Role) TableName() string {
	return "roles"
}

// UserRole 用户角色关联表
type UserRole struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`
	RoleID uint `gorm:"index;not null" json:"role_id"`
}

// TableName 指定表名
func (UserRole) TableName() string {
	return "user_roles"
}

// PostPermission 文章授权三元组 (post, role, permission)
// 某文章没有任何授权行时，仅管理员与创建者可操作
type PostPermission struct {
	ID           uint `gorm:"primarykey" json:"id"`
	PostID       uint `gorm:"index;not null" json:"post_id"`
	RoleID       uint `gorm:"index;not null" json:"role_id"`
	PermissionID uint `gorm:"index;not null" json:"permission_id"`
}

// TableName 指定表名
func (PostPermission) TableName() string {
	return "post_permissions"
}
