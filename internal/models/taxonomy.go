package models

// Badge 徽章表
type Badge struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Image string `gorm:"size:255" json:"image"`
}

// TableName 指定表名
func (Badge) TableName() string {
	return "badges"
}

// Tag 标签表
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// PostBadge 文章徽章关联表
type PostBadge struct {
	ID      uint `gorm:"primarykey" json:"id"`
	PostID  uint `gorm:"index;not null" json:"post_id"`
	BadgeID uint `gorm:"index;not null" json:"badge_id"`
}

// TableName 指定表名
func (PostBadge) TableName() string {
	return "post_badges"
}

// PostTag 文章标签关联表
type PostTag struct {
	ID     uint `gorm:"primarykey" json:"id"`
	PostID uint `gorm:"index;not null" json:"post_id"`
	TagID  uint `gorm:"index;not null" json:"tag_id"`
}

// TableName 指定表名
func (PostTag) TableName() string {
	return "post_tags"
}

// Format 文章格式查找表（wiki/html/markdown/...）
type Format struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Constant string `gorm:"uniqueIndex;size:50;not null" json:"constant"`
}

// TableName 指定表名
func (Format) TableName() string {
	return "formats"
}

// Type 文章类型查找表
type Type struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Constant string `gorm:"uniqueIndex;size:50;not null" json:"constant"`
}

// TableName 指定表名
func (Type) TableName() string {
	return "types"
}

// Framework 应用框架查找表
type Framework struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Constant string `gorm:"uniqueIndex;size:50;not null" json:"constant"`
}

// TableName 指定表名
func (Framework) TableName() string {
	return "frameworks"
}

// Mode 文章展示模式查找表
type Mode struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Constant string `gorm:"uniqueIndex;size:50;not null" json:"constant"`
}

// TableName 指定表名
func (Mode) TableName() string {
	return "modes"
}
