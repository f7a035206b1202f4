package models

import "time"

// Post 文章表
// content/teaser 落库时始终为密文，decrypted 仅存在于内存中
type Post struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UUID        string    `gorm:"uniqueIndex;size:36;not null" json:"uuid"` // 未公开分享用
	Title       string    `gorm:"size:255;not null" json:"title"`
	Content     string    `gorm:"type:text" json:"-"` // 密文
	Teaser      string    `gorm:"type:text" json:"-"` // 密文
	FormatID    uint      `gorm:"index;not null" json:"format_id"`
	TypeID      uint      `gorm:"index;not null" json:"type_id"`
	FrameworkID *uint     `gorm:"index" json:"framework_id"`
	ModeID      uint      `gorm:"index;not null" json:"mode_id"`
	Shared      bool      `gorm:"default:false" json:"shared"`
	Hidden      bool      `gorm:"default:false;index" json:"hidden"`
	Deleted     bool      `gorm:"default:false;index" json:"deleted"`
	Clicks      uint      `gorm:"default:0" json:"clicks"`
	IndexedAt   time.Time `json:"indexed_at"`
	CreatedBy   uint      `gorm:"index;not null" json:"created_by"`
	UpdatedBy   uint      `json:"updated_by"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`

	// 内存态标记，解密与解析各自最多发生一次
	Decrypted bool `gorm:"-" json:"-"`
	Parsed    bool `gorm:"-" json:"-"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// PostIndex 倒排索引词条（posting）
// 一篇文章对应多条，一个词对应多篇文章
type PostIndex struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	PostID uint   `gorm:"index;not null" json:"post_id"`
	Word   string `gorm:"index;size:64;not null" json:"word"` // 词干或其 md5
	Weight int    `gorm:"not null" json:"weight"`
}

// TableName 指定表名
func (PostIndex) TableName() string {
	return "post_indexes"
}

// PostRead 阅读记录表
type PostRead struct {
	ID     uint      `gorm:"primarykey" json:"id"`
	PostID uint      `gorm:"index;not null" json:"post_id"`
	UserID uint      `gorm:"index;not null" json:"user_id"`
	ReadAt time.Time `json:"read_at"`
}

// TableName 指定表名
func (PostRead) TableName() string {
	return "post_reads"
}
