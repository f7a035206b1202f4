package models

import "time"

// Revision 文章修订表
// sequence = 0 表示未提交草稿，同一 (post, creator) 至多一条草稿；
// 已提交修订从 1 起严格递增，提交时分配
type Revision struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	Sequence  uint      `gorm:"index;not null;default:0" json:"sequence"`
	Title     string    `gorm:"size:255" json:"title"`
	Content   string    `gorm:"type:text" json:"-"` // 密文
	CreatedBy uint      `gorm:"index;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Revision) TableName() string {
	return "revisions"
}

// IsDraft 是否为未提交草稿
func (r *Revision) IsDraft() bool {
	return r != nil && r.Sequence == 0
}
