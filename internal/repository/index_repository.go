package repository

import (
	"github.com/wikicore-next/internal/models"

	"gorm.io/gorm"
)

// IndexRepository 倒排索引数据访问接口
type IndexRepository interface {
	Replace(postID uint, postings []models.PostIndex) error
	DeleteByPost(postID uint) error
	ListByPost(postID uint) ([]models.PostIndex, error)
	WithTx(tx *gorm.DB) IndexRepository
}

// GormIndexRepository GORM 实现
type GormIndexRepository struct {
	db *gorm.DB
}

// NewIndexRepository 创建索引仓库
func NewIndexRepository(db *gorm.DB) *GormIndexRepository {
	return &GormIndexRepository{db: db}
}

// WithTx 绑定事务
func (r *GormIndexRepository) WithTx(tx *gorm.DB) IndexRepository {
	if tx == nil {
		return r
	}
	return &GormIndexRepository{db: tx}
}

// Replace 整组替换某文章的词条，先删旧后插新，单事务内完成
func (r *GormIndexRepository) Replace(postID uint, postings []models.PostIndex) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostIndex{}).Error; err != nil {
			return err
		}
		for i := range postings {
			postings[i].ID = 0
			postings[i].PostID = postID
		}
		if len(postings) == 0 {
			return nil
		}
		return tx.CreateInBatches(&postings, 200).Error
	})
}

// DeleteByPost 删除某文章的全部词条
func (r *GormIndexRepository) DeleteByPost(postID uint) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.PostIndex{}).Error
}

// ListByPost 某文章的全部词条
func (r *GormIndexRepository) ListByPost(postID uint) ([]models.PostIndex, error) {
	var postings []models.PostIndex
	if err := r.db.Where("post_id = ?", postID).Order("id").Find(&postings).Error; err != nil {
		return nil, err
	}
	return postings, nil
}
