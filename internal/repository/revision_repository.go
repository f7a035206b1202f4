package repository

import (
	"errors"

	"github.com/wikicore-next/internal/constants"
	"github.com/wikicore-next/internal/models"

	"gorm.io/gorm"
)

// RevisionRepository 修订数据访问接口
type RevisionRepository interface {
	GetDraft(postID, editorID uint) (*models.Revision, error)
	ListDrafts(postID uint) ([]models.Revision, error)
	SaveDraft(rev *models.Revision) error
	DeleteDraft(postID, editorID uint) error
	ListCommitted(filter RevisionListFilter) ([]models.Revision, int64, error)
	GetBySequence(postID, sequence uint) (*models.Revision, error)
	MaxCommittedSequence(postID uint) (uint, error)
	PromoteDraft(tx *gorm.DB, draftID, sequence uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) RevisionRepository
}

// GormRevisionRepository GORM 实现
type GormRevisionRepository struct {
	db *gorm.DB
}

// NewRevisionRepository 创建修订仓库
func NewRevisionRepository(db *gorm.DB) *GormRevisionRepository {
	return &GormRevisionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRevisionRepository) WithTx(tx *gorm.DB) RevisionRepository {
	if tx == nil {
		return r
	}
	return &GormRevisionRepository{db: tx}
}

// Transaction 执行事务
func (r *GormRevisionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetDraft 取某编辑者在某文章上的草稿，至多一条
func (r *GormRevisionRepository) GetDraft(postID, editorID uint) (*models.Revision, error) {
	var rev models.Revision
	err := r.db.Where("post_id = ? AND created_by = ? AND sequence = ?", postID, editorID, constants.DraftSequence).
		First(&rev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rev, nil
}

// ListDrafts 某文章的全部并发草稿，每个编辑者至多一条
func (r *GormRevisionRepository) ListDrafts(postID uint) ([]models.Revision, error) {
	var revs []models.Revision
	err := r.db.Where("post_id = ? AND sequence = ?", postID, constants.DraftSequence).
		Order("created_by").
		Find(&revs).Error
	if err != nil {
		return nil, err
	}
	return revs, nil
}

// SaveDraft 新建或覆盖草稿行
func (r *GormRevisionRepository) SaveDraft(rev *models.Revision) error {
	return r.db.Save(rev).Error
}

// DeleteDraft 丢弃草稿
func (r *GormRevisionRepository) DeleteDraft(postID, editorID uint) error {
	return r.db.Where("post_id = ? AND created_by = ? AND sequence = ?", postID, editorID, constants.DraftSequence).
		Delete(&models.Revision{}).Error
}

// ListCommitted 分页查询已提交修订历史，新修订在前
func (r *GormRevisionRepository) ListCommitted(filter RevisionListFilter) ([]models.Revision, int64, error) {
	query := r.db.Model(&models.Revision{}).
		Where("post_id = ? AND sequence > ?", filter.PostID, constants.DraftSequence)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var revs []models.Revision
	if err := query.Order("sequence DESC").Find(&revs).Error; err != nil {
		return nil, 0, err
	}
	return revs, total, nil
}

// GetBySequence 按修订号查找
func (r *GormRevisionRepository) GetBySequence(postID, sequence uint) (*models.Revision, error) {
	var rev models.Revision
	err := r.db.Where("post_id = ? AND sequence = ?", postID, sequence).First(&rev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rev, nil
}

// MaxCommittedSequence 当前最大修订号
// 聚合查询不能直接带行锁，调用方先锁住文章行再读
func (r *GormRevisionRepository) MaxCommittedSequence(postID uint) (uint, error) {
	var max *uint
	err := r.db.Model(&models.Revision{}).
		Where("post_id = ?", postID).
		Select("MAX(sequence)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// PromoteDraft 将草稿行原地改号为已提交修订
// 带 sequence = 0 守卫，返回受影响行数供调用方判定竞争
func (r *GormRevisionRepository) PromoteDraft(tx *gorm.DB, draftID, sequence uint) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.Model(&models.Revision{}).
		Where("id = ? AND sequence = ?", draftID, constants.DraftSequence).
		Update("sequence", sequence)
	return result.RowsAffected, result.Error
}
