package repository

import (
	"errors"
	"regexp"
	"strings"

	"github.com/wikicore-next/internal/models"

	"gorm.io/gorm"
)

// 标签名只保留字母数字、下划线和连字符
var tagNameStripRe = regexp.MustCompile(`[^\w-]+`)

// 标签名长度上下限
const (
	tagNameMinLen = 2
	tagNameMaxLen = 50
)

// normalizeTagName 标签名归一化
// 剥离非词字符、小写，过短的丢弃，超长的截断
func normalizeTagName(name string) string {
	name = strings.ToLower(strings.TrimSpace(tagNameStripRe.ReplaceAllString(name, "")))
	if len(name) < tagNameMinLen {
		return ""
	}
	if len(name) > tagNameMaxLen {
		name = name[:tagNameMaxLen]
	}
	return name
}

// TaxonomyRepository 徽章、标签与查找表数据访问接口
type TaxonomyRepository interface {
	BadgesByPostIDs(postIDs []uint) (map[uint][]models.Badge, error)
	TagsByPostIDs(postIDs []uint) (map[uint][]models.Tag, error)
	ReplacePostBadges(postID uint, badgeIDs []uint) error
	ReplacePostTags(postID uint, tagNames []string) error
	ListBadges() ([]models.Badge, error)
	ListTags() ([]models.Tag, error)
	GetFormatByConstant(constant string) (*models.Format, error)
	GetFormatByID(id uint) (*models.Format, error)
	GetTypeByConstant(constant string) (*models.Type, error)
	GetModeByConstant(constant string) (*models.Mode, error)
	WithTx(tx *gorm.DB) TaxonomyRepository
}

// GormTaxonomyRepository GORM 实现
type GormTaxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository 创建分类仓库
func NewTaxonomyRepository(db *gorm.DB) *GormTaxonomyRepository {
	return &GormTaxonomyRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTaxonomyRepository) WithTx(tx *gorm.DB) TaxonomyRepository {
	if tx == nil {
		return r
	}
	return &GormTaxonomyRepository{db: tx}
}

// BadgesByPostIDs 批量取一组文章的徽章，整个 id 集合只查一次
func (r *GormTaxonomyRepository) BadgesByPostIDs(postIDs []uint) (map[uint][]models.Badge, error) {
	result := make(map[uint][]models.Badge, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}
	type row struct {
		PostID uint
		models.Badge
	}
	var rows []row
	err := r.db.Model(&models.PostBadge{}).
		Select("post_badges.post_id AS post_id, badges.id AS id, badges.name AS name, badges.image AS image").
		Joins("JOIN badges ON badges.id = post_badges.badge_id").
		Where("post_badges.post_id IN ?", postIDs).
		Order("post_badges.post_id, badges.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, item := range rows {
		result[item.PostID] = append(result[item.PostID], item.Badge)
	}
	return result, nil
}

// TagsByPostIDs 批量取一组文章的标签，整个 id 集合只查一次
func (r *GormTaxonomyRepository) TagsByPostIDs(postIDs []uint) (map[uint][]models.Tag, error) {
	result := make(map[uint][]models.Tag, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}
	type row struct {
		PostID uint
		models.Tag
	}
	var rows []row
	err := r.db.Model(&models.PostTag{}).
		Select("post_tags.post_id AS post_id, tags.id AS id, tags.name AS name").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("post_tags.post_id IN ?", postIDs).
		Order("post_tags.post_id, tags.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, item := range rows {
		result[item.PostID] = append(result[item.PostID], item.Tag)
	}
	return result, nil
}

// ReplacePostBadges 整组替换某文章的徽章关联
func (r *GormTaxonomyRepository) ReplacePostBadges(postID uint, badgeIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostBadge{}).Error; err != nil {
			return err
		}
		if len(badgeIDs) == 0 {
			return nil
		}
		links := make([]models.PostBadge, 0, len(badgeIDs))
		for _, id := range badgeIDs {
			links = append(links, models.PostBadge{PostID: postID, BadgeID: id})
		}
		return tx.Create(&links).Error
	})
}

// ReplacePostTags 整组替换某文章的标签关联
// 标签名先归一化，归一化后为空的丢弃，不存在的标签先建后关联
func (r *GormTaxonomyRepository) ReplacePostTags(postID uint, tagNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(tagNames))
		for _, name := range tagNames {
			name = normalizeTagName(name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}

			tag := models.Tag{Name: name}
			if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.PostTag{PostID: postID, TagID: tag.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListBadges 全部徽章
func (r *GormTaxonomyRepository) ListBadges() ([]models.Badge, error) {
	var badges []models.Badge
	if err := r.db.Order("name").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

// ListTags 全部标签
func (r *GormTaxonomyRepository) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetFormatByConstant 按常量查找格式
func (r *GormTaxonomyRepository) GetFormatByConstant(constant string) (*models.Format, error) {
	var format models.Format
	if err := r.db.Where("constant = ?", constant).First(&format).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &format, nil
}

// GetFormatByID 按主键查找格式
func (r *GormTaxonomyRepository) GetFormatByID(id uint) (*models.Format, error) {
	var format models.Format
	if err := r.db.First(&format, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &format, nil
}

// GetTypeByConstant 按常量查找类型
func (r *GormTaxonomyRepository) GetTypeByConstant(constant string) (*models.Type, error) {
	var typ models.Type
	if err := r.db.Where("constant = ?", constant).First(&typ).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &typ, nil
}

// GetModeByConstant 按常量查找模式
func (r *GormTaxonomyRepository) GetModeByConstant(constant string) (*models.Mode, error) {
	var mode models.Mode
	if err := r.db.Where("constant = ?", constant).First(&mode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mode, nil
}
