package repository

import (
	"errors"
	"strings"

	"github.com/wikicore-next/internal/constants"
	"github.com/wikicore-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 某角色对某文章持有 read 授权的存在性判断
const readGrantExistsSQL = `EXISTS (
	SELECT 1 FROM post_permissions
	JOIN permissions ON permissions.id = post_permissions.permission_id
	JOIN user_roles ON user_roles.role_id = post_permissions.role_id
	WHERE post_permissions.post_id = posts.id
	  AND permissions.constant = ?
	  AND user_roles.user_id = ?
)`

// PostRepository 文章数据访问接口
type PostRepository interface {
	Search(filter SearchFilter) ([]models.Post, int64, error)
	GetByID(id uint) (*models.Post, error)
	GetByIDForUpdate(id uint) (*models.Post, error)
	GetByUUID(uuid string) (*models.Post, error)
	ListByIDs(ids []uint) ([]models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	SetDeleted(id uint, deleted bool, updatedBy uint) error
	PermanentDelete(id uint) error
	IncrementClicks(id uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PostRepository
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPostRepository) WithTx(tx *gorm.DB) PostRepository {
	if tx == nil {
		return r
	}
	return &GormPostRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPostRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Search 文章检索
// 关键词路径按 post 分组聚合权重排名，浏览路径走普通分页；
// 两条路径的总数统计结构不同，分别处理
func (r *GormPostRepository) Search(filter SearchFilter) ([]models.Post, int64, error) {
	keyword := len(filter.Terms) > 0

	build := func() *gorm.DB {
		query := r.db.Model(&models.Post{}).
			Where("posts.deleted = ?", filter.Deleted).
			Where("posts.hidden = ?", filter.Hidden)

		if !filter.ViewerAdmin {
			query = query.Where("("+readGrantExistsSQL+" OR posts.created_by = ?)",
				constants.PermissionRead, filter.ViewerID, filter.ViewerID)
		}
		if len(filter.TypeIDs) > 0 {
			query = query.Where("posts.type_id IN ?", filter.TypeIDs)
		}
		if len(filter.FormatIDs) > 0 {
			query = query.Where("posts.format_id IN ?", filter.FormatIDs)
		}
		if len(filter.TagIDs) > 0 {
			query = query.Where("EXISTS (SELECT 1 FROM post_tags WHERE post_tags.post_id = posts.id AND post_tags.tag_id IN ?)", filter.TagIDs)
		}
		if len(filter.BadgeIDs) > 0 {
			query = query.Where("EXISTS (SELECT 1 FROM post_badges WHERE post_badges.post_id = posts.id AND post_badges.badge_id IN ?)", filter.BadgeIDs)
		}
		if filter.TitleOnly {
			if kw := strings.TrimSpace(filter.Keyword); kw != "" {
				query = query.Where("posts.title LIKE ?", "%"+kw+"%")
			}
			return query
		}
		if keyword {
			query = query.
				Joins("JOIN post_indexes ON post_indexes.post_id = posts.id").
				Where("post_indexes.word IN ?", filter.Terms).
				Group("posts.id")
			if filter.AndMatch {
				query = query.Having("COUNT(DISTINCT post_indexes.word) >= ?", len(filter.Terms))
			}
		}
		return query
	}

	grouped := keyword && !filter.TitleOnly

	var total int64
	if grouped {
		// 分组查询的总数是分组数，需要包一层子查询
		sub := build().Select("posts.id")
		if err := r.db.Table("(?) AS matched", sub).Count(&total).Error; err != nil {
			return nil, 0, err
		}
	} else {
		if err := build().Count(&total).Error; err != nil {
			return nil, 0, err
		}
	}

	query := build()
	if grouped {
		query = query.Select("posts.*")
	}
	query = applySearchOrder(query, filter.Sort, grouped)
	query = applyPagination(query, filter.Page, filter.PageSize)

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// applySearchOrder 排序规则
// 显式排序键整体替换默认排序；关键词路径默认按权重和降序，平权按 id 升序
func applySearchOrder(query *gorm.DB, sort string, grouped bool) *gorm.DB {
	switch sort {
	case constants.SortUpdatedNew:
		return query.Order("posts.updated_at DESC")
	case constants.SortUpdatedOld:
		return query.Order("posts.updated_at ASC")
	case constants.SortCreatedNew:
		return query.Order("posts.created_at DESC")
	case constants.SortCreatedOld:
		return query.Order("posts.created_at ASC")
	case constants.SortTitleAZ:
		return query.Order("posts.title ASC")
	case constants.SortTitleZA:
		return query.Order("posts.title DESC")
	case constants.SortMostViews:
		return query.Order("posts.clicks DESC")
	}
	if grouped {
		return query.Order("SUM(post_indexes.weight) DESC").Order("posts.id ASC")
	}
	return query.Order("posts.updated_at DESC")
}

// GetByID 按主键查找
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByIDForUpdate 按主键加锁获取文章，必须在事务内调用
func (r *GormPostRepository) GetByIDForUpdate(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByUUID 按 UUID 查找
func (r *GormPostRepository) GetByUUID(uuid string) (*models.Post, error) {
	var post models.Post
	if err := r.db.Where("uuid = ?", uuid).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ListByIDs 按主键集合批量查找
func (r *GormPostRepository) ListByIDs(ids []uint) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []models.Post
	if err := r.db.Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Create 新建文章
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update 保存文章
func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// SetDeleted 软删除或恢复
func (r *GormPostRepository) SetDeleted(id uint, deleted bool, updatedBy uint) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		Updates(map[string]interface{}{"deleted": deleted, "updated_by": updatedBy}).Error
}

// PermanentDelete 永久删除文章及其全部从属行，单事务内完成
func (r *GormPostRepository) PermanentDelete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostBadge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostIndex{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostPermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostRead{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Revision{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// IncrementClicks 点击计数，必须是原子更新而非读改写
func (r *GormPostRepository) IncrementClicks(id uint) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1)).Error
}
