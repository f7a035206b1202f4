package repository

import (
	"errors"

	"github.com/wikicore-next/internal/constants"
	"github.com/wikicore-next/internal/models"

	"gorm.io/gorm"
)

// RoleGrantSummary 某文章上某角色的读写授权摘要
type RoleGrantSummary struct {
	RoleID   uint   `json:"role_id"`
	RoleName string `json:"role_name"`
	Read     bool   `json:"read"`
	Write    bool   `json:"write"`
}

// PermissionRepository 授权数据访问接口
type PermissionRepository interface {
	ResolveConstants(postID, userID uint) ([]string, error)
	RoleSummaries(postIDs []uint) (map[uint][]RoleGrantSummary, error)
	ReplacePostGrants(postID uint, grants []models.PostPermission) error
	ListUserRoleIDs(userID uint) ([]uint, error)
	GetPermissionByConstant(constant string) (*models.Permission, error)
	WithTx(tx *gorm.DB) PermissionRepository
}

// GormPermissionRepository GORM 实现
type GormPermissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository 创建授权仓库
func NewPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPermissionRepository) WithTx(tx *gorm.DB) PermissionRepository {
	if tx == nil {
		return r
	}
	return &GormPermissionRepository{db: tx}
}

// ResolveConstants 求用户经由角色在某文章上持有的能力常量集合
func (r *GormPermissionRepository) ResolveConstants(postID, userID uint) ([]string, error) {
	var constantsList []string
	err := r.db.Model(&models.PostPermission{}).
		Distinct("permissions.constant").
		Joins("JOIN permissions ON permissions.id = post_permissions.permission_id").
		Joins("JOIN user_roles ON user_roles.role_id = post_permissions.role_id").
		Where("post_permissions.post_id = ?", postID).
		Where("user_roles.user_id = ?", userID).
		Pluck("permissions.constant", &constantsList).Error
	if err != nil {
		return nil, err
	}
	return constantsList, nil
}

// RoleSummaries 批量取一组文章的角色读写摘要，整个 id 集合只查一次
func (r *GormPermissionRepository) RoleSummaries(postIDs []uint) (map[uint][]RoleGrantSummary, error) {
	result := make(map[uint][]RoleGrantSummary, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	type grantRow struct {
		PostID   uint
		RoleID   uint
		RoleName string
		Constant string
	}
	var rows []grantRow
	err := r.db.Model(&models.PostPermission{}).
		Select("post_permissions.post_id AS post_id, roles.id AS role_id, roles.name AS role_name, permissions.constant AS constant").
		Joins("JOIN permissions ON permissions.id = post_permissions.permission_id").
		Joins("JOIN roles ON roles.id = post_permissions.role_id").
		Where("post_permissions.post_id IN ?", postIDs).
		Order("post_permissions.post_id, roles.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// 同一 (post, role) 的多条授权合并为一条摘要
	index := make(map[uint]map[uint]int)
	for _, row := range rows {
		if index[row.PostID] == nil {
			index[row.PostID] = make(map[uint]int)
		}
		pos, ok := index[row.PostID][row.RoleID]
		if !ok {
			result[row.PostID] = append(result[row.PostID], RoleGrantSummary{RoleID: row.RoleID, RoleName: row.RoleName})
			pos = len(result[row.PostID]) - 1
			index[row.PostID][row.RoleID] = pos
		}
		switch row.Constant {
		case constants.PermissionRead:
			result[row.PostID][pos].Read = true
		case constants.PermissionWrite:
			result[row.PostID][pos].Write = true
		}
	}
	return result, nil
}

// ReplacePostGrants 整组替换某文章的授权三元组
func (r *GormPermissionRepository) ReplacePostGrants(postID uint, grants []models.PostPermission) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostPermission{}).Error; err != nil {
			return err
		}
		for i := range grants {
			grants[i].ID = 0
			grants[i].PostID = postID
		}
		if len(grants) == 0 {
			return nil
		}
		return tx.Create(&grants).Error
	})
}

// ListUserRoleIDs 用户所属角色 id 列表
func (r *GormPermissionRepository) ListUserRoleIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetPermissionByConstant 按能力常量查找权限定义
func (r *GormPermissionRepository) GetPermissionByConstant(constant string) (*models.Permission, error) {
	var perm models.Permission
	if err := r.db.Where("constant = ?", constant).First(&perm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}
