package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/wikicore-next/internal/access"
	"github.com/wikicore-next/internal/cache"
	"github.com/wikicore-next/internal/logger"
	"github.com/wikicore-next/internal/models"
	"github.com/wikicore-next/internal/repository"
)

// PermissionService 权限解析服务
type PermissionService struct {
	repo repository.PermissionRepository
}

// NewPermissionService 创建权限服务
func NewPermissionService(repo repository.PermissionRepository) *PermissionService {
	return &PermissionService{repo: repo}
}

// Resolver 单次请求内的权限解析器
// 解析结果只在本请求内记忆，绝不跨请求复用
type Resolver struct {
	svc    *PermissionService
	viewer access.Identity
	memo   map[uint]access.PermissionSet
}

// ForRequest 为一次请求创建解析器
func (s *PermissionService) ForRequest(viewer access.Identity) *Resolver {
	return &Resolver{
		svc:    s,
		viewer: viewer,
		memo:   make(map[uint]access.PermissionSet),
	}
}

// Viewer 本次请求的调用方身份
func (r *Resolver) Viewer() access.Identity {
	return r.viewer
}

// Resolve 求调用方在某文章上持有的能力集合
// 管理员与创建者直接得到旁路权限集，不枚举具体能力
func (r *Resolver) Resolve(post *models.Post) (access.PermissionSet, error) {
	if post == nil {
		return access.NewPermissionSet(nil), nil
	}
	if r.viewer.IsAdmin {
		return access.Wildcard(), nil
	}
	if r.viewer.Authenticated && post.CreatedBy == r.viewer.UserID {
		return access.Wildcard(), nil
	}
	if cached, ok := r.memo[post.ID]; ok {
		return cached, nil
	}
	constantsList, err := r.svc.repo.ResolveConstants(post.ID, r.viewer.UserID)
	if err != nil {
		return access.NewPermissionSet(nil), err
	}
	set := access.NewPermissionSet(constantsList)
	r.memo[post.ID] = set
	return set, nil
}

// HasPermission 调用方是否持有某能力，常量大小写不敏感
func (r *Resolver) HasPermission(post *models.Post, constant string) (bool, error) {
	set, err := r.Resolve(post)
	if err != nil {
		return false, err
	}
	return set.Has(constant), nil
}

// UUIDPermission 分享 UUID 换取只读访问
// 接受规范形式或 32 位紧凑形式，验证通过后在会话内记住
func (r *Resolver) UUIDPermission(ctx context.Context, post *models.Post, token, sessionID string) bool {
	if post == nil || !post.Shared {
		return false
	}
	if token == "" {
		return cache.HasSharedUUID(ctx, sessionID, post.UUID)
	}
	canonical := ExpandUUID(token)
	if canonical == "" || canonical != post.UUID {
		return false
	}
	if err := cache.RememberSharedUUID(ctx, sessionID, canonical); err != nil {
		logger.Warnw("shared_uuid_remember_failed", "post_id", post.ID, "error", err)
	}
	return true
}

// ExpandUUID 把紧凑或规范形式的 UUID 规整为规范形式，非法输入返回空串
func ExpandUUID(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	parsed, err := uuid.Parse(token)
	if err != nil {
		return ""
	}
	return parsed.String()
}
