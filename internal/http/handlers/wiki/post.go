package wiki

import (
	"strconv"

	"github.com/wikicore-next/internal/http/handlers/shared"
	"github.com/wikicore-next/internal/http/response"
	"github.com/wikicore-next/internal/models"
	"github.com/wikicore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetPost 查看文章详情
// 未授权调用方可携带 uuid 参数以分享令牌换取只读访问
func (h *Handler) GetPost(c *gin.Context) {
	postID, ok := paramID(c)
	if !ok {
		return
	}
	view, err := h.PostService.View(c.Request.Context(), shared.Viewer(c), postID, c.Query("uuid"), shared.SessionID(c))
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"post":    view.Post,
		"content": view.Content,
	})
}

// GetSharedPost 以 UUID 访问未公开分享的文章
func (h *Handler) GetSharedPost(c *gin.Context) {
	token := c.Param("uuid")
	view, err := h.PostService.ViewByUUID(c.Request.Context(), shared.Viewer(c), token, shared.SessionID(c))
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"post":    view.Post,
		"content": view.Content,
	})
}

// CreatePostRequest 创建文章请求
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Format  string `json:"format"`
	Type    string `json:"type"`
	Mode    string `json:"mode"`
	Hidden  bool   `json:"hidden"`
	Shared  bool   `json:"shared"`
}

// CreatePost 新建文章
func (h *Handler) CreatePost(c *gin.Context) {
	viewer, ok := shared.RequireViewer(c)
	if !ok {
		return
	}
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	post, err := h.PostService.Create(c.Request.Context(), viewer, service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Format:  req.Format,
		Type:    req.Type,
		Mode:    req.Mode,
		Hidden:  req.Hidden,
		Shared:  req.Shared,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章，默认软删除，permanent=true 时永久删除并级联清理
func (h *Handler) DeletePost(c *gin.Context) {
	viewer, ok := shared.RequireViewer(c)
	if !ok {
		return
	}
	postID, ok := paramID(c)
	if !ok {
		return
	}
	var err error
	if c.Query("permanent") == "true" {
		err = h.PostService.PermanentDelete(c.Request.Context(), viewer, postID)
	} else {
		err = h.PostService.SetDeleted(c.Request.Context(), viewer, postID, true)
	}
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// UndeletePost 恢复软删除的文章
func (h *Handler) UndeletePost(c *gin.Context) {
	viewer, ok := shared.RequireViewer(c)
	if !ok {
		return
	}
	postID, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.PostService.SetDeleted(c.Request.Context(), viewer, postID, false); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// SetBadgesRequest 替换徽章请求
type SetBadgesRequest struct {
	BadgeIDs []uint `json:"badge_ids"`
}

// SetBadges 整组替换文章徽章
func (h *Handler) SetBadges(c *gin.Context) {
	viewer, ok := shared.RequireViewer(c)
	if !ok {
		return
	}
	postID, ok := paramID(c)
	if !ok {
		return
	}
	var req SetBadgesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if err := h.PostService.SetBadges(c.Request.Context(), viewer, postID, req.BadgeIDs); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// SetTagsRequest 替换标签请求
type SetTagsRequest struct {
	Tags []string `json:"tags"`
}

// SetTags 整组替换文章标签，新标签自动创建
func (h *Handler) SetTags(c *gin.Context) {
	viewer, ok := shared.RequireViewer(c)
	if !ok {
		return
	}
	postID, ok := paramID(c)
	if !ok {
		return
	}
	var req SetTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if err := h.PostService.SetTags(c.Request.Context(), viewer, postID, req.Tags); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// GrantItem 单条授权
type GrantItem struct {
	RoleID       uint `json:"role_id" binding:"required"`
	PermissionID uint `json:"permission_id" binding:"required"`
}

// SetGrantsRequest 替换授权请求
type SetGrantsRequest struct {
	Grants []GrantItem `json:"grants"`
}

// SetGrants 整组替换文章授权三元组
func (h *Handler) SetGrants(c *gin.Context) {
	viewer, ok := shared.RequireViewer(c)
	if !ok {
		return
	}
	postID, ok := paramID(c)
	if !ok {
		return
	}
	var req SetGrantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	grants := make([]models.PostPermission, 0, len(req.Grants))
	for _, g := range req.Grants {
		grants = append(grants, models.PostPermission{RoleID: g.RoleID, PermissionID: g.PermissionID})
	}
	if err := h.PostService.SetGrants(c.Request.Context(), viewer, postID, grants); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// paramID 解析路径中的文章 id
func paramID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || n == 0 {
		response.BadRequest(c, "invalid post id")
		return 0, false
	}
	return uint(n), true
}
