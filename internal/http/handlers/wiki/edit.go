package wiki

import (
	"strconv"

	"github.com/wikicore-next/internal/http/handlers/shared"
	"github.com/wikicore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// DraftRequest 草稿保存请求
type DraftRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Autosave 保存草稿，后写覆盖，不触碰已提交内容
func (h *Handler) Autosave(c *gin.Context) {
	viewer, ok := shared.RequireViewer(c)
	if !ok {
		return
	}
	postID, ok := paramID(c)
	if !ok {
		return
	}
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if err := h.RevisionService.Autosave(viewer, postID, req.Title, req.Content); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// Commit 发布草稿为新修订
func (h *Handler) Commit(c *gin.Context) {
	viewer, ok := shared.RequireViewer(c)
	if !ok {
		return
	}
	postID, ok := paramID(c)
	if !ok {
		return
	}
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	sequence, err := h.RevisionService.Commit(c.Request.Context(), viewer, postID, req.Title, req.Content)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"sequence": sequence})
}

// DiscardDraft 丢弃调用方自己的草稿
func (h *Handler) DiscardDraft(c *gin.Context) {
	viewer, ok := shared.RequireViewer(c)
	if !ok {
		return
	}
	postID, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.RevisionService.DiscardDraft(viewer, postID); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// Diff 每份并发草稿对已提交基线的词级差异
func (h *Handler) Diff(c *gin.Context) {
	viewer, ok := shared.RequireViewer(c)
	if !ok {
		return
	}
	postID, ok := paramID(c)
	if !ok {
		return
	}
	diffs, err := h.RevisionService.Diff(viewer, postID)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, diffs)
}

// History 已提交修订历史
func (h *Handler) History(c *gin.Context) {
	postID, ok := paramID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	revs, total, err := h.RevisionService.History(shared.Viewer(c), postID, page, pageSize)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, revs, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// Reindex 手动触发重建索引，仅管理员
func (h *Handler) Reindex(c *gin.Context) {
	viewer, ok := shared.RequireViewer(c)
	if !ok {
		return
	}
	if !viewer.IsAdmin {
		response.Forbidden(c, "permission denied")
		return
	}
	postID, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.IndexService.Reindex(postID); err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
