package wiki

import (
	"strconv"
	"strings"

	"github.com/wikicore-next/internal/http/handlers/shared"
	"github.com/wikicore-next/internal/http/response"
	"github.com/wikicore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Search 检索文章
// 过滤类别内为 OR、类别间为 AND；关键词语义与排序由服务层决定
func (h *Handler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	input := service.SearchInput{
		Query:     c.Query("q"),
		TypeIDs:   parseIDList(c.Query("type")),
		FormatIDs: parseIDList(c.Query("format")),
		TagIDs:    parseIDList(c.Query("tag")),
		BadgeIDs:  parseIDList(c.Query("badge")),
		Hidden:    c.Query("hidden") == "1" || c.Query("hidden") == "true",
		Deleted:   c.Query("deleted") == "1" || c.Query("deleted") == "true",
		TitleOnly: c.Query("title_only") == "1" || c.Query("title_only") == "true",
		Sort:      c.Query("sort"),
		Page:      page,
	}

	result, err := h.SearchService.Search(shared.Viewer(c), input)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	response.SuccessWithPage(c, result.Posts, response.Pagination{
		Page:      result.Page,
		PageSize:  result.PageSize,
		Total:     result.Total,
		TotalPage: int64(result.TotalPages),
	})
}

// parseIDList 解析逗号分隔的 id 列表，非法项直接丢弃
func parseIDList(raw string) []uint {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil || n == 0 {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids
}
