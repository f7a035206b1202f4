package shared

import (
	"github.com/wikicore-next/internal/access"
	"github.com/wikicore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Viewer 从上下文取调用方身份，未登录返回匿名身份
func Viewer(c *gin.Context) access.Identity {
	if c == nil {
		return access.Anonymous()
	}
	value, ok := c.Get("viewer")
	if !ok {
		return access.Anonymous()
	}
	viewer, ok := value.(access.Identity)
	if !ok {
		return access.Anonymous()
	}
	return viewer
}

// RequireViewer 要求已登录身份，否则统一返回未授权响应
func RequireViewer(c *gin.Context) (access.Identity, bool) {
	viewer := Viewer(c)
	if !viewer.Authenticated {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return viewer, false
	}
	return viewer, true
}

// SessionID 请求的会话标识，用于记住已验证的分享 UUID
func SessionID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if sid, err := c.Cookie("session_id"); err == nil && sid != "" {
		return sid
	}
	if value, ok := c.Get("request_session"); ok {
		if sid, ok := value.(string); ok {
			return sid
		}
	}
	return ""
}
