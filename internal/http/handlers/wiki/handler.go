package wiki

import "github.com/wikicore-next/internal/provider"

// Handler wiki 引擎 API 处理器入口
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
