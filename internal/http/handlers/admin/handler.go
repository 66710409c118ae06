package admin

import "github.com/souq-next/internal/provider"

// Handler 后台接口处理器入口
// 说明：库存、财务与对账接口共用，调用方范围由中间件注入。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
