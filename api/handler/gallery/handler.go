package gallery

import (
	"github.com/anoixa/image-share/internal/gallery"
)

// Handler 图库接口处理器
type Handler struct {
	service *gallery.Service
}

// NewHandler 创建图库处理器
func NewHandler(service *gallery.Service) *Handler {
	return &Handler{service: service}
}
