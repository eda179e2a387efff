package generate

import (
	"errors"
	"net/http"

	"github.com/anoixa/image-share/api/common"
	"github.com/anoixa/image-share/internal/gallery"
	"github.com/anoixa/image-share/internal/generate"
	"github.com/gin-gonic/gin"
)

// Handler 图片生成接口处理器
type Handler struct {
	client *generate.Client
}

// NewHandler 创建生成处理器
func NewHandler(client *generate.Client) *Handler {
	return &Handler{client: client}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// Generate 调用推理端点生成图片 POST /api/generate
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		common.Message(c, http.StatusBadRequest, common.MissingFieldsMessage([]string{"prompt"}))
		return
	}

	data, err := h.client.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, generate.ErrNotConfigured) {
			common.Message(c, http.StatusServiceUnavailable, "Image generation is not configured")
			return
		}
		common.Message(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": gallery.EncodeDataURL(data)})
}
