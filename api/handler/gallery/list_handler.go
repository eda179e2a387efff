package gallery

import (
	"errors"
	"net/http"

	"github.com/anoixa/image-share/api/common"
	"github.com/anoixa/image-share/database/repo/accounts"
	"github.com/anoixa/image-share/internal/gallery"
	"github.com/gin-gonic/gin"
)

// ListPublicImages 获取公开图片列表 GET /api/public
func (h *Handler) ListPublicImages(c *gin.Context) {
	views, err := h.service.ListPublicImages(c.Request.Context())
	if err != nil {
		if errors.Is(err, gallery.ErrNoPublicImages) {
			common.Message(c, http.StatusNotFound, "No public images found!")
			return
		}
		common.Message(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": views})
}

// ListUserImages 获取用户图片列表 GET /api/user?username=xxx
func (h *Handler) ListUserImages(c *gin.Context) {
	username := c.Query("username")

	views, err := h.service.ListUserImages(c.Request.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrUserNotFound):
			common.Message(c, http.StatusNotFound, "User not found")
		case errors.Is(err, gallery.ErrNoUserImages):
			common.Message(c, http.StatusNotFound, "No images found for this user!")
		default:
			common.Message(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": views})
}
