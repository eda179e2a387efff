package gallery

import (
	"errors"
	"net/http"

	"github.com/anoixa/image-share/api/common"
	"github.com/anoixa/image-share/database/repo/images"
	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	ImageID uint   `json:"image_id"`
	Comment string `json:"comment"`
}

// CommentImage 追加评论 POST /api/comment
func (h *Handler) CommentImage(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Message(c, http.StatusNotFound, "Image not found")
		return
	}

	if err := h.service.Comment(c.Request.Context(), req.ImageID, req.Comment); err != nil {
		if errors.Is(err, images.ErrImageNotFound) {
			common.Message(c, http.StatusNotFound, "Image not found")
			return
		}
		common.Message(c, http.StatusInternalServerError, err.Error())
		return
	}

	common.Message(c, http.StatusOK, "Comment added successfully!")
}
