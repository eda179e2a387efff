package gallery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anoixa/image-share/api/common"
	"github.com/anoixa/image-share/database/repo/accounts"
	"github.com/anoixa/image-share/database/repo/images"
	"github.com/gin-gonic/gin"
)

type likeRequest struct {
	ImageID  uint   `json:"imageId"`
	Username string `json:"username"`
}

// LikeImage 点赞图片 POST /api/like
func (h *Handler) LikeImage(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Message(c, http.StatusNotFound, "Image or user not found")
		return
	}

	likes, err := h.service.Like(c.Request.Context(), req.ImageID, req.Username)
	if err != nil {
		h.respondLikeError(c, err, "Image already liked")
		return
	}

	common.MessageWith(c, http.StatusOK, "Liked successfully", gin.H{"likes": likes})
}

// UnlikeImage 取消点赞 POST /api/unlike
func (h *Handler) UnlikeImage(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Message(c, http.StatusNotFound, "Image or user not found")
		return
	}

	likes, err := h.service.Unlike(c.Request.Context(), req.ImageID, req.Username)
	if err != nil {
		h.respondLikeError(c, err, "Image not liked")
		return
	}

	common.MessageWith(c, http.StatusOK, "Unliked successfully", gin.H{"likes": likes})
}

// IsLiked 查询点赞状态 GET /api/isliked?imageId=N&username=xxx
func (h *Handler) IsLiked(c *gin.Context) {
	imageID, err := strconv.ParseUint(c.Query("imageId"), 10, 32)
	if err != nil {
		common.Message(c, http.StatusNotFound, "Image or user not found")
		return
	}

	liked, err := h.service.IsLiked(c.Request.Context(), uint(imageID), c.Query("username"))
	if err != nil {
		h.respondLikeError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"isLiked": liked})
}

// respondLikeError maps lookup and state errors of the like endpoints;
// conflictMessage is the 400 text for the duplicate-state case.
func (h *Handler) respondLikeError(c *gin.Context, err error, conflictMessage string) {
	switch {
	case errors.Is(err, images.ErrImageNotFound), errors.Is(err, accounts.ErrUserNotFound):
		common.Message(c, http.StatusNotFound, "Image or user not found")
	case errors.Is(err, images.ErrAlreadyLiked), errors.Is(err, images.ErrNotLiked):
		common.Message(c, http.StatusBadRequest, conflictMessage)
	default:
		common.Message(c, http.StatusInternalServerError, err.Error())
	}
}
