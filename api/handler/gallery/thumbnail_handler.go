package gallery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anoixa/image-share/api/common"
	"github.com/anoixa/image-share/database/repo/images"
	"github.com/anoixa/image-share/internal/gallery"
	internalimage "github.com/anoixa/image-share/internal/image"
	"github.com/gin-gonic/gin"
)

// Thumbnail 获取图片缩略图 GET /api/thumbnail?imageId=N&size=S
func (h *Handler) Thumbnail(c *gin.Context) {
	imageID, err := strconv.ParseUint(c.Query("imageId"), 10, 32)
	if err != nil {
		common.Message(c, http.StatusNotFound, "Image not found")
		return
	}

	size, _ := strconv.Atoi(c.Query("size"))

	image, err := h.service.GetImageByID(c.Request.Context(), uint(imageID))
	if err != nil {
		if errors.Is(err, images.ErrImageNotFound) {
			common.Message(c, http.StatusNotFound, "Image not found")
			return
		}
		common.Message(c, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := h.service.LoadImageData(c.Request.Context(), image)
	if err != nil {
		common.Message(c, http.StatusInternalServerError, err.Error())
		return
	}

	thumb, err := internalimage.Thumbnail(data, size)
	if err != nil {
		common.Message(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": gallery.EncodeDataURL(thumb)})
}
