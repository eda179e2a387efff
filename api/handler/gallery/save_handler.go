package gallery

import (
	"errors"
	"log"
	"net/http"

	"github.com/anoixa/image-share/api/common"
	"github.com/anoixa/image-share/database/repo/accounts"
	"github.com/anoixa/image-share/internal/gallery"
	"github.com/gin-gonic/gin"
)

// prompt and isPublic are pointers so that "" and false pass validation;
// only absent or null counts as missing.
type saveRequest struct {
	Username  string  `json:"username"`
	ImageData string  `json:"imageData"`
	Prompt    *string `json:"prompt"`
	IsPublic  *bool   `json:"isPublic"`
	Tags      string  `json:"tags"`
}

// SaveImage 保存图片 POST /api/save
func (h *Handler) SaveImage(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Message(c, http.StatusBadRequest, "No data provided")
		return
	}

	var missing []string
	if req.Username == "" {
		missing = append(missing, "username")
	}
	if req.ImageData == "" {
		missing = append(missing, "imageData")
	}
	if req.Prompt == nil {
		missing = append(missing, "prompt")
	}
	if req.IsPublic == nil {
		missing = append(missing, "isPublic")
	}
	if req.Tags == "" {
		missing = append(missing, "tags")
	}
	if len(missing) > 0 {
		common.Message(c, http.StatusBadRequest, common.MissingFieldsMessage(missing))
		return
	}

	url, err := h.service.SaveImage(c.Request.Context(), &gallery.SaveRequest{
		Username:  req.Username,
		ImageData: req.ImageData,
		Prompt:    *req.Prompt,
		IsPublic:  *req.IsPublic,
		Tags:      req.Tags,
	})
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			common.Message(c, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error saving image: %v", err)
		common.Message(c, http.StatusInternalServerError, err.Error())
		return
	}

	common.MessageWith(c, http.StatusCreated, "Image data saved successfully!", gin.H{
		"url": url,
	})
}
