package account

import (
	"errors"
	"log"
	"net/http"

	"github.com/anoixa/image-share/api/common"
	"github.com/anoixa/image-share/internal/auth"
	"github.com/anoixa/image-share/utils"
	"github.com/gin-gonic/gin"
)

// Handler 账户接口处理器
type Handler struct {
	authService *auth.Service
}

// NewHandler 创建账户处理器
func NewHandler(authService *auth.Service) *Handler {
	return &Handler{authService: authService}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register 处理用户注册 POST /register
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Message(c, http.StatusBadRequest, "No data provided")
		return
	}

	var missing []string
	if req.Username == "" {
		missing = append(missing, "username")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		common.Message(c, http.StatusBadRequest, common.MissingFieldsMessage(missing))
		return
	}

	_, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			common.Message(c, http.StatusBadRequest, "Username already exists!")
			return
		}
		common.Message(c, http.StatusInternalServerError, err.Error())
		return
	}

	common.MessageWith(c, http.StatusCreated, "User registered successfully!", gin.H{
		"username": req.Username,
	})
}

// Login 处理用户登录 POST /login
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Message(c, http.StatusUnauthorized, "Invalid username or password!")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			common.Message(c, http.StatusUnauthorized, "Invalid username or password!")
			return
		}
		common.Message(c, http.StatusInternalServerError, "Login failed")
		return
	}

	log.Printf("User %s logged in", utils.SanitizeLogUsername(result.User.Username))

	common.MessageWith(c, http.StatusOK, "Login successful!", gin.H{
		"username": result.User.Username,
		"token":    result.AccessToken,
	})
}
