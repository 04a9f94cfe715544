package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trackrec/records-backend-go/internal/middleware"
	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/service"
	"github.com/trackrec/records-backend-go/pkg/response"
)

// UserHandler handles the caller's profile
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type profileRequest struct {
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
	IsBot        bool   `json:"is_bot"`
}

// UpsertMe handles PUT /api/v1/users/me
func (h *UserHandler) UpsertMe(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Upsert(c.Request.Context(), models.User{
		ExternalID:   middleware.ExternalUserID(c),
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		LanguageCode: req.LanguageCode,
		IsBot:        req.IsBot,
	})
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, user)
}
