// Package user provides HTTP handlers for user account operations.
package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobtrust-backend/internal/database"
	"jobtrust-backend/internal/model"
	"jobtrust-backend/internal/trust"
	"jobtrust-backend/internal/utilities"
)

// UserController handles user related endpoints
type UserController struct {
	DB     *database.DBinstanceStruct
	Engine *trust.Engine
}

// NewUserController creates a new instance of UserController
func NewUserController(db *database.DBinstanceStruct) *UserController {
	return &UserController{
		DB:     db,
		Engine: trust.NewEngine(db),
	}
}

// RecomputeReputation recomputes one user's reputation score on demand.
// @Summary Recompute a user's reputation score
// @Description Re-derives the reputation score from the user's current profile and stores it.
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID (UUID)"
// @Success 200 {object} model.PublicProfile "Profile with refreshed reputation score"
// @Failure 400 {object} utilities.ErrorResponse "Invalid user id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "User doesn't have permission to access"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/{id}/reputation/recompute [get]
func (uc *UserController) RecomputeReputation(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid user id"})
		return
	}

	if err := uc.Engine.UpdateUserReputation(userID); err != nil {
		if errors.Is(err, trust.ErrNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{
				Error: "User not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to recompute reputation: " + err.Error(),
		})
		return
	}

	var target model.User
	if err := uc.DB.First(&target, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Database error: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, target.ToPublicProfile())
}
