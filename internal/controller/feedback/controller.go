// Package feedback provides HTTP handlers for job feedback operations.
package feedback

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobtrust-backend/internal/database"
	"jobtrust-backend/internal/model"
	"jobtrust-backend/internal/trust"
	"jobtrust-backend/internal/utilities"
)

// FeedbackController handles feedback related endpoints
type FeedbackController struct {
	DB     *database.DBinstanceStruct
	Engine *trust.Engine
}

// NewFeedbackController creates a new instance of FeedbackController
func NewFeedbackController(db *database.DBinstanceStruct) *FeedbackController {
	return &FeedbackController{
		DB:     db,
		Engine: trust.NewEngine(db),
	}
}

// SubmitFeedbackRequest represents the request body for submitting feedback.
// Either job_posting_id or job_application_id must identify the job.
type SubmitFeedbackRequest struct {
	JobPostingID     *uint   `json:"job_posting_id"`
	JobApplicationID *uint   `json:"job_application_id"`
	FeedbackType     string  `json:"feedback_type" binding:"required,oneof=response interview scam expired hired ghosted rejected payment_required"`
	IsReal           *bool   `json:"is_real" binding:"required"`
	IsResponsive     *bool   `json:"is_responsive"`
	DidInterview     *bool   `json:"did_interview"`
	AskedForMoney    *bool   `json:"asked_for_money"`
	Comment          *string `json:"comment" binding:"omitempty,max=500"`
}

// SubmitFeedback handles the creation of feedback on a job posting.
// @Summary Submit feedback about a job posting
// @Description Submit feedback identified by a posting ID or a tracked application. The posting's authenticity score is recomputed before the response returns.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param feedback body SubmitFeedbackRequest true "Feedback information"
// @Success 201 {object} model.Feedback "Feedback created successfully"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or unresolvable submission"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting or application not found"
// @Failure 409 {object} utilities.ErrorResponse "Feedback already exists for this job"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /feedback [post]
func (fc *FeedbackController) SubmitFeedback(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	created, err := fc.Engine.SubmitFeedback(user, trust.SubmitInput{
		JobPostingID:     req.JobPostingID,
		JobApplicationID: req.JobApplicationID,
		FeedbackType:     req.FeedbackType,
		IsReal:           *req.IsReal,
		IsResponsive:     req.IsResponsive,
		DidInterview:     req.DidInterview,
		AskedForMoney:    req.AskedForMoney,
		Comment:          req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, trust.ErrValidation):
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		case errors.Is(err, trust.ErrNotFound):
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: err.Error()})
		case errors.Is(err, trust.ErrDuplicateFeedback):
			c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to submit feedback: %s", err.Error()),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListJobFeedback retrieves feedback for a job posting, newest first.
// @Summary List feedback for a job posting
// @Description Paginated feedback for one posting, each row joined with the submitter's public profile.
// @Tags Feedback
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "Job posting ID"
// @Param page query integer false "Page number, starting from 1"
// @Param limit query integer false "Page size, default 20, max 100"
// @Success 200 {object} map[string]interface{} "Feedback page with total count"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id}/feedback [get]
func (fc *FeedbackController) ListJobFeedback(c *gin.Context) {
	postingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job posting id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var posting model.JobPosting
	if err := fc.DB.First(&posting, postingID).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
		return
	}

	var total int64
	if err := fc.DB.Model(&model.Feedback{}).
		Where("job_posting_id = ?", postingID).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Database error: " + err.Error(),
		})
		return
	}

	var rows []model.Feedback
	if err := fc.DB.Preload("User").
		Where("job_posting_id = ?", postingID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Database error: " + err.Error(),
		})
		return
	}

	items := make([]model.FeedbackWithSubmitter, 0, len(rows))
	for _, row := range rows {
		items = append(items, model.FeedbackWithSubmitter{
			Feedback:  row,
			Submitter: row.User.ToPublicProfile(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": items,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}
