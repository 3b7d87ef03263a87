// Package jobpost provides HTTP handlers for job posting related operations.
package jobpost

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"jobtrust-backend/internal/database"
	"jobtrust-backend/internal/model"
	"jobtrust-backend/internal/trust"
	"jobtrust-backend/internal/utilities"
)

// JobPostController handles job posting related endpoints
type JobPostController struct {
	DB     *database.DBinstanceStruct
	Engine *trust.Engine
}

// NewJobPostController creates a new instance of JobPostController
func NewJobPostController(db *database.DBinstanceStruct) *JobPostController {
	return &JobPostController{
		DB:     db,
		Engine: trust.NewEngine(db),
	}
}

// CreateJobPostRequest represents the request body for submitting a posting.
type CreateJobPostRequest struct {
	Title    string `json:"title" binding:"required"`
	Company  string `json:"company" binding:"required"`
	Location string `json:"location"`
	Country  string `json:"country"`
	URL      string `json:"url" binding:"omitempty,url"`
}

// CreateJobPost handles direct submission of a job posting by a user.
// @Summary Create a job posting
// @Description User-submitted postings start in pending status; admin submissions are approved immediately.
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param posting body CreateJobPostRequest true "Posting information"
// @Success 201 {object} model.JobPosting "Successfully create job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 409 {object} utilities.ErrorResponse "Posting with this URL already exists"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost [post]
func (jc *JobPostController) CreateJobPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req CreateJobPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	source := model.SourceUser
	status := model.StatusPending
	if user.Role == model.RoleAdmin {
		source = model.SourceAdmin
		status = model.StatusApproved
	}

	posting := model.JobPosting{
		EditableJobPostingInfo: model.EditableJobPostingInfo{
			Title:    req.Title,
			Company:  req.Company,
			Location: req.Location,
			Country:  req.Country,
			URL:      trust.CanonicalJobURL(req.URL),
		},
		Source:            source,
		Status:            status,
		AuthenticityScore: model.NeutralScore,
		TrustBadges:       []string{},
		OwnerUserID:       &user.ID,
	}

	if err := jc.DB.Create(&posting).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: "A posting with this URL already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job posting: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, posting)
}

// GetPostByID fetches a single job posting with its trust fields.
// @Summary Get a job posting by ID
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "Job posting ID"
// @Success 200 {object} model.JobPosting "Return job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id} [get]
func (jc *JobPostController) GetPostByID(c *gin.Context) {
	var posting model.JobPosting
	if err := jc.DB.Where("id = ?", c.Param("id")).First(&posting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{
				Error: "Job posting not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Database error: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, posting)
}

// GetPosts fetches approved job postings that match query from the database.
// @Summary Get approved job postings based on query
// @Description Every query are not required, but they have specific use defined in their description
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Search from posting title with substring matching and case insensitive"
// @Param company query string false "Search from company name with substring matching and case insensitive"
// @Param country query string false "Country field, must exactly match to get result"
// @Param min_score query integer false "Only postings with authenticity score at or above this value"
// @Param page query integer false "Page number, starting from 1"
// @Param limit query integer false "Page size, default 20, max 100"
// @Success 200 {object} map[string]interface{} "Return approved job posting(s)"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost [get]
func (jc *JobPostController) GetPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := jc.DB.Model(&model.JobPosting{}).Where("status = ?", model.StatusApproved)

	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if company := c.Query("company"); company != "" {
		query = query.Where("company ILIKE ?", "%"+company+"%")
	}
	if country := c.Query("country"); country != "" {
		query = query.Where("country = ?", country)
	}
	if minScore := c.Query("min_score"); minScore != "" {
		if score, err := strconv.Atoi(minScore); err == nil {
			query = query.Where("authenticity_score >= ?", score)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Database error: " + err.Error(),
		})
		return
	}

	var postings []model.JobPosting
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&postings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Database error: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"postings": postings,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// SetLock sets or clears the administrative lock on a posting. While locked,
// score recomputes leave the posting untouched.
// @Summary Lock or unlock a job posting's trust fields
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "Job posting ID"
// @Param lock body object{is_locked=boolean} true "Lock flag"
// @Success 200 {object} utilities.MessageResponse "Lock state updated"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "User doesn't have permission to access"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id}/lock [put]
func (jc *JobPostController) SetLock(c *gin.Context) {
	var req struct {
		IsLocked *bool `json:"is_locked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	var posting model.JobPosting
	if err := jc.DB.Where("id = ?", c.Param("id")).First(&posting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{
				Error: "Job posting not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Database error: " + err.Error(),
		})
		return
	}

	if err := jc.DB.Model(&posting).Update("is_locked", *req.IsLocked).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Database error: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{
		Message: "Lock state updated successfully",
	})
}

// Rescore triggers a manual recompute of a posting's trust fields.
// @Summary Recompute a posting's authenticity score
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "Job posting ID"
// @Success 200 {object} model.JobPosting "Posting with refreshed trust fields"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "User doesn't have permission to access"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id}/rescore [post]
func (jc *JobPostController) Rescore(c *gin.Context) {
	postingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job posting id"})
		return
	}

	if err := jc.Engine.RecomputeJobScore(uint(postingID)); err != nil {
		if errors.Is(err, trust.ErrNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{
				Error: "Job posting not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to recompute score: " + err.Error(),
		})
		return
	}

	var posting model.JobPosting
	if err := jc.DB.First(&posting, postingID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Database error: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, posting)
}
