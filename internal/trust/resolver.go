package trust

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"jobtrust-backend/internal/model"
)

// CanonicalJobURL normalizes a job URL for shadow-posting deduplication:
// scheme and host are lowercased and a single trailing slash is stripped
// from the path. Query string and fragment are kept untouched, since on ATS
// domains the query often is the posting identity. Unparseable input falls
// back to plain whitespace trimming.
func CanonicalJobURL(raw string) string {
	trimmed := strings.TrimSpace(raw)

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return trimmed
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}

// resolvePosting maps a feedback submission to a concrete job posting ID.
// Priority: explicit posting ID, then the application's back-link, then an
// exact canonical-URL lookup, then materializing a shadow posting from the
// application. A submission that identifies nothing fails validation.
func (e *Engine) resolvePosting(user model.User, in SubmitInput) (uint, error) {
	if in.JobPostingID != nil {
		var posting model.JobPosting
		if err := e.DB.First(&posting, *in.JobPostingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, fmt.Errorf("%w: job posting %d", ErrNotFound, *in.JobPostingID)
			}
			return 0, err
		}
		return posting.ID, nil
	}

	if in.JobApplicationID == nil {
		return 0, fmt.Errorf("%w: either job_posting_id or job_application_id is required", ErrValidation)
	}

	var app model.JobApplication
	if err := e.DB.First(&app, *in.JobApplicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: job application %d", ErrNotFound, *in.JobApplicationID)
		}
		return 0, err
	}

	if app.JobPostingID != nil {
		return *app.JobPostingID, nil
	}

	if app.JobURL == nil || strings.TrimSpace(*app.JobURL) == "" {
		return 0, fmt.Errorf("%w: application %d has no linked posting or URL", ErrValidation, app.ID)
	}

	canonical := CanonicalJobURL(*app.JobURL)

	// Exact-match lookup before creating anything, so a second submission
	// for the same external URL lands on the same shadow posting.
	var existing model.JobPosting
	err := e.DB.Where("url = ?", canonical).First(&existing).Error
	switch {
	case err == nil:
		return existing.ID, e.backlinkApplication(&app, existing.ID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Fall through to shadow creation.
	default:
		return 0, err
	}

	return e.createShadowPosting(user, &app, canonical)
}

// createShadowPosting materializes a posting from a tracked application.
// The submitter already demonstrated a tracked interaction with the job, so
// the shadow posting is auto-approved and owned by them.
func (e *Engine) createShadowPosting(user model.User, app *model.JobApplication, canonical string) (uint, error) {
	shadow := model.JobPosting{
		EditableJobPostingInfo: model.EditableJobPostingInfo{
			Title:    app.JobTitle,
			Company:  app.CompanyName,
			Location: app.JobLocation,
			URL:      canonical,
		},
		Source:            model.SourceUser,
		Status:            model.StatusApproved,
		AuthenticityScore: model.NeutralScore,
		TrustBadges:       []string{},
		OwnerUserID:       &user.ID,
	}

	if err := e.DB.Create(&shadow).Error; err != nil {
		// Two first submissions for the same URL can both miss the lookup;
		// the partial unique index on url makes the loser land here, so
		// re-read and converge on the winner's posting.
		if isUniqueViolation(err) {
			var existing model.JobPosting
			if lookupErr := e.DB.Where("url = ?", canonical).First(&existing).Error; lookupErr == nil {
				return existing.ID, e.backlinkApplication(app, existing.ID)
			}
		}
		return 0, err
	}

	return shadow.ID, e.backlinkApplication(app, shadow.ID)
}

func (e *Engine) backlinkApplication(app *model.JobApplication, postingID uint) error {
	if app.JobPostingID != nil && *app.JobPostingID == postingID {
		return nil
	}
	return e.DB.Model(app).Update("job_posting_id", postingID).Error
}
