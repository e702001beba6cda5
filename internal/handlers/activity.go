package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"classroom-backend/internal/models"
	"classroom-backend/internal/services"
	"classroom-backend/internal/storage"
)

type ActivityHandler struct {
	activityService *services.ActivityService
	courseService   *services.CourseService
}

func NewActivityHandler(activityService *services.ActivityService, courseService *services.CourseService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, courseService: courseService}
}

type ActivityRequest struct {
	Type        models.ActivityType      `json:"type" binding:"required,oneof=quiz poll discussion"`
	Title       string                   `json:"title" binding:"required,min=1,max=255"`
	Description string                   `json:"description"`
	ExpiresAt   *time.Time               `json:"expires_at"`
	Quiz        *models.QuizConfig       `json:"quiz"`
	Poll        *models.PollConfig       `json:"poll"`
	Discussion  *models.DiscussionConfig `json:"discussion"`
}

func (r ActivityRequest) toInput() services.ActivityInput {
	return services.ActivityInput{
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		ExpiresAt:   r.ExpiresAt,
		Quiz:        r.Quiz,
		Poll:        r.Poll,
		Discussion:  r.Discussion,
	}
}

// CreateActivity godoc
// @Summary      Create an activity in a course
// @Tags         activities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Course ID"
// @Param        request body ActivityRequest true "Activity"
// @Success      201 {object} models.Activity
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/courses/{id}/activities [post]
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	instructorID := c.GetUint("instructor_id")
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.courseService.GetOwned(courseID, instructorID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "course not found"})
		return
	}

	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	activity, err := h.activityService.Create(courseID, req.toInput())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// ListActivities godoc
// @Summary      List a course's activities
// @Tags         activities
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Course ID"
// @Success      200 {array} models.Activity
// @Router       /api/v1/courses/{id}/activities [get]
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	instructorID := c.GetUint("instructor_id")
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.courseService.GetOwned(courseID, instructorID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "course not found"})
		return
	}

	activities, err := h.activityService.ListByCourse(courseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, activities)
}

// GetActivity godoc
// @Summary      Get one activity
// @Tags         activities
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Activity ID"
// @Success      200 {object} models.Activity
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/activities/{id} [get]
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	activityID, ok := parseID(c, "id")
	if !ok {
		return
	}
	activity, err := h.getOwnedActivity(c, activityID)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, activity)
}

// UpdateActivity godoc
// @Summary      Update an activity's content
// @Tags         activities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Activity ID"
// @Param        request body ActivityRequest true "Activity"
// @Success      200 {object} models.Activity
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/activities/{id} [put]
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	activityID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.getOwnedActivity(c, activityID); err != nil {
		return
	}

	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	activity, err := h.activityService.Update(activityID, req.toInput())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, activity)
}

// DeleteActivity godoc
// @Summary      Delete an activity
// @Tags         activities
// @Security     BearerAuth
// @Param        id path int true "Activity ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/activities/{id} [delete]
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	activityID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.getOwnedActivity(c, activityID); err != nil {
		return
	}

	if err := h.activityService.Delete(activityID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete activity"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "activity deleted"})
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetActive godoc
// @Summary      Activate or deactivate an activity
// @Description  Activating auto-deactivates any other active activity in the course.
// @Tags         activities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Activity ID"
// @Param        request body SetActiveRequest true "Flag"
// @Success      200 {object} models.Activity
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/activities/{id}/active [post]
func (h *ActivityHandler) SetActive(c *gin.Context) {
	activityID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.getOwnedActivity(c, activityID); err != nil {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	activity, err := h.activityService.SetActive(activityID, *req.IsActive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update activity"})
		return
	}
	c.JSON(http.StatusOK, activity)
}

// ListSubmissions godoc
// @Summary      List an activity's submissions
// @Tags         activities
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Activity ID"
// @Success      200 {array} models.Submission
// @Router       /api/v1/activities/{id}/submissions [get]
func (h *ActivityHandler) ListSubmissions(c *gin.Context) {
	activityID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.getOwnedActivity(c, activityID); err != nil {
		return
	}

	submissions, err := h.activityService.ListSubmissions(activityID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, submissions)
}

// getOwnedActivity loads the activity and checks the course belongs to the
// authenticated instructor, writing the error response itself on failure.
func (h *ActivityHandler) getOwnedActivity(c *gin.Context, activityID uint) (*models.Activity, error) {
	instructorID := c.GetUint("instructor_id")
	activity, err := h.activityService.Get(activityID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "activity not found"})
		} else {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load activity"})
		}
		return nil, err
	}
	if _, err := h.courseService.GetOwned(activity.CourseID, instructorID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "activity not found"})
		return nil, err
	}
	return activity, nil
}
