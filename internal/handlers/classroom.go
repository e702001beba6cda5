package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classroom-backend/internal/models"
	"classroom-backend/internal/realtime"
	"classroom-backend/internal/services"
	"classroom-backend/internal/storage"
)

// ClassroomHandler serves the student-facing surface: joining a course,
// the pre-join summary, the polling status endpoint and submissions.
type ClassroomHandler struct {
	courseService    *services.CourseService
	admissionService *services.AdmissionService
	activityService  *services.ActivityService
	registry         *realtime.Registry
	log              *zap.Logger
}

func NewClassroomHandler(
	courseService *services.CourseService,
	admissionService *services.AdmissionService,
	activityService *services.ActivityService,
	registry *realtime.Registry,
	log *zap.Logger,
) *ClassroomHandler {
	return &ClassroomHandler{
		courseService:    courseService,
		admissionService: admissionService,
		activityService:  activityService,
		registry:         registry,
		log:              log,
	}
}

type JoinRequest struct {
	CourseID  uint   `json:"course_id" binding:"required"`
	StudentID string `json:"student_id" binding:"required,max=50"`
	Name      string `json:"student_name" binding:"omitempty,max=100"`
	Email     string `json:"email" binding:"omitempty,max=255"`
	PIN       string `json:"pin" binding:"omitempty,max=20"`
}

type JoinResponse struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Token       string `json:"token"`
}

// Join godoc
// @Summary      Join a course session
// @Description  Validates the request against the course's verification policy and returns a session token.
// @Tags         classroom
// @Accept       json
// @Produce      json
// @Param        request body JoinRequest true "Join request"
// @Success      200 {object} JoinResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/join [post]
func (h *ClassroomHandler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	// The live session caches the course row; only the first join of a
	// course pays the store round-trip.
	var course *models.Course
	if sess, ok := h.registry.Get(req.CourseID); ok {
		course = sess.Course()
	} else {
		var err error
		course, err = h.courseService.Get(req.CourseID)
		if err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "course not found"})
			return
		}
	}

	joined, err := h.admissionService.Admit(course, services.JoinRequest{
		StudentID: req.StudentID,
		Name:      req.Name,
		Email:     req.Email,
		PIN:       req.PIN,
	})
	if err != nil {
		if errors.Is(err, services.ErrJoinUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "join failed"})
		return
	}

	sess, err := h.registry.GetOrCreate(course.ID, func(uint) (*models.Course, error) {
		return course, nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "join failed"})
		return
	}
	sess.AddStudent(realtime.JoinedStudent{
		DBID:      joined.DBID,
		StudentID: joined.StudentID,
		Name:      joined.Name,
		Token:     joined.Token,
	})

	c.JSON(http.StatusOK, JoinResponse{
		StudentID:   joined.StudentID,
		StudentName: joined.Name,
		Token:       joined.Token,
	})
}

type JoinInfoResponse struct {
	CourseID       uint                    `json:"course_id"`
	Name           string                  `json:"name"`
	RequiredFields models.VerificationMode `json:"required_fields"`
}

// JoinInfo godoc
// @Summary      Course summary for the pre-join screen
// @Tags         classroom
// @Produce      json
// @Param        joinCode path string true "6-digit join code"
// @Success      200 {object} JoinInfoResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/join-info/{joinCode} [get]
func (h *ClassroomHandler) JoinInfo(c *gin.Context) {
	course, err := h.courseService.GetByJoinCode(c.Param("joinCode"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "course not found"})
		return
	}

	c.JSON(http.StatusOK, JoinInfoResponse{
		CourseID:       course.ID,
		Name:           course.Name,
		RequiredFields: course.RequiredJoinFields(),
	})
}

// ClassroomStatus godoc
// @Summary      Poll the live classroom state
// @Description  Reconciliation endpoint for clients that missed a broadcast.
// @Tags         classroom
// @Produce      json
// @Param        courseId path int true "Course ID"
// @Success      200 {object} services.ClassroomStatus
// @Router       /api/v1/classroom-status/{courseId} [get]
func (h *ClassroomHandler) ClassroomStatus(c *gin.Context) {
	courseID, ok := parseID(c, "courseId")
	if !ok {
		return
	}

	status, err := h.activityService.ClassroomStatus(courseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

type SubmitRequest struct {
	ActivityID     uint   `json:"activity_id" binding:"required"`
	QuizAnswers    []int  `json:"quiz_answers"`
	PollSelected   []int  `json:"poll_selected"`
	DiscussionText string `json:"discussion_text"`
}

// Submit godoc
// @Summary      Submit a response to the active activity
// @Tags         classroom
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body SubmitRequest true "Submission"
// @Success      201 {object} models.Submission
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/submissions [post]
func (h *ClassroomHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	courseID := c.GetUint("course_id")
	studentDBID := c.GetUint("student_db_id")
	studentID := c.GetString("student_id")

	sub, err := h.activityService.Submit(courseID, req.ActivityID, studentDBID, studentID, services.SubmissionInput{
		QuizAnswers:    req.QuizAnswers,
		PollSelected:   req.PollSelected,
		DiscussionText: req.DiscussionText,
	})
	switch {
	case errors.Is(err, services.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrActivityNotActive), errors.Is(err, services.ErrInvalidSubmission):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "activity not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "submission failed"})
	default:
		c.JSON(http.StatusCreated, sub)
	}
}
