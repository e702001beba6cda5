package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classroom-backend/internal/models"
	"classroom-backend/internal/services"
)

type CourseHandler struct {
	courseService  *services.CourseService
	studentService *services.StudentService
}

func NewCourseHandler(courseService *services.CourseService, studentService *services.StudentService) *CourseHandler {
	return &CourseHandler{courseService: courseService, studentService: studentService}
}

type CourseRequest struct {
	Name              string                    `json:"name" binding:"required,min=1,max=255"`
	Code              string                    `json:"code" binding:"required,max=20"`
	AcademicYear      string                    `json:"academic_year" binding:"required,max=9"`
	Semester          int                       `json:"semester" binding:"required,min=1,max=3"`
	VerificationModes []models.VerificationMode `json:"verification_modes"`
}

// CreateCourse godoc
// @Summary      Create a course
// @Tags         courses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CourseRequest true "Course"
// @Success      201 {object} models.Course
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	instructorID := c.GetUint("instructor_id")
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	course, err := h.courseService.Create(instructorID, services.CourseInput{
		Name:              req.Name,
		Code:              req.Code,
		AcademicYear:      req.AcademicYear,
		Semester:          req.Semester,
		VerificationModes: req.VerificationModes,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, course)
}

// ListCourses godoc
// @Summary      List the instructor's courses
// @Tags         courses
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} models.Course
// @Router       /api/v1/courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	instructorID := c.GetUint("instructor_id")
	courses, err := h.courseService.List(instructorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary      Get one course
// @Tags         courses
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Course ID"
// @Success      200 {object} models.Course
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	instructorID := c.GetUint("instructor_id")
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	course, err := h.courseService.GetOwned(courseID, instructorID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

// UpdateCourse godoc
// @Summary      Update a course
// @Tags         courses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Course ID"
// @Param        request body CourseRequest true "Course"
// @Success      200 {object} models.Course
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	instructorID := c.GetUint("instructor_id")
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	course, err := h.courseService.Update(courseID, instructorID, services.CourseInput{
		Name:              req.Name,
		Code:              req.Code,
		AcademicYear:      req.AcademicYear,
		Semester:          req.Semester,
		VerificationModes: req.VerificationModes,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse godoc
// @Summary      Delete a course
// @Tags         courses
// @Security     BearerAuth
// @Param        id path int true "Course ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	instructorID := c.GetUint("instructor_id")
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.Delete(courseID, instructorID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "course not found"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "course deleted"})
}

type AddStudentRequest struct {
	StudentID string `json:"student_id" binding:"required,max=50"`
	Name      string `json:"name" binding:"required,max=100"`
	Email     string `json:"email" binding:"omitempty,email"`
	PIN       string `json:"pin" binding:"omitempty,max=20"`
}

// AddStudent godoc
// @Summary      Pre-provision a student on the course roster
// @Tags         courses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Course ID"
// @Param        request body AddStudentRequest true "Student"
// @Success      201 {object} models.Student
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/courses/{id}/students [post]
func (h *CourseHandler) AddStudent(c *gin.Context) {
	instructorID := c.GetUint("instructor_id")
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.courseService.GetOwned(courseID, instructorID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "course not found"})
		return
	}

	var req AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	student, err := h.studentService.Add(instructorID, courseID, services.StudentInput{
		StudentID: req.StudentID,
		Name:      req.Name,
		Email:     req.Email,
		PIN:       req.PIN,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, student)
}

// ListStudents godoc
// @Summary      List the course roster
// @Tags         courses
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Course ID"
// @Success      200 {array} models.Student
// @Router       /api/v1/courses/{id}/students [get]
func (h *CourseHandler) ListStudents(c *gin.Context) {
	instructorID := c.GetUint("instructor_id")
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.courseService.GetOwned(courseID, instructorID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "course not found"})
		return
	}

	students, err := h.studentService.ListByCourse(courseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, students)
}

type UpdateStudentRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
	PIN   string `json:"pin" binding:"omitempty,max=20"`
}

// UpdateStudent godoc
// @Summary      Update a roster student
// @Tags         students
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Student DB ID"
// @Param        request body UpdateStudentRequest true "Student"
// @Success      200 {object} models.Student
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/students/{id} [put]
func (h *CourseHandler) UpdateStudent(c *gin.Context) {
	instructorID := c.GetUint("instructor_id")
	studentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	student, err := h.studentService.Update(studentID, instructorID, services.StudentInput{
		Name:  req.Name,
		Email: req.Email,
		PIN:   req.PIN,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "student not found"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// DeleteStudent godoc
// @Summary      Remove a roster student
// @Tags         students
// @Security     BearerAuth
// @Param        id path int true "Student DB ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/students/{id} [delete]
func (h *CourseHandler) DeleteStudent(c *gin.Context) {
	instructorID := c.GetUint("instructor_id")
	studentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.studentService.Delete(studentID, instructorID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "student not found"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "student removed"})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
