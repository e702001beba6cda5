package services

import (
	"fmt"
	"math/rand"

	"classroom-backend/internal/models"
	"classroom-backend/internal/realtime"
	"classroom-backend/internal/storage"
)

type CourseService struct {
	courses  storage.CourseStore
	registry *realtime.Registry
}

func NewCourseService(courses storage.CourseStore, registry *realtime.Registry) *CourseService {
	return &CourseService{courses: courses, registry: registry}
}

type CourseInput struct {
	Name              string
	Code              string
	AcademicYear      string
	Semester          int
	VerificationModes []models.VerificationMode
}

func (s *CourseService) Create(instructorID uint, in CourseInput) (*models.Course, error) {
	joinCode, err := s.generateJoinCode(instructorID)
	if err != nil {
		return nil, err
	}

	modes := in.VerificationModes
	if len(modes) == 0 {
		modes = []models.VerificationMode{models.VerifyDisabled}
	}

	course := models.Course{
		InstructorID:      instructorID,
		Name:              in.Name,
		Code:              in.Code,
		AcademicYear:      in.AcademicYear,
		Semester:          in.Semester,
		JoinCode:          joinCode,
		VerificationModes: modes,
	}
	if err := s.courses.Create(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) Get(id uint) (*models.Course, error) {
	return s.courses.GetByID(id)
}

func (s *CourseService) GetOwned(id, instructorID uint) (*models.Course, error) {
	return s.courses.GetOwned(id, instructorID)
}

func (s *CourseService) GetByJoinCode(joinCode string) (*models.Course, error) {
	return s.courses.GetByJoinCode(joinCode)
}

func (s *CourseService) List(instructorID uint) ([]models.Course, error) {
	return s.courses.ListByInstructor(instructorID)
}

// Update persists the change and refreshes the live session's cached
// snapshot so admission decisions pick up the new policy without a
// DB round-trip per join.
func (s *CourseService) Update(id, instructorID uint, in CourseInput) (*models.Course, error) {
	course, err := s.courses.GetOwned(id, instructorID)
	if err != nil {
		return nil, err
	}

	course.Name = in.Name
	course.Code = in.Code
	course.AcademicYear = in.AcademicYear
	course.Semester = in.Semester
	if len(in.VerificationModes) > 0 {
		course.VerificationModes = in.VerificationModes
	}

	if err := s.courses.Update(course); err != nil {
		return nil, err
	}
	if sess, ok := s.registry.Get(course.ID); ok {
		sess.SetCourse(course)
	}
	return course, nil
}

func (s *CourseService) Delete(id, instructorID uint) error {
	return s.courses.Delete(id, instructorID)
}

// generateJoinCode draws 6-digit codes until one is free for this
// instructor, mirroring how room codes were issued.
func (s *CourseService) generateJoinCode(instructorID uint) (string, error) {
	for {
		code := fmt.Sprintf("%06d", rand.Intn(1000000))
		taken, err := s.courses.JoinCodeTaken(instructorID, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}
