package services

import (
	"classroom-backend/internal/models"
	"classroom-backend/internal/storage"
)

// StudentService covers instructor-side roster management: pre-provisioning
// students before class so a verification policy has records to match
// against.
type StudentService struct {
	students storage.StudentStore
	courses  storage.CourseStore
}

func NewStudentService(students storage.StudentStore, courses storage.CourseStore) *StudentService {
	return &StudentService{students: students, courses: courses}
}

type StudentInput struct {
	StudentID string
	Name      string
	Email     string
	PIN       string
}

// Add creates (or reuses) the student record under this instructor and
// enrolls it in the course.
func (s *StudentService) Add(instructorID, courseID uint, in StudentInput) (*models.Student, error) {
	st, err := s.students.GetByStudentID(instructorID, in.StudentID)
	if err != nil {
		st = &models.Student{
			InstructorID: instructorID,
			StudentID:    in.StudentID,
			Name:         in.Name,
			Email:        in.Email,
			PIN:          in.PIN,
		}
		if err := s.students.Create(st); err != nil {
			return nil, err
		}
	}
	if err := s.courses.Enroll(courseID, st.ID); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StudentService) Update(id, instructorID uint, in StudentInput) (*models.Student, error) {
	st, err := s.students.GetByID(id)
	if err != nil {
		return nil, err
	}
	if st.InstructorID != instructorID {
		return nil, storage.ErrNotFound
	}

	st.Name = in.Name
	st.Email = in.Email
	if in.PIN != "" {
		st.PIN = in.PIN
	}
	if err := s.students.Update(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StudentService) Delete(id, instructorID uint) error {
	return s.students.Delete(id, instructorID)
}

func (s *StudentService) ListByCourse(courseID uint) ([]models.Student, error) {
	return s.students.ListByCourse(courseID)
}
