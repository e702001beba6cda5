package handlers

import (
	"sync"

	"classroom-backend/internal/models"
	"classroom-backend/internal/storage"
)

// Minimal in-memory stores for handler tests; only what the exercised
// paths touch does real work.

type stubCourses struct {
	course *models.Course
}

func (s *stubCourses) Create(*models.Course) error        { return nil }
func (s *stubCourses) Update(*models.Course) error        { return nil }
func (s *stubCourses) Delete(id, instructorID uint) error { return nil }

func (s *stubCourses) GetByID(id uint) (*models.Course, error) {
	if s.course != nil && s.course.ID == id {
		return s.course, nil
	}
	return nil, storage.ErrNotFound
}

func (s *stubCourses) GetOwned(id, instructorID uint) (*models.Course, error) {
	return s.GetByID(id)
}

func (s *stubCourses) GetByJoinCode(string) (*models.Course, error) {
	return nil, storage.ErrNotFound
}

func (s *stubCourses) ListByInstructor(uint) ([]models.Course, error) { return nil, nil }
func (s *stubCourses) JoinCodeTaken(uint, string) (bool, error)       { return false, nil }
func (s *stubCourses) Enroll(uint, uint) error                        { return nil }

type stubStudents struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]models.Student
}

func newStubStudents() *stubStudents {
	return &stubStudents{byID: make(map[uint]models.Student)}
}

func (s *stubStudents) Create(st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	st.ID = s.nextID
	s.byID[st.ID] = *st
	return nil
}

func (s *stubStudents) Update(st *models.Student) error { return nil }

func (s *stubStudents) Delete(id, instructorID uint) error { return nil }

func (s *stubStudents) GetByID(id uint) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &st, nil
}

func (s *stubStudents) GetByStudentID(instructorID uint, studentID string) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.byID {
		if st.InstructorID == instructorID && st.StudentID == studentID {
			st := st
			return &st, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *stubStudents) ListByCourse(uint) ([]models.Student, error) { return nil, nil }
