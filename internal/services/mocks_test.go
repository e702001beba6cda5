package services

import (
	"errors"
	"sync"

	"classroom-backend/internal/models"
	"classroom-backend/internal/storage"
)

// In-memory stands-ins for the storage interfaces. They copy on read and
// write like a real store would, so service-side mutations only stick once
// persisted.

type memStudents struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]models.Student
}

func newMemStudents() *memStudents {
	return &memStudents{byID: make(map[uint]models.Student)}
}

func (m *memStudents) Create(st *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	st.ID = m.nextID
	m.byID[st.ID] = *st
	return nil
}

func (m *memStudents) Update(st *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[st.ID]; !ok {
		return storage.ErrNotFound
	}
	m.byID[st.ID] = *st
	return nil
}

func (m *memStudents) Delete(id, instructorID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.byID[id]
	if !ok || st.InstructorID != instructorID {
		return storage.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memStudents) GetByID(id uint) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &st, nil
}

func (m *memStudents) GetByStudentID(instructorID uint, studentID string) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.byID {
		if st.InstructorID == instructorID && st.StudentID == studentID {
			st := st
			return &st, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStudents) ListByCourse(courseID uint) ([]models.Student, error) {
	return nil, nil
}

func (m *memStudents) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type enrollment struct {
	courseID  uint
	studentID uint
}

type memCourses struct {
	mu          sync.Mutex
	nextID      uint
	byID        map[uint]models.Course
	enrollments map[enrollment]bool
}

func newMemCourses() *memCourses {
	return &memCourses{
		byID:        make(map[uint]models.Course),
		enrollments: make(map[enrollment]bool),
	}
}

func (m *memCourses) Create(course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	course.ID = m.nextID
	m.byID[course.ID] = *course
	return nil
}

func (m *memCourses) Update(course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[course.ID]; !ok {
		return storage.ErrNotFound
	}
	m.byID[course.ID] = *course
	return nil
}

func (m *memCourses) Delete(id, instructorID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.byID[id]
	if !ok || course.InstructorID != instructorID {
		return storage.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memCourses) GetByID(id uint) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &course, nil
}

func (m *memCourses) GetOwned(id, instructorID uint) (*models.Course, error) {
	course, err := m.GetByID(id)
	if err != nil || course.InstructorID != instructorID {
		return nil, storage.ErrNotFound
	}
	return course, nil
}

func (m *memCourses) GetByJoinCode(joinCode string) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, course := range m.byID {
		if course.JoinCode == joinCode {
			course := course
			return &course, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memCourses) ListByInstructor(instructorID uint) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Course
	for _, course := range m.byID {
		if course.InstructorID == instructorID {
			out = append(out, course)
		}
	}
	return out, nil
}

func (m *memCourses) JoinCodeTaken(instructorID uint, joinCode string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, course := range m.byID {
		if course.InstructorID == instructorID && course.JoinCode == joinCode {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCourses) Enroll(courseID, studentID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments[enrollment{courseID, studentID}] = true
	return nil
}

func (m *memCourses) enrolled(courseID, studentID uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enrollments[enrollment{courseID, studentID}]
}

type memActivities struct {
	mu            sync.Mutex
	nextID        uint
	byID          map[uint]models.Activity
	failUpdateAll bool
}

func newMemActivities() *memActivities {
	return &memActivities{byID: make(map[uint]models.Activity)}
}

func (m *memActivities) Create(a *models.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	m.byID[a.ID] = *a
	return nil
}

func (m *memActivities) Update(a *models.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[a.ID]; !ok {
		return storage.ErrNotFound
	}
	m.byID[a.ID] = *a
	return nil
}

func (m *memActivities) UpdateAll(batch []*models.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdateAll {
		return errors.New("transaction failed")
	}
	for _, a := range batch {
		if _, ok := m.byID[a.ID]; !ok {
			return storage.ErrNotFound
		}
	}
	for _, a := range batch {
		m.byID[a.ID] = *a
	}
	return nil
}

func (m *memActivities) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memActivities) GetByID(id uint) (*models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (m *memActivities) GetActiveByCourse(courseID uint) (*models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.CourseID == courseID && a.IsActive {
			a := a
			return &a, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memActivities) ListByCourse(courseID uint) ([]models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Activity
	for _, a := range m.byID {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memActivities) ListActiveByCourse(courseID uint) ([]models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Activity
	for _, a := range m.byID {
		if a.CourseID == courseID && a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memActivities) activeCount(courseID uint) int {
	out, _ := m.ListActiveByCourse(courseID)
	return len(out)
}

type memSubmissions struct {
	mu   sync.Mutex
	next uint
	subs []models.Submission
}

func newMemSubmissions() *memSubmissions {
	return &memSubmissions{}
}

func (m *memSubmissions) Create(sub *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.subs {
		if existing.ActivityID == sub.ActivityID && existing.StudentID == sub.StudentID {
			return errors.New("duplicate key violates unique constraint")
		}
	}
	m.next++
	sub.ID = m.next
	m.subs = append(m.subs, *sub)
	return nil
}

func (m *memSubmissions) Exists(activityID, studentID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subs {
		if sub.ActivityID == activityID && sub.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSubmissions) ListByActivity(activityID uint) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Submission
	for _, sub := range m.subs {
		if sub.ActivityID == activityID {
			out = append(out, sub)
		}
	}
	return out, nil
}
