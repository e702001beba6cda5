package storage

import (
	"errors"

	"gorm.io/gorm"

	"classroom-backend/internal/models"
)

func wrapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type Instructors struct {
	db *gorm.DB
}

func NewInstructors(db *gorm.DB) *Instructors { return &Instructors{db: db} }

func (s *Instructors) Create(ins *models.Instructor) error {
	return s.db.Create(ins).Error
}

func (s *Instructors) GetByID(id uint) (*models.Instructor, error) {
	var ins models.Instructor
	if err := s.db.First(&ins, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &ins, nil
}

func (s *Instructors) GetByUsername(username string) (*models.Instructor, error) {
	var ins models.Instructor
	if err := s.db.Where("username = ?", username).First(&ins).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &ins, nil
}

type Courses struct {
	db *gorm.DB
}

func NewCourses(db *gorm.DB) *Courses { return &Courses{db: db} }

func (s *Courses) Create(course *models.Course) error {
	return s.db.Create(course).Error
}

func (s *Courses) Update(course *models.Course) error {
	return s.db.Save(course).Error
}

func (s *Courses) Delete(id, instructorID uint) error {
	res := s.db.Where("id = ? AND instructor_id = ?", id, instructorID).Delete(&models.Course{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Courses) GetByID(id uint) (*models.Course, error) {
	var course models.Course
	if err := s.db.First(&course, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &course, nil
}

func (s *Courses) GetOwned(id, instructorID uint) (*models.Course, error) {
	var course models.Course
	if err := s.db.Where("id = ? AND instructor_id = ?", id, instructorID).First(&course).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &course, nil
}

func (s *Courses) GetByJoinCode(joinCode string) (*models.Course, error) {
	var course models.Course
	if err := s.db.Where("join_code = ?", joinCode).First(&course).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &course, nil
}

func (s *Courses) ListByInstructor(instructorID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *Courses) JoinCodeTaken(instructorID uint, joinCode string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Course{}).
		Where("instructor_id = ? AND join_code = ?", instructorID, joinCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Courses) Enroll(courseID, studentID uint) error {
	return s.db.Model(&models.Course{ID: courseID}).
		Association("Students").
		Append(&models.Student{ID: studentID})
}

type Students struct {
	db *gorm.DB
}

func NewStudents(db *gorm.DB) *Students { return &Students{db: db} }

func (s *Students) Create(st *models.Student) error {
	return s.db.Create(st).Error
}

func (s *Students) Update(st *models.Student) error {
	return s.db.Save(st).Error
}

func (s *Students) Delete(id, instructorID uint) error {
	res := s.db.Where("id = ? AND instructor_id = ?", id, instructorID).Delete(&models.Student{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Students) GetByID(id uint) (*models.Student, error) {
	var st models.Student
	if err := s.db.First(&st, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &st, nil
}

func (s *Students) GetByStudentID(instructorID uint, studentID string) (*models.Student, error) {
	var st models.Student
	if err := s.db.Where("instructor_id = ? AND student_id = ?", instructorID, studentID).
		First(&st).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &st, nil
}

func (s *Students) ListByCourse(courseID uint) ([]models.Student, error) {
	var students []models.Student
	if err := s.db.
		Joins("JOIN course_students ON course_students.student_id = students.id").
		Where("course_students.course_id = ?", courseID).
		Order("students.student_id ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

type Activities struct {
	db *gorm.DB
}

func NewActivities(db *gorm.DB) *Activities { return &Activities{db: db} }

func (s *Activities) Create(a *models.Activity) error {
	return s.db.Create(a).Error
}

func (s *Activities) Update(a *models.Activity) error {
	return s.db.Save(a).Error
}

func (s *Activities) UpdateAll(batch []*models.Activity) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, a := range batch {
			if err := tx.Save(a).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Activities) Delete(id uint) error {
	res := s.db.Delete(&models.Activity{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Activities) GetByID(id uint) (*models.Activity, error) {
	var a models.Activity
	if err := s.db.First(&a, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &a, nil
}

func (s *Activities) GetActiveByCourse(courseID uint) (*models.Activity, error) {
	var a models.Activity
	if err := s.db.Where("course_id = ? AND is_active = ?", courseID, true).
		First(&a).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &a, nil
}

func (s *Activities) ListByCourse(courseID uint) ([]models.Activity, error) {
	var activities []models.Activity
	if err := s.db.Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *Activities) ListActiveByCourse(courseID uint) ([]models.Activity, error) {
	var activities []models.Activity
	if err := s.db.Where("course_id = ? AND is_active = ?", courseID, true).
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

type Submissions struct {
	db *gorm.DB
}

func NewSubmissions(db *gorm.DB) *Submissions { return &Submissions{db: db} }

func (s *Submissions) Create(sub *models.Submission) error {
	return s.db.Create(sub).Error
}

func (s *Submissions) Exists(activityID, studentID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Submission{}).
		Where("activity_id = ? AND student_id = ?", activityID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Submissions) ListByActivity(activityID uint) ([]models.Submission, error) {
	var subs []models.Submission
	if err := s.db.Where("activity_id = ?", activityID).
		Order("created_at ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
