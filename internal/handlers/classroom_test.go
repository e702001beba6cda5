package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"classroom-backend/internal/models"
	"classroom-backend/internal/realtime"
	"classroom-backend/internal/services"
	"classroom-backend/internal/token"
)

type joinFixture struct {
	handler  *ClassroomHandler
	registry *realtime.Registry
	codec    *token.Codec
}

func newJoinFixture(courses *stubCourses) *joinFixture {
	gin.SetMode(gin.TestMode)
	registry := realtime.NewRegistry(zap.NewNop())
	codec := token.NewCodec("test-secret")
	students := newStubStudents()

	courseService := services.NewCourseService(courses, registry)
	admission := services.NewAdmissionService(students, courses, codec, zap.NewNop())
	handler := NewClassroomHandler(courseService, admission, nil, registry, zap.NewNop())
	return &joinFixture{handler: handler, registry: registry, codec: codec}
}

func postJoin(t *testing.T, f *joinFixture, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/join", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	f.handler.Join(c)
	return w
}

func TestJoinUsesLiveSessionSnapshot(t *testing.T) {
	// The store has no course row at all; only the live session carries the
	// snapshot. The join must succeed from it without a store lookup.
	f := newJoinFixture(&stubCourses{})
	_, err := f.registry.GetOrCreate(1, func(id uint) (*models.Course, error) {
		return &models.Course{
			ID:                id,
			InstructorID:      10,
			VerificationModes: []models.VerificationMode{models.VerifyDisabled},
		}, nil
	})
	require.NoError(t, err)

	w := postJoin(t, f, `{"course_id":1,"student_id":"S1","student_name":"Ann"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp JoinResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "S1", resp.StudentID)
	assert.Equal(t, "Ann", resp.StudentName)

	claims, err := f.codec.Decode(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.CourseID)

	sess, ok := f.registry.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, sess.RosterSize())
}

func TestJoinFallsBackToStore(t *testing.T) {
	courses := &stubCourses{course: &models.Course{
		ID:                1,
		InstructorID:      10,
		VerificationModes: []models.VerificationMode{models.VerifyDisabled},
	}}
	f := newJoinFixture(courses)

	w := postJoin(t, f, `{"course_id":1,"student_id":"S2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// First join creates the session with the loaded course.
	sess, ok := f.registry.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint(1), sess.Course().ID)
}

func TestJoinUnknownCourse(t *testing.T) {
	f := newJoinFixture(&stubCourses{})
	w := postJoin(t, f, `{"course_id":5,"student_id":"S1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
