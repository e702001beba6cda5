package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"classroom-backend/internal/models"
)

type fakeConn struct {
	mu          sync.Mutex
	sent        [][]byte
	closeReason string
	closed      bool
	failSend    bool
}

func (c *fakeConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSend {
		return errors.New("send failed")
	}
	c.sent = append(c.sent, data)
	return nil
}

func (c *fakeConn) Close(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.closeReason = reason
	return nil
}

func (c *fakeConn) messages(t *testing.T) []Event {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	events := make([]Event, 0, len(c.sent))
	for _, data := range c.sent {
		var e Event
		require.NoError(t, json.Unmarshal(data, &e))
		events = append(events, e)
	}
	return events
}

func newTestSession() *Session {
	return newSession(1, &models.Course{ID: 1}, zap.NewNop())
}

func TestAddStudentIsIdempotent(t *testing.T) {
	s := newTestSession()
	s.AddStudent(JoinedStudent{DBID: 1, StudentID: "S1", Name: "Ann", Token: "t1"})
	s.AddStudent(JoinedStudent{DBID: 1, StudentID: "S1", Name: "Ann", Token: "t2"})

	assert.Equal(t, 1, s.RosterSize())
	assert.Equal(t, 0, s.OnlineCount())
}

func TestAttachReplacesPriorConn(t *testing.T) {
	s := newTestSession()
	s.AddStudent(JoinedStudent{DBID: 1, StudentID: "S1", Name: "Ann"})

	first := &fakeConn{}
	second := &fakeConn{}
	require.NoError(t, s.AttachStudentConn("S1", first))
	require.NoError(t, s.AttachStudentConn("S1", second))

	assert.True(t, first.closed)
	assert.Equal(t, ReasonReplaced, first.closeReason)
	assert.False(t, second.closed)
	assert.Equal(t, 1, s.OnlineCount())
}

func TestAttachUnknownStudentForcesRelogin(t *testing.T) {
	s := newTestSession()

	conn := &fakeConn{}
	err := s.AttachStudentConn("ghost", conn)

	assert.ErrorIs(t, err, ErrUnknownStudent)
	assert.True(t, conn.closed)
	assert.Equal(t, ReasonForceRelogin, conn.closeReason)
}

func TestDetachOnlyClearsCurrentConn(t *testing.T) {
	s := newTestSession()
	s.AddStudent(JoinedStudent{DBID: 1, StudentID: "S1"})

	first := &fakeConn{}
	second := &fakeConn{}
	require.NoError(t, s.AttachStudentConn("S1", first))
	require.NoError(t, s.AttachStudentConn("S1", second))

	// The stale conn's deferred detach must not kick out the reconnect.
	s.DetachStudentConn("S1", first)
	assert.Equal(t, 1, s.OnlineCount())

	s.DetachStudentConn("S1", second)
	assert.Equal(t, 0, s.OnlineCount())
	assert.Equal(t, 1, s.RosterSize())
}

func TestBroadcastReachesStudentsAndInstructor(t *testing.T) {
	s := newTestSession()
	s.AddStudent(JoinedStudent{DBID: 1, StudentID: "S1"})
	s.AddStudent(JoinedStudent{DBID: 2, StudentID: "S2"})

	c1 := &fakeConn{}
	c2 := &fakeConn{}
	instructor := &fakeConn{}
	require.NoError(t, s.AttachStudentConn("S1", c1))
	require.NoError(t, s.AttachStudentConn("S2", c2))
	s.AttachInstructorConn(instructor)

	s.Broadcast(Event{Type: EventActivityDeleted, Payload: DeletedPayload{ID: 9}})

	for _, c := range []*fakeConn{c1, c2, instructor} {
		events := c.messages(t)
		require.Len(t, events, 1)
		assert.Equal(t, EventActivityDeleted, events[0].Type)
	}
}

func TestBroadcastIsBestEffort(t *testing.T) {
	s := newTestSession()
	s.AddStudent(JoinedStudent{DBID: 1, StudentID: "S1"})
	s.AddStudent(JoinedStudent{DBID: 2, StudentID: "S2"})
	s.AddStudent(JoinedStudent{DBID: 3, StudentID: "S3"})

	ok1 := &fakeConn{}
	broken := &fakeConn{failSend: true}
	ok2 := &fakeConn{}
	require.NoError(t, s.AttachStudentConn("S1", ok1))
	require.NoError(t, s.AttachStudentConn("S2", broken))
	require.NoError(t, s.AttachStudentConn("S3", ok2))

	s.Broadcast(Event{Type: EventNewSubmission, Payload: SubmissionPayload{ActivityID: 1, StudentID: "S1", Type: "quiz"}})

	assert.Len(t, ok1.messages(t), 1)
	assert.Len(t, ok2.messages(t), 1)
	assert.Empty(t, broken.sent)
}

func TestBroadcastSkipsDisconnected(t *testing.T) {
	s := newTestSession()
	s.AddStudent(JoinedStudent{DBID: 1, StudentID: "S1"})
	s.AddStudent(JoinedStudent{DBID: 2, StudentID: "S2"})

	conn := &fakeConn{}
	require.NoError(t, s.AttachStudentConn("S1", conn))

	s.Broadcast(Event{Type: EventActivityCreated})

	assert.Len(t, conn.messages(t), 1)
	assert.Equal(t, 1, s.OnlineCount())
	assert.Equal(t, 2, s.RosterSize())
}

func TestInstructorReplaced(t *testing.T) {
	s := newTestSession()

	first := &fakeConn{}
	second := &fakeConn{}
	s.AttachInstructorConn(first)
	s.AttachInstructorConn(second)

	assert.True(t, first.closed)
	assert.Equal(t, ReasonReplaced, first.closeReason)

	s.DetachInstructorConn(first) // stale detach, ignored
	s.Broadcast(Event{Type: EventActivityCreated})
	assert.Len(t, second.messages(t), 1)
}

func TestSetCourseRefreshesSnapshot(t *testing.T) {
	s := newTestSession()
	updated := &models.Course{ID: 1, Name: "Systems Programming"}
	s.SetCourse(updated)
	assert.Same(t, updated, s.Course())
}
