package realtime

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"classroom-backend/internal/models"
)

func TestGetOrCreateConcurrent(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	var loads int32
	loader := func(courseID uint) (*models.Course, error) {
		atomic.AddInt32(&loads, 1)
		return &models.Course{ID: courseID}, nil
	}

	const n = 50
	sessions := make([]*Session, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			s, err := registry.GetOrCreate(1, loader)
			require.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads), "loader must run exactly once")
	for i := 1; i < n; i++ {
		assert.Same(t, sessions[0], sessions[i], "all callers must share one session")
	}
}

func TestGetOrCreateLoaderFailure(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	boom := errors.New("db down")
	_, err := registry.GetOrCreate(1, func(uint) (*models.Course, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	// A failed create leaves no entry behind.
	_, ok := registry.Get(1)
	assert.False(t, ok)
}

func TestGetAbsent(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	_, ok := registry.Get(123)
	assert.False(t, ok)
}

func TestRegistryBroadcastWithoutSessionIsNoop(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	// Must not panic or create a session.
	registry.Broadcast(7, Event{Type: EventActivityCreated})
	_, ok := registry.Get(7)
	assert.False(t, ok)
}

func TestSlowCreateDoesNotBlockOtherCourses(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		registry.GetOrCreate(1, func(id uint) (*models.Course, error) {
			close(started)
			<-release
			return &models.Course{ID: id}, nil
		})
	}()
	<-started

	// With course 1 still loading, course 2 must be fully usable.
	done := make(chan struct{})
	go func() {
		defer close(done)
		s, err := registry.GetOrCreate(2, func(id uint) (*models.Course, error) {
			return &models.Course{ID: id}, nil
		})
		assert.NoError(t, err)
		assert.NotNil(t, s)
		_, ok := registry.Get(2)
		assert.True(t, ok)
		registry.Broadcast(2, Event{Type: EventActivityCreated})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unrelated course blocked behind an in-flight create")
	}

	close(release)
	assert.Eventually(t, func() bool {
		_, ok := registry.Get(1)
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestRegistryKeepsCoursesSeparate(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	loader := func(courseID uint) (*models.Course, error) {
		return &models.Course{ID: courseID}, nil
	}

	s1, err := registry.GetOrCreate(1, loader)
	require.NoError(t, err)
	s2, err := registry.GetOrCreate(2, loader)
	require.NoError(t, err)

	assert.NotSame(t, s1, s2)
	assert.Equal(t, uint(1), s1.CourseID())
	assert.Equal(t, uint(2), s2.CourseID())
}
