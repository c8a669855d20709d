// Package inmem implements the repository interfaces on top of process memory.
// Foreign keys, unique keys and cascading deletes are applied in code so the
// behaviour matches the PostgreSQL schema.
package inmem

import (
	"sync"
	"time"

	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories"
)

// Store holds every table behind a single lock
type Store struct {
	mu sync.RWMutex

	seq map[string]int64
	now func() time.Time

	users       map[int64]*models.User
	circles     map[int64]*models.Circle
	members     map[int64]*models.CircleMember
	resources   map[int64]*models.Resource
	tasks       map[int64]*models.Task
	completions map[int64]*models.TaskCompletion
	comments    map[int64]*models.Comment
	messages    map[int64]*models.Message
	points      map[int64]*models.PointsHistory
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		seq:         make(map[string]int64),
		now:         func() time.Time { return time.Now().UTC() },
		users:       make(map[int64]*models.User),
		circles:     make(map[int64]*models.Circle),
		members:     make(map[int64]*models.CircleMember),
		resources:   make(map[int64]*models.Resource),
		tasks:       make(map[int64]*models.Task),
		completions: make(map[int64]*models.TaskCompletion),
		comments:    make(map[int64]*models.Comment),
		messages:    make(map[int64]*models.Message),
		points:      make(map[int64]*models.PointsHistory),
	}
}

// SetClock replaces the time source, for tests that need deterministic timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// NewRepositories wires every in-memory repository over one store
func NewRepositories(s *Store) *repositories.Repositories {
	return &repositories.Repositories{
		UserRepository:       NewUserRepository(s),
		CircleRepository:     NewCircleRepository(s),
		MembershipRepository: NewMembershipRepository(s),
		ResourceRepository:   NewResourceRepository(s),
		TaskRepository:       NewTaskRepository(s),
		CommentRepository:    NewCommentRepository(s),
		MessageRepository:    NewMessageRepository(s),
		PointsRepository:     NewPointsRepository(s),
	}
}

// nextID must be called with the write lock held
func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) memberCount(circleID int64) int {
	n := 0
	for _, m := range s.members {
		if m.CircleID == circleID {
			n++
		}
	}
	return n
}

func (s *Store) usernameOf(userID int64) string {
	if u, ok := s.users[userID]; ok {
		return u.Username
	}
	return ""
}

// deleteCircle removes a circle and everything that cascades from it.
// Must be called with the write lock held.
func (s *Store) deleteCircle(circleID int64) {
	for id, r := range s.resources {
		if r.CircleID == circleID {
			s.deleteResource(id)
		}
	}
	for id, t := range s.tasks {
		if t.CircleID == circleID {
			s.deleteTask(id)
		}
	}
	for id, m := range s.members {
		if m.CircleID == circleID {
			delete(s.members, id)
		}
	}
	for id, m := range s.messages {
		if m.CircleID == circleID {
			delete(s.messages, id)
		}
	}
	delete(s.circles, circleID)
}

func (s *Store) deleteResource(resourceID int64) {
	for id, c := range s.comments {
		if c.ResourceID == resourceID {
			delete(s.comments, id)
		}
	}
	delete(s.resources, resourceID)
}

func (s *Store) deleteTask(taskID int64) {
	for id, c := range s.completions {
		if c.TaskID == taskID {
			delete(s.completions, id)
		}
	}
	delete(s.tasks, taskID)
}
