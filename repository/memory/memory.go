// Package memory provides in-process implementations of the repository
// interfaces. They follow the same semantics as the Postgres and Redis
// repositories and back the use case and handler tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/repository"
)

// Store holds every entity behind a single mutex.
type Store struct {
	mu         sync.Mutex
	users      map[string]domain.User
	tasks      map[string]domain.Task
	activities map[string]domain.ActivityEntry
	sessions   map[string]domain.Session
	states     map[string]struct{}
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]domain.User),
		tasks:      make(map[string]domain.Task),
		activities: make(map[string]domain.ActivityEntry),
		sessions:   make(map[string]domain.Session),
		states:     make(map[string]struct{}),
	}
}

func (s *Store) Users() repository.UserRepository { return userRepository{s} }
func (s *Store) Tasks() repository.TaskRepository { return taskRepository{s} }
func (s *Store) Activities() repository.ActivityRepository { return activityRepository{s} }
func (s *Store) Sessions() repository.SessionRepository { return sessionRepository{s} }
func (s *Store) States() repository.StateRepository { return stateRepository{s} }

type userRepository struct{ s *Store }

func (r userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r userRepository) GetByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.GoogleID == googleID {
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r userRepository) UpsertByGoogleID(_ context.Context, user *domain.User) error {
	if user == nil || user.GoogleID == "" {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	for id, existing := range r.s.users {
		if existing.GoogleID == user.GoogleID {
			existing.Name = user.Name
			existing.Email = user.Email
			existing.AvatarURL = user.AvatarURL
			existing.UpdatedAt = now
			r.s.users[id] = existing
			*user = existing
			return nil
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

type taskRepository struct{ s *Store }

func (r taskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (r taskRepository) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var tasks []domain.Task
	for _, task := range r.s.tasks {
		if filter.UserID == "" || task.UserID == filter.UserID {
			tasks = append(tasks, *cloneTask(task))
		}
	}
	slices.SortFunc(tasks, func(a, b domain.Task) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(tasks) {
			return nil, nil
		}
		tasks = tasks[filter.Offset:]
	}
	limit := filter.Limit
	if limit <= 0 || limit > repository.MaxPageSize {
		limit = repository.MaxPageSize
	}
	if limit < len(tasks) {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func (r taskRepository) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if _, exists := r.s.tasks[task.ID]; exists {
		return nil, domain.NewError(domain.ErrCodeConflict, "task already exists")
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.s.tasks[task.ID] = *cloneTask(*task)
	return task, nil
}

func (r taskRepository) UpdateIntensityLevels(_ context.Context, taskID, userID string, levels []domain.IntensityLevel) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task, ok := r.s.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	task.IntensityLevels = slices.Clone(levels)
	task.UpdatedAt = time.Now()
	r.s.tasks[taskID] = task
	return cloneTask(task), nil
}

func (r taskRepository) Delete(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task, ok := r.s.tasks[id]
	if !ok || task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	for key, entry := range r.s.activities {
		if entry.TaskID == id {
			delete(r.s.activities, key)
		}
	}
	return nil
}

func cloneTask(task domain.Task) *domain.Task {
	task.IntensityLevels = slices.Clone(task.IntensityLevels)
	if task.IntensityLevels == nil {
		task.IntensityLevels = []domain.IntensityLevel{}
	}
	return &task
}

type activityRepository struct{ s *Store }

func (r activityRepository) Increment(_ context.Context, entry *domain.ActivityEntry) (*domain.ActivityEntry, error) {
	if entry == nil || entry.TaskID == "" || entry.Date == "" {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := entry.TaskID + "|" + entry.Date
	now := time.Now()
	stored, ok := r.s.activities[key]
	if !ok {
		stored = domain.ActivityEntry{
			ID:        uuid.NewString(),
			TaskID:    entry.TaskID,
			UserID:    entry.UserID,
			Date:      entry.Date,
			CreatedAt: now,
		}
	}
	stored.Count = max(stored.Count+entry.Count, 0)
	if entry.Metadata != nil {
		stored.Metadata = entry.Metadata
	}
	stored.UpdatedAt = now
	r.s.activities[key] = stored

	out := stored
	return &out, nil
}

func (r activityRepository) List(_ context.Context, filter repository.ActivityFilter) ([]domain.ActivityEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var entries []domain.ActivityEntry
	for _, entry := range r.s.activities {
		switch {
		case filter.TaskID != "" && entry.TaskID != filter.TaskID:
		case filter.UserID != "" && entry.UserID != filter.UserID:
		case filter.From != "" && entry.Date < filter.From:
		case filter.To != "" && entry.Date > filter.To:
		default:
			entries = append(entries, entry)
		}
	}
	slices.SortFunc(entries, func(a, b domain.ActivityEntry) int {
		if c := strings.Compare(a.TaskID, b.TaskID); c != 0 {
			return c
		}
		return strings.Compare(a.Date, b.Date)
	})
	return entries, nil
}

type sessionRepository struct{ s *Store }

func (r sessionRepository) Get(_ context.Context, id string) (*domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok || session.IsExpired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r sessionRepository) Save(_ context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.s.sessions[session.ID] = *session
	return nil
}

func (r sessionRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

type stateRepository struct{ s *Store }

func (r stateRepository) Save(_ context.Context, state string) error {
	if state == "" {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.states[state] = struct{}{}
	return nil
}

func (r stateRepository) Consume(_ context.Context, state string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.states[state]; !ok {
		return domain.ErrStateNotFound
	}
	delete(r.s.states, state)
	return nil
}
