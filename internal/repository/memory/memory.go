// Package memory implements the service store interfaces in memory.
// Used by tests in place of PostgreSQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store хранит все сущности; Users(), Categories() и т.д. дают доступ к ним
// через интерфейсы сервисного слоя.
type Store struct {
	mu         sync.Mutex
	nextID     int64
	users      map[int64]*model.User
	categories map[int64]*model.Category
	events     map[int64]*model.Event
	templates  map[int64]*model.Template
	sessions   map[uuid.UUID]*model.Session
}

func New() *Store {
	return &Store{
		users:      map[int64]*model.User{},
		categories: map[int64]*model.Category{},
		events:     map[int64]*model.Event{},
		templates:  map[int64]*model.Template{},
		sessions:   map[uuid.UUID]*model.Session{},
	}
}

func (m *Store) id() int64 {
	m.nextID++
	return m.nextID
}

type txKey struct{}

// Tx выполняет fn атомарно: при ошибке состояние хранилища откатывается
// к снимку, сделанному перед fn. Вложенные вызовы используют внешнюю транзакцию.
type Tx struct{ *Store }

func (t Tx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	snap := t.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	nextID     int64
	users      map[int64]*model.User
	categories map[int64]*model.Category
	events     map[int64]*model.Event
	templates  map[int64]*model.Template
	sessions   map[uuid.UUID]*model.Session
}

func cloneMap[K comparable, V any](m map[K]*V) map[K]*V {
	out := make(map[K]*V, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

func (m *Store) snapshot() snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot{
		nextID:     m.nextID,
		users:      cloneMap(m.users),
		categories: cloneMap(m.categories),
		events:     cloneMap(m.events),
		templates:  cloneMap(m.templates),
		sessions:   cloneMap(m.sessions),
	}
}

func (m *Store) restore(s snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID = s.nextID
	m.users = s.users
	m.categories = s.categories
	m.events = s.events
	m.templates = s.templates
	m.sessions = s.sessions
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type Users struct{ *Store }

func (s Users) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return uniqueViolation(repository.ConstraintUsername)
		}
		if user.TelegramID != nil && u.TelegramID != nil && *u.TelegramID == *user.TelegramID {
			return uniqueViolation(repository.ConstraintTelegramID)
		}
	}
	user.ID = s.id()
	user.CreatedAt = time.Now()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s Users) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s Users) find(match func(*model.User) bool) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (s Users) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return s.find(func(u *model.User) bool { return u.Username == username }), nil
}

func (s Users) GetByTelegramID(_ context.Context, telegramID string) (*model.User, error) {
	return s.find(func(u *model.User) bool { return u.TelegramID != nil && *u.TelegramID == telegramID }), nil
}

func (s Users) GetByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	return s.find(func(u *model.User) bool {
		return u.Username == identifier || (u.TelegramID != nil && *u.TelegramID == identifier)
	}), nil
}

// Delete удаляет пользователя и всё, что ему принадлежит (как ON DELETE CASCADE)
func (s Users) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	for cid, c := range s.categories {
		if c.UserID == id {
			delete(s.categories, cid)
		}
	}
	for eid, e := range s.events {
		if e.UserID == id {
			delete(s.events, eid)
		}
	}
	for tid, t := range s.templates {
		if t.UserID == id {
			delete(s.templates, tid)
		}
	}
	for sid, sess := range s.sessions {
		if sess.UserID == id {
			delete(s.sessions, sid)
		}
	}
	return true, nil
}

type Categories struct{ *Store }

func (s Categories) Create(_ context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.UserID == category.UserID && c.Name == category.Name {
			return uniqueViolation(repository.ConstraintCategoryName)
		}
	}
	category.ID = s.id()
	category.CreatedAt = time.Now()
	cp := *category
	s.categories[category.ID] = &cp
	return nil
}

func (s Categories) GetByID(_ context.Context, userID, id int64) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.categories[id]; ok && c.UserID == userID {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (s Categories) GetByName(_ context.Context, userID int64, name string) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.UserID == userID && c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s Categories) FindByCode(_ context.Context, userID int64, code string) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var partial *model.Category
	for _, c := range s.categories {
		if c.UserID != userID {
			continue
		}
		if strings.EqualFold(c.Name, code) {
			cp := *c
			return &cp, nil
		}
		if partial == nil && strings.Contains(strings.ToLower(c.Name), strings.ToLower(code)) {
			cp := *c
			partial = &cp
		}
	}
	return partial, nil
}

func (s Categories) ListByUser(_ context.Context, userID int64) ([]*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Category
	for _, c := range s.categories {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s Categories) CountByUser(ctx context.Context, userID int64) (int, error) {
	list, _ := s.ListByUser(ctx, userID)
	return len(list), nil
}

func (s Categories) Delete(_ context.Context, userID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(s.categories, id)
	for _, e := range s.events {
		if e.CategoryID != nil && *e.CategoryID == id {
			e.CategoryID = nil
		}
	}
	return true, nil
}

type Events struct{ *Store }

func (s Events) Create(_ context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.id()
	event.CreatedAt = time.Now()
	cp := *event
	s.events[event.ID] = &cp
	return nil
}

func (s Events) GetByID(_ context.Context, userID, id int64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[id]; ok && e.UserID == userID {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (s Events) Update(_ context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	s.events[event.ID] = &cp
	return nil
}

func (s Events) Delete(_ context.Context, userID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok || e.UserID != userID {
		return false, nil
	}
	delete(s.events, id)
	return true, nil
}

func (s Events) filter(match func(*model.Event) bool) []*model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Event
	for _, e := range s.events {
		if match(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (s Events) List(_ context.Context, userID int64, f model.EventFilter) ([]*model.Event, error) {
	return s.filter(func(e *model.Event) bool {
		if e.UserID != userID {
			return false
		}
		if f.From != nil && e.StartTime.Before(*f.From) {
			return false
		}
		if f.To != nil && e.EndTime.After(*f.To) {
			return false
		}
		if f.CategoryID != nil && (e.CategoryID == nil || *e.CategoryID != *f.CategoryID) {
			return false
		}
		return true
	}), nil
}

func (s Events) ListStartingBetween(_ context.Context, userID int64, from, to time.Time) ([]*model.Event, error) {
	return s.filter(func(e *model.Event) bool {
		return e.UserID == userID && !e.StartTime.Before(from) && e.StartTime.Before(to)
	}), nil
}

func (s Events) FindOverlap(_ context.Context, userID int64, eventType model.EventType, start, end time.Time, excludeID int64) (*model.Event, error) {
	found := s.filter(func(e *model.Event) bool {
		return e.UserID == userID && e.Type == eventType && e.ID != excludeID && e.Overlaps(start, end)
	})
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (s Events) CountByCategory(_ context.Context, userID, categoryID int64) (int, error) {
	return len(s.filter(func(e *model.Event) bool {
		return e.UserID == userID && e.CategoryID != nil && *e.CategoryID == categoryID
	})), nil
}

func (s Events) Counts(_ context.Context, userID int64, dayStart, dayEnd time.Time) (model.EventCounts, error) {
	var c model.EventCounts
	for _, e := range s.filter(func(e *model.Event) bool { return e.UserID == userID }) {
		c.Total++
		switch e.Type {
		case model.EventTypePlan:
			c.Plan++
		case model.EventTypeFact:
			c.Fact++
		}
		if !e.StartTime.Before(dayStart) && e.StartTime.Before(dayEnd) {
			c.Today++
		}
	}
	return c, nil
}

type Templates struct{ *Store }

func (s Templates) Create(_ context.Context, template *model.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	template.ID = s.id()
	template.CreatedAt = time.Now()
	cp := *template
	s.templates[template.ID] = &cp
	return nil
}

func (s Templates) ListByUser(_ context.Context, userID int64) ([]*model.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Template
	for _, t := range s.templates {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s Templates) Delete(_ context.Context, userID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(s.templates, id)
	return true, nil
}

type Sessions struct{ *Store }

func (s Sessions) Create(_ context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

func (s Sessions) GetByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		cp := *sess
		return &cp, nil
	}
	return nil, nil
}

func (s Sessions) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s Sessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sess := range s.sessions {
		if sess.IsExpired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) Tx() Tx                 { return Tx{s} }
func (s *Store) Users() Users           { return Users{s} }
func (s *Store) Categories() Categories { return Categories{s} }
func (s *Store) Events() Events         { return Events{s} }
func (s *Store) Templates() Templates   { return Templates{s} }
func (s *Store) Sessions() Sessions     { return Sessions{s} }

// Totals возвращает количество сохранённых записей по таблицам
func (s *Store) Totals() (users, categories, events, templates, sessions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), len(s.categories), len(s.events), len(s.templates), len(s.sessions)
}
