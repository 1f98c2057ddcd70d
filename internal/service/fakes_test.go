package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/classmark/gradebook/internal/gradebook"
	"github.com/classmark/gradebook/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var nopLog = zerolog.New(io.Discard)

func ptr[T any](v T) *T { return &v }

type memUsers struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUsers(users ...model.User) *memUsers {
	m := &memUsers{users: map[string]model.User{}}
	for _, u := range users {
		m.users[u.Username] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return fmt.Errorf("create user: %w", gradebook.ErrExists)
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.Username] = *u
	return nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, fmt.Errorf("get user: %w", gradebook.ErrNotFound)
	}
	return &u, nil
}

func (m *memUsers) FindValidStudentIDs(_ context.Context, ids []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var valid []string
	for _, id := range ids {
		if u, ok := m.users[id]; ok && !u.IsTeacher {
			valid = append(valid, id)
		}
	}
	return valid, nil
}

type memClasses struct {
	mu      sync.Mutex
	classes []model.Class
}

func (m *memClasses) find(teacher, name string) int {
	for i, c := range m.classes {
		if c.Teacher == teacher && c.Name == name {
			return i
		}
	}
	return -1
}

func (m *memClasses) GetByName(_ context.Context, teacher, name string) (*model.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(teacher, name)
	if i < 0 {
		return nil, fmt.Errorf("get class: %w", gradebook.ErrNotFound)
	}
	c := m.classes[i]
	c.StudentIDs = append([]string(nil), c.StudentIDs...)
	return &c, nil
}

func (m *memClasses) ListByTeacher(_ context.Context, teacher string) ([]model.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Class{}
	for _, c := range m.classes {
		if c.Teacher == teacher {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memClasses) Create(_ context.Context, c *model.Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(c.Teacher, c.Name) >= 0 {
		return fmt.Errorf("create class: %w", gradebook.ErrExists)
	}
	c.ID = uuid.New()
	m.classes = append(m.classes, *c)
	return nil
}

func (m *memClasses) UpdateRoster(_ context.Context, classID uuid.UUID, added, removed []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.classes {
		if c.ID != classID {
			continue
		}
		m.classes[i].StudentIDs = gradebook.ApplyDelta(c.StudentIDs, added, removed, append(append([]string{}, added...), removed...))
		return nil
	}
	return fmt.Errorf("update roster: %w", gradebook.ErrNotFound)
}

func (m *memClasses) Delete(_ context.Context, teacher, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(teacher, name)
	if i < 0 {
		return fmt.Errorf("delete class: %w", gradebook.ErrNotFound)
	}
	m.classes = append(m.classes[:i], m.classes[i+1:]...)
	return nil
}

type memAssignments struct {
	mu          sync.Mutex
	assignments map[uuid.UUID]*model.Assignment
	order       []uuid.UUID

	// conflicts makes the next n conditional writes fail with ErrConflict.
	conflicts int
}

func newMemAssignments() *memAssignments {
	return &memAssignments{assignments: map[uuid.UUID]*model.Assignment{}}
}

func clone(a *model.Assignment) *model.Assignment {
	c := *a
	c.GradingEntries = append([]model.GradingEntry(nil), a.GradingEntries...)
	return &c
}

func (m *memAssignments) Create(_ context.Context, a *model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.ID] = clone(a)
	m.order = append(m.order, a.ID)
	return nil
}

func (m *memAssignments) GetByID(_ context.Context, id uuid.UUID) (*model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return nil, fmt.Errorf("get assignment: %w", gradebook.ErrNotFound)
	}
	return clone(a), nil
}

func (m *memAssignments) ListByTeacher(_ context.Context, teacher string) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Assignment{}
	for i := len(m.order) - 1; i >= 0; i-- {
		if a, ok := m.assignments[m.order[i]]; ok && a.Teacher == teacher {
			out = append(out, *clone(a))
		}
	}
	return out, nil
}

func (m *memAssignments) ListForStudent(_ context.Context, studentID string) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Assignment{}
	for _, id := range m.order {
		a, ok := m.assignments[id]
		if !ok {
			continue
		}
		if e, ok := a.EntryFor(studentID); ok {
			c := clone(a)
			c.GradingEntries = []model.GradingEntry{e}
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memAssignments) conflict() bool {
	if m.conflicts > 0 {
		m.conflicts--
		return true
	}
	return false
}

func (m *memAssignments) UpdateGradingEntry(_ context.Context, id uuid.UUID, expectedPoints float64, w model.GradeWrite) (*model.GradingEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok || a.Points != expectedPoints || m.conflict() {
		return nil, fmt.Errorf("update grading entry: %w", gradebook.ErrConflict)
	}
	for i := range a.GradingEntries {
		e := &a.GradingEntries[i]
		if e.StudentID != w.StudentID {
			continue
		}
		e.PointsEarned = ptr(w.PointsEarned)
		e.Grade = ptr(w.Grade)
		if w.Comments != nil {
			e.Comments = *w.Comments
		}
		saved := *e
		return &saved, nil
	}
	return nil, fmt.Errorf("update grading entry: %w", gradebook.ErrConflict)
}

func (m *memAssignments) UpdateFields(_ context.Context, id uuid.UUID, expectedPoints float64, f model.UpdateAssignmentRequest, classID *uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok || a.Points != expectedPoints || m.conflict() {
		return fmt.Errorf("update assignment: %w", gradebook.ErrConflict)
	}
	if f.Title != nil {
		a.Title = *f.Title
	}
	if f.Subject != nil {
		a.Subject = *f.Subject
	}
	if f.ClassName != nil {
		a.ClassName = *f.ClassName
		a.ClassID = classID
	}
	if f.Goals != nil {
		a.Goals = *f.Goals
	}
	if f.Instructions != nil {
		a.Instructions = *f.Instructions
	}
	if f.AssignDate != nil {
		a.AssignDate = *f.AssignDate
	}
	if f.DueDate != nil {
		a.DueDate = *f.DueDate
	}
	if f.Points != nil && *f.Points != a.Points {
		a.Points = *f.Points
		regraded, err := gradebook.Regrade(a.GradingEntries, a.Points)
		if err != nil {
			return err
		}
		a.GradingEntries = regraded
	}
	return nil
}

func (m *memAssignments) AppendGradingEntries(_ context.Context, id uuid.UUID, studentIDs []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return 0, fmt.Errorf("append entries: %w", gradebook.ErrNotFound)
	}
	before := len(a.GradingEntries)
	a.GradingEntries = append(a.GradingEntries, gradebook.UngradedEntries(a.GradingEntries, studentIDs)...)
	return int64(len(a.GradingEntries) - before), nil
}

func (m *memAssignments) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignments[id]; !ok {
		return fmt.Errorf("delete assignment: %w", gradebook.ErrNotFound)
	}
	delete(m.assignments, id)
	return nil
}

type memCache struct {
	mu          sync.Mutex
	books       map[string]model.StudentGradebook
	generations map[string]int64
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{books: map[string]model.StudentGradebook{}, generations: map[string]int64{}}
}

func (c *memCache) Get(_ context.Context, studentID string) (*model.StudentGradebook, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gb, ok := c.books[studentID]
	if !ok {
		return nil, false
	}
	return &gb, true
}

func (c *memCache) Generation(_ context.Context, studentID string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[studentID], true
}

func (c *memCache) Set(_ context.Context, studentID string, generation int64, gb *model.StudentGradebook) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[studentID] != generation {
		return false
	}
	c.books[studentID] = *gb
	return true
}

func (c *memCache) Invalidate(_ context.Context, studentIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range studentIDs {
		delete(c.books, id)
		c.generations[id]++
	}
	c.invalidated = append(c.invalidated, studentIDs...)
	sort.Strings(c.invalidated)
}

// env wires every service against the same in-memory stores.
type env struct {
	users       *memUsers
	classes     *memClasses
	assignments *memAssignments
	cache       *memCache

	classSvc      *ClassService
	assignmentSvc *AssignmentService
	gradebookSvc  *GradebookService
}

func newEnv(users ...model.User) *env {
	e := &env{
		users:       newMemUsers(users...),
		classes:     &memClasses{},
		assignments: newMemAssignments(),
		cache:       newMemCache(),
	}
	e.classSvc = NewClassService(e.classes, e.users, nopLog)
	e.assignmentSvc = NewAssignmentService(e.assignments, e.classes, e.users, e.cache, nopLog)
	e.gradebookSvc = NewGradebookService(e.users, e.assignments, e.cache, nopLog)
	return e
}

func teacher(name string) model.User { return model.User{Username: name, IsTeacher: true} }
func student(name string) model.User { return model.User{Username: name} }

func principal(u model.User) model.Principal {
	return model.Principal{Username: u.Username, IsTeacher: u.IsTeacher}
}

func lab(className string, points float64) model.AssignmentDef {
	return model.AssignmentDef{
		Title:        "Lab1",
		Subject:      "Biology",
		ClassName:    className,
		Points:       points,
		Goals:        "observe",
		Instructions: "write it up",
		AssignDate:   model.DayDate{Weekday: 1, Date: "2024-09-02"},
		DueDate:      model.DayDate{Weekday: 5, Date: "2024-09-06"},
	}
}
