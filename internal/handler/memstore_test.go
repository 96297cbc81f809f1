package handler_test

import (
	"context"
	"errors"
	"sync"

	"room-scheduler-api/internal/model"
	"room-scheduler-api/internal/store"
)

// memStore mimics the postgres store, foreign keys included.
type memStore struct {
	mu     sync.Mutex
	down   bool
	nextID int64

	users []model.User
	rooms []model.Room
	apts  []model.Appointment
}

func newMemStore() *memStore { return &memStore{} }

var errFK = errors.New(`violates foreign key constraint`)

func (m *memStore) begin(op string) error {
	if m.down {
		return &store.Error{Op: op, Kind: store.KindConnection, Err: errors.New("connection refused")}
	}
	return nil
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) hasUser(id int64) bool {
	for _, u := range m.users {
		if u.ID == id {
			return true
		}
	}
	return false
}

func (m *memStore) hasRoom(id int64) bool {
	for _, r := range m.rooms {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (m *memStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("create user"); err != nil {
		return err
	}
	cp := *u
	cp.ID = m.id()
	m.users = append(m.users, cp)
	return nil
}

func (m *memStore) ListUsers(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("list users"); err != nil {
		return nil, err
	}
	return append([]model.User{}, m.users...), nil
}

func (m *memStore) GetUser(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("get user"); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) UpdateUser(_ context.Context, id int64, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("update user"); err != nil {
		return err
	}
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].Name, m.users[i].Email = u.Name, u.Email
		}
	}
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("delete user"); err != nil {
		return err
	}
	for _, a := range m.apts {
		if a.UserID == id {
			return &store.Error{Op: "delete user", Kind: store.KindIntegrity, Err: errFK}
		}
	}
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) CreateRoom(_ context.Context, r *model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("create room"); err != nil {
		return err
	}
	cp := *r
	cp.ID = m.id()
	m.rooms = append(m.rooms, cp)
	return nil
}

func (m *memStore) ListRooms(context.Context) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("list rooms"); err != nil {
		return nil, err
	}
	return append([]model.Room{}, m.rooms...), nil
}

func (m *memStore) GetRoom(_ context.Context, id int64) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("get room"); err != nil {
		return nil, err
	}
	for _, r := range m.rooms {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) UpdateRoom(_ context.Context, id int64, r *model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("update room"); err != nil {
		return err
	}
	for i := range m.rooms {
		if m.rooms[i].ID == id {
			cp := *r
			cp.ID = id
			m.rooms[i] = cp
		}
	}
	return nil
}

func (m *memStore) DeleteRoom(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("delete room"); err != nil {
		return err
	}
	for _, a := range m.apts {
		if a.RoomID == id {
			return &store.Error{Op: "delete room", Kind: store.KindIntegrity, Err: errFK}
		}
	}
	for i := range m.rooms {
		if m.rooms[i].ID == id {
			m.rooms = append(m.rooms[:i], m.rooms[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) CreateAppointment(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("create appointment"); err != nil {
		return err
	}
	if !m.hasUser(a.UserID) || !m.hasRoom(a.RoomID) {
		return &store.Error{Op: "create appointment", Kind: store.KindIntegrity, Err: errFK}
	}
	cp := *a
	cp.ID = m.id()
	cp.Status = model.StatusScheduled
	m.apts = append(m.apts, cp)
	return nil
}

func (m *memStore) ListAppointments(context.Context) ([]model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("list appointments"); err != nil {
		return nil, err
	}
	return append([]model.Appointment{}, m.apts...), nil
}

func (m *memStore) GetAppointment(_ context.Context, id int64) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("get appointment"); err != nil {
		return nil, err
	}
	for _, a := range m.apts {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) UpdateAppointment(_ context.Context, id int64, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("update appointment"); err != nil {
		return err
	}
	for i := range m.apts {
		if m.apts[i].ID != id {
			continue
		}
		if !m.hasUser(a.UserID) || !m.hasRoom(a.RoomID) {
			return &store.Error{Op: "update appointment", Kind: store.KindIntegrity, Err: errFK}
		}
		cp := *a
		cp.ID, cp.Status = id, m.apts[i].Status
		m.apts[i] = cp
	}
	return nil
}

func (m *memStore) DeleteAppointment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("delete appointment"); err != nil {
		return err
	}
	for i := range m.apts {
		if m.apts[i].ID == id {
			m.apts = append(m.apts[:i], m.apts[i+1:]...)
			break
		}
	}
	return nil
}
