package cursor

import "sync"

// User is a session participant with a tracked cursor.
type User struct {
	ID     string
	Name   string
	Color  string
	Active bool
	cursor Cursor
}

// Cursor returns the user's current cursor.
func (u User) Cursor() Cursor {
	return u.cursor
}

// Registry tracks one cursor per user, preserving registration order.
// All methods are safe for concurrent use. Updates from different users
// are independent; each record has a single writer.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*User
	order []string
}

// NewRegistry creates an empty cursor registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]*User),
	}
}

// Add registers a user. The user starts active with the cursor at 0.
// Adding an existing ID refreshes name and color but keeps the cursor
// and registration order.
func (r *Registry) Add(id, name, color string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, exists := r.users[id]; exists {
		u.Name = name
		u.Color = color
		return
	}

	r.users[id] = &User{
		ID:     id,
		Name:   name,
		Color:  color,
		Active: true,
	}
	r.order = append(r.order, id)
}

// Remove deletes a user from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[id]; !exists {
		return
	}
	delete(r.users, id)
	for i, uid := range r.order {
		if uid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Update stores a new cursor offset for a user, last-write-wins.
// The offset is clamped to [0, maxOffset], never rejected. Updates for
// unknown users are dropped.
func (r *Registry) Update(id string, offset, maxOffset int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, exists := r.users[id]
	if !exists {
		return
	}
	u.cursor = New(offset).Clamp(maxOffset)
}

// SetActive toggles a user's active flag.
func (r *Registry) SetActive(id string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, exists := r.users[id]; exists {
		u.Active = active
	}
}

// Offset returns a user's cursor offset clamped to [0, maxOffset].
// Stale offsets from before a document shrink clamp on read.
func (r *Registry) Offset(id string, maxOffset int) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[id]
	if !exists {
		return 0, false
	}
	return u.cursor.Clamp(maxOffset).Offset(), true
}

// Position returns a user's display position within content.
func (r *Registry) Position(id, content string) (Point, bool) {
	r.mu.RLock()
	u, exists := r.users[id]
	if !exists {
		r.mu.RUnlock()
		return Point{}, false
	}
	offset := u.cursor.Offset()
	r.mu.RUnlock()

	return PositionAt(content, offset), true
}

// Get returns a copy of a user's record.
func (r *Registry) Get(id string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[id]
	if !exists {
		return User{}, false
	}
	return *u, true
}

// ActiveUsers returns all active users in registration order.
func (r *Registry) ActiveUsers() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]User, 0, len(r.order))
	for _, id := range r.order {
		if u := r.users[id]; u.Active {
			result = append(result, *u)
		}
	}
	return result
}

// All returns all users in registration order.
func (r *Registry) All() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]User, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, *r.users[id])
	}
	return result
}

// Count returns the number of registered users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
