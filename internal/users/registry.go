// Package users provides the in-memory credential registry.
package users

// User is a registered account.
type User struct {
	Username string
	Password string
	IsStaff  bool
}

type entry struct {
	user User
	next *entry
}

// Registry is a singly linked list of users, newest first.
// A re-registered username shadows the older entry without removing it.
type Registry struct {
	head *entry
	size int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add prepends u to the registry.
func (r *Registry) Add(u User) {
	r.head = &entry{user: u, next: r.head}
	r.size++
}

// Len returns the number of stored entries, shadowed ones included.
func (r *Registry) Len() int {
	return r.size
}

// Find returns the most recently added user with the given username.
func (r *Registry) Find(username string) (User, bool) {
	for e := r.head; e != nil; e = e.next {
		if e.user.Username == username {
			return e.user, true
		}
	}
	return User{}, false
}

// Authenticate returns the user when username resolves and the password matches.
func (r *Registry) Authenticate(username, password string) (User, bool) {
	u, ok := r.Find(username)
	if !ok || u.Password != password {
		return User{}, false
	}
	return u, true
}
