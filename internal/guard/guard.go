package guard

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrPoolPaused   = errors.New("pool paused")
	ErrNotPaused    = errors.New("pool not paused")
)

// Role names a permission required by an administrative operation.
type Role string

const (
	// RoleAdmin may grant and revoke roles.
	RoleAdmin Role = "admin"
	// RolePauser may pause and unpause the pool.
	RolePauser Role = "pauser"
)

// PermissionStore answers role membership queries. Role storage is owned
// by an external collaborator; the guard only consults it.
type PermissionStore interface {
	HasRole(identity common.Address, role Role) bool
	Grant(identity common.Address, role Role)
	Revoke(identity common.Address, role Role)
}

// Guard gates every mutating pool operation on the pause flag and, for
// administrative operations, on role membership. It has no other state.
type Guard struct {
	perms PermissionStore

	mu     sync.RWMutex
	paused bool
}

// New returns an active (unpaused) guard backed by the given store.
func New(perms PermissionStore) *Guard {
	return &Guard{perms: perms}
}

// CheckPermission reports whether the identity holds the required role.
func (g *Guard) CheckPermission(identity common.Address, role Role) bool {
	if g.perms == nil {
		return false
	}
	return g.perms.HasRole(identity, role)
}

// IsPaused reports whether the pool is currently paused.
func (g *Guard) IsPaused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// Pause moves Active -> Paused. Pausing an already paused pool fails.
func (g *Guard) Pause() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		return ErrPoolPaused
	}
	g.paused = true
	return nil
}

// Unpause moves Paused -> Active. Unpausing an active pool fails.
func (g *Guard) Unpause() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return ErrNotPaused
	}
	g.paused = false
	return nil
}

// Grant adds a role assignment in the permission store.
func (g *Guard) Grant(identity common.Address, role Role) {
	g.perms.Grant(identity, role)
}

// Revoke removes a role assignment from the permission store.
func (g *Guard) Revoke(identity common.Address, role Role) {
	g.perms.Revoke(identity, role)
}

// StaticPermissions is an in-memory PermissionStore used by the daemon
// wiring and the tests.
type StaticPermissions struct {
	mu    sync.RWMutex
	roles map[common.Address]map[Role]struct{}
}

func NewStaticPermissions() *StaticPermissions {
	return &StaticPermissions{roles: make(map[common.Address]map[Role]struct{})}
}

func (s *StaticPermissions) HasRole(identity common.Address, role Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.roles[identity][role]
	return ok
}

func (s *StaticPermissions) Grant(identity common.Address, role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roles[identity] == nil {
		s.roles[identity] = make(map[Role]struct{})
	}
	s.roles[identity][role] = struct{}{}
}

func (s *StaticPermissions) Revoke(identity common.Address, role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles[identity], role)
}
