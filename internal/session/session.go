// Package session models a login session and the role → panel routing table.
//
// A session moves Anonymous → Authenticated → PanelSelected. There is no
// logout transition; a client simply drops its token.
package session

import (
	"errors"
	"sort"

	"ims/internal/model"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Capability is a feature area a panel exposes.
type Capability string

const (
	CapProducts Capability = "products"
	CapSales    Capability = "sales"
)

// Panel is the role-specific surface a user lands on after login.
type Panel struct {
	Name         string
	Title        string
	Capabilities []Capability
}

// Can reports whether the panel exposes c.
func (p Panel) Can(c Capability) bool {
	for _, have := range p.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

var (
	AdminPanel = Panel{Name: "admin", Title: "Admin Panel", Capabilities: []Capability{CapProducts, CapSales}}
	StaffPanel = Panel{Name: "staff", Title: "Staff Panel", Capabilities: []Capability{CapProducts}}
)

// routes is the single authoritative role → panel table.
var routes = map[string]Panel{
	RoleAdmin: AdminPanel,
	RoleStaff: StaffPanel,
}

// PanelForRole looks up the panel for role. Unknown roles have no route.
func PanelForRole(role string) (Panel, bool) {
	p, ok := routes[role]
	return p, ok
}

// RolesWith returns, sorted, every role whose panel exposes c.
func RolesWith(c Capability) []string {
	var roles []string
	for role, p := range routes {
		if p.Can(c) {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	return roles
}

type State int

const (
	Anonymous State = iota
	Authenticated
	PanelSelected
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case PanelSelected:
		return "panel_selected"
	default:
		return "unknown"
	}
}

var (
	ErrNotAuthenticated = errors.New("session is not authenticated")
	ErrNoPanelForRole   = errors.New("no panel for role")
)

// Session tracks one user's progress through login.
type Session struct {
	state State
	user  *model.User
	panel *Panel
}

func New() *Session { return &Session{} }

func (s *Session) State() State { return s.state }
func (s *Session) User() *model.User { return s.user }
func (s *Session) Panel() *Panel { return s.panel }

// Authenticate moves the session to Authenticated for u, clearing any panel.
func (s *Session) Authenticate(u *model.User) {
	s.state = Authenticated
	s.user = u
	s.panel = nil
}

// SelectPanel routes the authenticated user by role. On an unknown role the
// session stays Authenticated and ErrNoPanelForRole is returned.
func (s *Session) SelectPanel() (Panel, error) {
	if s.state == Anonymous || s.user == nil {
		return Panel{}, ErrNotAuthenticated
	}
	p, ok := PanelForRole(s.user.Role)
	if !ok {
		return Panel{}, ErrNoPanelForRole
	}
	s.state = PanelSelected
	s.panel = &p
	return p, nil
}
