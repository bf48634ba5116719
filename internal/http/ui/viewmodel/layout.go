// Package viewmodel holds the typed view data shared by layout templates.
package viewmodel

// User represents the signed-in administrator exposed to templates.
type User struct {
	Name    string
	Email   string
	Initial string
	Role    string
}

// NavItem is one sidebar link.
type NavItem struct {
	Path   string
	Label  string
	Active bool
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
	Nav             []NavItem
}
