// Package view models the storefront's screens as a closed set of modes and
// the moves allowed between them.
package view

import (
	"errors"
	"strings"

	"balalaika/internal/domain"
)

// Mode is one of Landing, Client, About, Shipping or Admin.
type Mode interface {
	Kind() Kind
}

type Kind int

const (
	KindLanding Kind = iota
	KindClient
	KindAbout
	KindShipping
	KindAdmin
)

type (
	Landing  struct{}
	Client   struct{}
	About    struct{}
	Shipping struct{}
	// Admin is Login without a session and Dashboard with one.
	Admin struct{ Page AdminPage }
)

func (Landing) Kind() Kind  { return KindLanding }
func (Client) Kind() Kind   { return KindClient }
func (About) Kind() Kind    { return KindAbout }
func (Shipping) Kind() Kind { return KindShipping }
func (Admin) Kind() Kind    { return KindAdmin }

// AdminPage is Login or Dashboard.
type AdminPage interface {
	isAdminPage()
}

type Login struct{}

type Dashboard struct{ Tab Tab }

func (Login) isAdminPage()     {}
func (Dashboard) isAdminPage() {}

type Tab int

const (
	TabProducts Tab = iota
	TabCategories
)

func (t Tab) String() string {
	if t == TabCategories {
		return "categories"
	}
	return "products"
}

func ParseTab(s string) Tab {
	if strings.EqualFold(strings.TrimSpace(s), "categories") {
		return TabCategories
	}
	return TabProducts
}

var ErrTransition = errors.New("transition not allowed")

var transitions = map[Kind][]Kind{
	KindLanding:  {KindClient},
	KindClient:   {KindAdmin, KindAbout, KindShipping},
	KindAdmin:    {KindClient, KindAdmin},
	KindAbout:    {KindClient},
	KindShipping: {KindClient},
}

// Allowed reports whether the router may move from one kind to another.
// Admin to Admin covers tab switches and the login/dashboard flip.
func Allowed(from, to Kind) bool {
	for _, k := range transitions[from] {
		if k == to {
			return true
		}
	}
	return false
}

// AdminFor resolves the admin branch for s.
func AdminFor(s domain.Session, tab Tab) Admin {
	switch s.(type) {
	case domain.Authenticated:
		return Admin{Page: Dashboard{Tab: tab}}
	default:
		return Admin{Page: Login{}}
	}
}

// Go moves from the current mode to target, resolving Admin against s.
func Go(from Mode, to Kind, tab Tab, s domain.Session) (Mode, error) {
	if !Allowed(from.Kind(), to) {
		return from, ErrTransition
	}
	return build(to, tab, s), nil
}

func build(k Kind, tab Tab, s domain.Session) Mode {
	switch k {
	case KindClient:
		return Client{}
	case KindAbout:
		return About{}
	case KindShipping:
		return Shipping{}
	case KindAdmin:
		return AdminFor(s, tab)
	}
	return Landing{}
}

// Resolve maps a request path to a mode. Unknown paths report false.
func Resolve(path, tab string, s domain.Session) (Mode, bool) {
	switch strings.TrimSuffix(path, "/") {
	case "":
		return Landing{}, true
	case "/catalog":
		return Client{}, true
	case "/about":
		return About{}, true
	case "/shipping":
		return Shipping{}, true
	case "/admin":
		return AdminFor(s, ParseTab(tab)), true
	}
	return nil, false
}

// Path is the URL that renders m.
func Path(m Mode) string {
	switch v := m.(type) {
	case Client:
		return "/catalog"
	case About:
		return "/about"
	case Shipping:
		return "/shipping"
	case Admin:
		if d, ok := v.Page.(Dashboard); ok && d.Tab == TabCategories {
			return "/admin?tab=categories"
		}
		return "/admin"
	}
	return "/"
}

// Link is a navigation entry.
type Link struct {
	Label string
	Href  string
}

var labels = map[Kind]string{
	KindClient:   "Catálogo",
	KindAbout:    "Nosotros",
	KindShipping: "Envíos",
	KindAdmin:    "Admin",
}

// Nav lists the destinations reachable from m, in a fixed order.
func Nav(m Mode, s domain.Session) []Link {
	var out []Link
	for _, k := range []Kind{KindClient, KindAbout, KindShipping, KindAdmin} {
		if k == m.Kind() || !Allowed(m.Kind(), k) {
			continue
		}
		out = append(out, Link{Label: labels[k], Href: Path(build(k, TabProducts, s))})
	}
	return out
}
