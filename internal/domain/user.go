package domain

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
}

// Session is either Anonymous or Authenticated. Switch on the concrete type.
type Session interface {
	isSession()
}

type Anonymous struct{}

type Authenticated struct {
	Profile User
}

func (Anonymous) isSession()     {}
func (Authenticated) isSession() {}

// SignedIn returns the profile for an authenticated session.
func SignedIn(s Session) (User, bool) {
	switch v := s.(type) {
	case Authenticated:
		return v.Profile, true
	case Anonymous, nil:
		return User{}, false
	}
	return User{}, false
}
