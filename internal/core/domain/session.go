package domain

type (
	User struct {
		ID        int    `json:"id,omitempty"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		FirstName string `json:"firstName,omitempty"`
		LastName  string `json:"lastName,omitempty"`
	}

	TokenPair struct {
		AccessToken  string
		RefreshToken string
	}

	// RemoteSession is what a successful remote login yields.
	RemoteSession struct {
		User   User
		Tokens TokenPair
	}

	// MockUser is an entry of the local mock directory. The password
	// is stored as a bcrypt hash, never in the clear.
	MockUser struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		PasswordHash string `json:"passwordHash"`
	}
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// SessionSnapshot is the persisted slice of the session store state.
type SessionSnapshot struct {
	AccessToken  string
	RefreshToken string
	User         *User
	MockUsers    []MockUser
	Theme        Theme
}
