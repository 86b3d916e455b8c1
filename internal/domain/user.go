package domain

type ContextKey string

const (
	UserContextKey    ContextKey = "user"
	AuthContextKey    ContextKey = "auth"
	VisitorContextKey ContextKey = "visitor"
)

// User is the partial identity carried by an access token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthSnapshot is the auth collaborator's view of the current visitor at
// the time of an operation. An empty UserID means anonymous.
type AuthSnapshot struct {
	UserID string
	Email  string
}

// Anonymous is the snapshot of a visitor without a session.
var Anonymous = AuthSnapshot{}

// Authenticated reports whether a user identifier is available.
func (a AuthSnapshot) Authenticated() bool {
	return a.UserID != ""
}

// SnapshotFor builds the snapshot for a signed-in user; nil yields Anonymous.
func SnapshotFor(u *User) AuthSnapshot {
	if u == nil || u.ID == "" {
		return Anonymous
	}
	return AuthSnapshot{UserID: u.ID, Email: u.Email}
}
