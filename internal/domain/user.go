package domain

// Session is the externally visible identity of a signed-in visitor.
// It never carries credentials and is the only part of a user that
// gets persisted.
type Session struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// CredentialRecord is a registered user as stored in the credential
// registry. PasswordHash is an opaque comparison value owned by the
// configured hasher; it must never leave the session package.
type CredentialRecord struct {
	UserID       int64
	Email        string
	PasswordHash string
	Name         string
}

// Session derives the public identity from a credential record.
func (r *CredentialRecord) Session() Session {
	return Session{UserID: r.UserID, Email: r.Email, Name: r.Name}
}
