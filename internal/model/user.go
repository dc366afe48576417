package model

import "time"

// User is the profile of a registered account.
// The password is stored server-side only as a bcrypt hash and is
// never part of this struct.
type User struct {
	// ID is the unique identifier for this account.
	ID string `json:"id" db:"id"`

	// Username is the unique handle chosen at registration.
	Username string `json:"username" db:"username"`

	// Email is the unique address used to sign in.
	Email string `json:"email" db:"email"`

	FirstName string `json:"firstName,omitempty" db:"first_name"`
	LastName  string `json:"lastName,omitempty" db:"last_name"`
	Phone     string `json:"phone,omitempty" db:"phone"`
	Location  string `json:"location,omitempty" db:"location"`
	Avatar    string `json:"avatar,omitempty" db:"avatar"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfilePatch carries an update to the profile fields a user may
// change after registration. Email, username, and password are not
// updatable through this path.
type ProfilePatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Location  *string `json:"location,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

// Apply returns a copy of u with the patch's non-nil fields merged in.
func (p ProfilePatch) Apply(u User) User {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}

// Registration carries the fields required to create a new account.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}
