package models

import "time"

// User represents a member account. It carries both identity attributes
// (username, email) and the social state maintained by the follower graph.
// The password field holds a bcrypt hash and must never leave the process:
// every service method clears it before returning the record to a caller.
type User struct {
	// ID is the surrogate database identifier.
	ID int64 `json:"id"`

	// Username is the unique handle, 3-20 characters.
	// Immutable after signup; no endpoint updates it.
	Username string `json:"username"`

	// DisplayName is the human-readable name shown in listings.
	DisplayName string `json:"displayName"`

	// Email is the unique, validated address used as the canonical
	// identity key throughout the system (token subject, message routing).
	// Immutable after signup.
	Email string `json:"email"`

	// Password is the bcrypt hash of the account password.
	// Excluded from JSON so it can never appear in a response payload.
	Password string `json:"-"`

	// Avatar is a URL (or inline data URL) for the profile picture.
	Avatar string `json:"avatar"`

	// Bio is free-form profile text, at most 500 characters.
	Bio string `json:"bio"`

	Location   string `json:"location"`
	Website    string `json:"website"`
	BirthDate  string `json:"birthDate"`
	Profession string `json:"profession"`

	// Followers is a derived counter maintained by the inverse follow
	// operation, not recomputed from the graph.
	Followers int `json:"followers"`

	// Following is the ordered set of followed user IDs, no duplicates.
	Following []int64 `json:"following"`

	// JoinDate is set once at signup.
	JoinDate time.Time `json:"joinDate"`

	// LastModified is bumped on every profile edit.
	LastModified time.Time `json:"lastModified"`

	// Active is the soft-deactivation switch. Inactive accounts cannot
	// log in and are hidden from listings and search.
	Active bool `json:"active"`
}

// Sanitized returns a copy of the user with the password hash cleared.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// IsFollowing reports whether userID is present in the following set.
func (u User) IsFollowing(userID int64) bool {
	for _, id := range u.Following {
		if id == userID {
			return true
		}
	}
	return false
}
