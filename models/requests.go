package models

// LoginRequest carries the credentials posted to /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest carries the fields posted to /api/auth/signup.
// All four fields are required; the password must be at least 6 characters.
type SignupRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// ProfileUpdate is the patch applied by PUT /api/users/profile.
//
// Pointer fields distinguish "absent from the patch" (nil, leave unchanged)
// from "present but empty" (overwrite with the supplied value). DisplayName
// and Avatar additionally ignore blank-after-trim values.
type ProfileUpdate struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	Website     *string `json:"website"`
	Avatar      *string `json:"avatar"`
	Profession  *string `json:"profession"`
	BirthDate   *string `json:"birthDate"`
}

// MessageRequest carries the body of POST /api/messages/send.
// The media fields travel together: when MediaData is non-empty the type tag
// and original filename accompany the payload verbatim.
type MessageRequest struct {
	RecipientEmail string `json:"recipientEmail"`
	Content        string `json:"content"`

	MediaData     string `json:"mediaData,omitempty"`
	MediaType     string `json:"mediaType,omitempty"`
	MediaFilename string `json:"mediaFilename,omitempty"`
}
