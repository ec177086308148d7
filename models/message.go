package models

import "time"

// Message is a single direct communication between two users, addressed by
// email on both ends. A conversation is computed from messages at read time;
// it is not a stored entity.
type Message struct {
	// ID is the surrogate database identifier.
	ID int64 `json:"id"`

	SenderEmail    string `json:"senderEmail"`
	RecipientEmail string `json:"recipientEmail"`

	// Content is the message body, at most 1000 characters.
	Content string `json:"content"`

	// Timestamp is set once at send time and never changes.
	Timestamp time.Time `json:"timestamp"`

	// Read is flipped to true when the recipient marks the message.
	Read bool `json:"read"`

	// Deleted is the soft-delete flag. All queries filter it out, but no
	// endpoint currently sets it.
	Deleted bool `json:"deleted"`

	// MediaData, MediaType and MediaFilename describe an optional inline
	// attachment (base64 payload, media-type tag, original filename).
	// All three are present together or all absent.
	MediaData     string `json:"mediaData,omitempty"`
	MediaType     string `json:"mediaType,omitempty"`
	MediaFilename string `json:"mediaFilename,omitempty"`
}

// HasMedia reports whether the message carries an inline attachment.
func (m Message) HasMedia() bool {
	return m.MediaData != ""
}
