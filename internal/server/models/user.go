// Package models defines server-side data models persisted by the metadata store.
package models

// User is a registered account. Password holds the one-way hash, never the
// clear text.
type User struct {
	ID       string `json:"id" bson:"_id"`
	Email    string `json:"email" bson:"email"`
	Password string `json:"-" bson:"password"`
}
