package model

import "time"

// User is a registered account. UserName is the unique key; the password is
// stored only as a bcrypt hash.
type User struct {
	UserName     string    `json:"userName"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"createdOn"`
}

// Gamer is the denormalized presence record for an authenticated user, keyed
// by user name. Sid reflects only the most recent authenticated connection;
// a record from a previous connection is silently overwritten on the next
// login. Untouched records are expired by the storage layer.
type Gamer struct {
	UserName  string    `json:"userName"`
	FullName  string    `json:"fullName"`
	Sid       string    `json:"sid"`
	UpdatedOn time.Time `json:"updatedOn"`
}
