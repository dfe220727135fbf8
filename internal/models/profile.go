package models

import "time"

// Address is a postal address value.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Profile holds the identity and contact fields shared by students and
// teachers. It is fixed at construction.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProfile stamps a profile with the current UTC time.
func NewProfile(id, name, email string, address Address) Profile {
	return Profile{ID: id, Name: name, Email: email, Address: address, CreatedAt: time.Now().UTC()}
}
