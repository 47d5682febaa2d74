package entity

import "errors"

var ErrUserNotFound = errors.New("user not found")

// User is a buying company. Accounts are created and authenticated by the
// auth collaborator; this service only reads them for invoicing emails.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
}
