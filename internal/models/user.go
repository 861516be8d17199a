package models

import (
	"time"
)

// Privilege is an ordinal user access level. Higher value grants more.
type Privilege int

const (
	PrivilegeBasic Privilege = iota
	PrivilegeAdvanced
	PrivilegeAdmin
)

func (p Privilege) AtLeast(other Privilege) bool {
	return p >= other
}

type User struct {
	ID        int64
	CreatedAt time.Time
	Privilege Privilege
}

// Account holds login identifiers and the hashed password for a user.
// HashedPassword is itself a signed basic token carrying hash parameters.
// At least one of Email or Phone is always set.
type Account struct {
	ID             int64
	UserID         int64
	CreatedAt      time.Time
	Email          string
	Phone          string
	HashedPassword string
}
