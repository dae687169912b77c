package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// UserID identifies the owner of a reminder. Identities are issued by the
// auth service as UUIDv7.
type UserID struct {
	value uuid.UUID
}

var ErrInvalidUserID = errors.New("invalid user ID: must be valid UUIDv7")

func NewUserID() UserID {
	return UserID{value: uuid.Must(uuid.NewV7())}
}

func UserIDFromString(s string) (UserID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return UserID{}, ErrInvalidUserID
	}

	return UserIDFromUUID(id)
}

func UserIDFromUUID(id uuid.UUID) (UserID, error) {
	if id.Version() != 7 {
		return UserID{}, ErrInvalidUserID
	}

	return UserID{value: id}, nil
}

func (u UserID) String() string {
	return u.value.String()
}

func (u UserID) UUID() uuid.UUID {
	return u.value
}

func (u UserID) IsZero() bool {
	return u.value == uuid.Nil
}

func (u UserID) Equals(other UserID) bool {
	return u.value == other.value
}
