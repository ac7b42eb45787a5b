// Package credential persists the bearer credential and the profile of the
// user it was issued to.
package credential

import (
	"errors"

	"github.com/nhle/tavern/internal/model"
)

// Storage keys. They match the keys the web client used in local storage
// so a shared store stays readable by both.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrNotFound is returned when no credential or user record is stored.
var ErrNotFound = errors.New("credential not found")

// Store is the single owner of credential state. Readers go through Token
// and User; the only mutation other components may request is Clear.
type Store interface {
	// Token returns the stored bearer value or ErrNotFound.
	Token() (string, error)

	// User returns the stored profile record or ErrNotFound.
	User() (model.User, error)

	// Save stores the bearer value and profile together.
	Save(token string, user model.User) error

	// Clear removes both the bearer value and the profile record.
	// Clearing an empty store is not an error.
	Clear() error
}
