package secret

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ServiceName is the keyring service every password is stored under
const ServiceName = "woffu-bot"

// ErrNotFound is returned when no password is stored for the account
var ErrNotFound = errors.New("password not found in keyring")

// Store keeps Woffu passwords in the OS keyring, keyed by account email
type Store struct {
	service string
}

// NewStore creates a keyring store
func NewStore() *Store {
	return &Store{service: ServiceName}
}

// Password retrieves the stored password for email
func (s *Store) Password(email string) (string, error) {
	password, err := keyring.Get(s.service, email)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w for %s", ErrNotFound, email)
		}
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}

	if password == "" {
		return "", fmt.Errorf("%w for %s", ErrNotFound, email)
	}

	return password, nil
}

// SetPassword stores password for email, replacing any previous value
func (s *Store) SetPassword(email, password string) error {
	if email == "" {
		return errors.New("email cannot be empty")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if err := keyring.Set(s.service, email, password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}

	return nil
}

// DeletePassword removes the stored password for email
func (s *Store) DeletePassword(email string) error {
	if err := keyring.Delete(s.service, email); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w for %s", ErrNotFound, email)
		}
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}

	return nil
}
