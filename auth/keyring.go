// Package auth provides a high-level API for persisting and retrieving viewer credentials.
package auth

import (
	"github.com/zalando/go-keyring"
)

const (
	service = "educast-cli"
	user    = "session-token"
)

// SetToken persists the EduCast session token to the system keyring.
func SetToken(token string) error {
	return keyring.Set(service, user, token)
}

// GetToken retrieves the EduCast session token from the system keyring.
func GetToken() (string, error) {
	return keyring.Get(service, user)
}

// DeleteToken removes the EduCast session token from the system keyring.
func DeleteToken() error {
	return keyring.Delete(service, user)
}
