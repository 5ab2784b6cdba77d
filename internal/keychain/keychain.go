package keychain

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "linedraw"

// Accounts under which channel credentials are stored.
const (
	AccountChannelSecret      = "channel-secret"
	AccountChannelAccessToken = "channel-access-token"
)

// ErrNotFound is returned by Get when no secret is stored for the account.
var ErrNotFound = keyring.ErrNotFound

// Accounts lists the accounts linedraw reads.
func Accounts() []string {
	return []string{AccountChannelSecret, AccountChannelAccessToken}
}

// Valid reports whether account is one linedraw reads.
func Valid(account string) bool {
	for _, a := range Accounts() {
		if a == account {
			return true
		}
	}
	return false
}

// Get retrieves a secret from the system keychain.
func Get(account string) (string, error) {
	return keyring.Get(serviceName, account)
}

// Set stores a secret in the system keychain.
func Set(account, value string) error {
	if value == "" {
		return errors.New("empty secret")
	}
	return keyring.Set(serviceName, account, value)
}

// Delete removes a secret from the system keychain.
func Delete(account string) error {
	return keyring.Delete(serviceName, account)
}
