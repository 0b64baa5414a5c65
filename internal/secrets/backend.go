// Package secrets stores the API token behind a uniform backend interface.
//
// The default setup chains the OS keyring (macOS Keychain, Secret Service,
// Windows Credential Manager) with an encrypted file store keyed to the
// machine, so headless hosts and containers work without a keyring daemon.
package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"

	clierrors "github.com/salmonumbrella/linear-cli/internal/errors"
)

const (
	// ServiceName is the keyring service name for linear-cli
	ServiceName = "linear-cli"
	// CredentialsDirEnvVarName controls the credential storage root directory.
	// linear-cli keyring files are stored under: <dir>/linear-cli/keyring
	CredentialsDirEnvVarName = "LINEAR_CREDENTIALS_DIR"
	// KeyringPasswordEnvVarName sets the file keyring passphrase for non-interactive setups.
	KeyringPasswordEnvVarName = "LINEAR_KEYRING_PASSWORD"
	// DBUSSessionAddressEnvVarName is used to detect Linux headless mode.
	DBUSSessionAddressEnvVarName = "DBUS_SESSION_BUS_ADDRESS"
)

// ErrNotFound is returned by Retrieve when no value is stored under a key.
// Callers treat it as "no session", never as a failure.
var ErrNotFound = errors.New("secret not found")

// Backend is a minimal key-value secret store.
type Backend interface {
	// Store saves value under key, overwriting any previous value.
	Store(key, value string) error
	// Retrieve returns the value under key, or ErrNotFound.
	Retrieve(key string) (string, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Keyring is a Backend over the OS keyring.
type Keyring struct {
	ring keyring.Keyring
}

func keyringFileDir() string {
	if dir := strings.TrimSpace(os.Getenv(CredentialsDirEnvVarName)); dir != "" {
		return filepath.Join(dir, ServiceName, "keyring")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.Getenv("HOME")
	}

	configDir = strings.TrimSpace(configDir)
	if configDir == "" {
		return string(os.PathSeparator) + filepath.Join(ServiceName, "keyring")
	}
	return filepath.Join(configDir, ServiceName, "keyring")
}

func keyringFilePassword() string {
	if password := strings.TrimSpace(os.Getenv(KeyringPasswordEnvVarName)); password != "" {
		return password
	}
	return ServiceName
}

func shouldForceFileBackend(goos string, dbusAddr string) bool {
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

// OpenKeyring opens the OS keyring backend.
func OpenKeyring() (Backend, error) {
	cfg := keyring.Config{
		ServiceName: ServiceName,
		// macOS Keychain settings
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		// File-based fallback (for environments without GUI keyring)
		FileDir:          keyringFileDir(),
		FilePasswordFunc: func(_ string) (string, error) { return keyringFilePassword(), nil },
	}

	if shouldForceFileBackend(runtime.GOOS, os.Getenv(DBUSSessionAddressEnvVarName)) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &Keyring{ring: ring}, nil
}

func (k *Keyring) Store(key, value string) error {
	return k.ring.Set(keyring.Item{
		Key:   key,
		Label: "Linear CLI " + key,
		Data:  []byte(value),
	})
}

func (k *Keyring) Retrieve(key string) (string, error) {
	item, err := k.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(item.Data), nil
}

func (k *Keyring) Delete(key string) error {
	err := k.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}

// Chain tries a primary backend and falls back to a secondary one.
//
// The primary is opened lazily; a failed open is remembered for the lifetime
// of the Chain so one process never probes an unavailable keyring twice.
// Writes land on whichever backend works and best-effort clear the other, so
// a later read cannot see a stale value from the losing backend.
type Chain struct {
	openPrimary func() (Backend, error)
	fallback    Backend

	primary     Backend
	primaryErr  error
	primaryOnce bool
}

// NewChain builds a Chain from a primary opener and a fallback backend.
func NewChain(openPrimary func() (Backend, error), fallback Backend) *Chain {
	return &Chain{openPrimary: openPrimary, fallback: fallback}
}

// DefaultChain is the production chain: OS keyring, then encrypted file store.
func DefaultChain() *Chain {
	return NewChain(OpenKeyring, NewFileStore())
}

func (c *Chain) getPrimary() (Backend, error) {
	if !c.primaryOnce {
		c.primary, c.primaryErr = c.openPrimary()
		c.primaryOnce = true
	}
	return c.primary, c.primaryErr
}

func (c *Chain) Store(key, value string) error {
	primary, err := c.getPrimary()
	if err == nil {
		err = primary.Store(key, value)
		if err == nil {
			// Clear a stale copy the fallback may still hold.
			_ = c.fallback.Delete(key)
			return nil
		}
	}

	if fbErr := c.fallback.Store(key, value); fbErr != nil {
		return clierrors.WrapStorage("store "+key, errors.Join(err, fbErr))
	}
	if primary != nil {
		_ = primary.Delete(key)
	}
	return nil
}

func (c *Chain) Retrieve(key string) (string, error) {
	var primaryErr error
	if primary, err := c.getPrimary(); err == nil {
		value, getErr := primary.Retrieve(key)
		if getErr == nil {
			return value, nil
		}
		if !errors.Is(getErr, ErrNotFound) {
			primaryErr = getErr
		}
	}

	value, err := c.fallback.Retrieve(key)
	if err == nil {
		return value, nil
	}
	if errors.Is(err, ErrNotFound) {
		if primaryErr != nil {
			return "", clierrors.WrapStorage("retrieve "+key, primaryErr)
		}
		return "", ErrNotFound
	}
	return "", clierrors.WrapStorage("retrieve "+key, errors.Join(primaryErr, err))
}

func (c *Chain) Delete(key string) error {
	var primaryErr error
	if primary, err := c.getPrimary(); err == nil {
		primaryErr = primary.Delete(key)
	}

	fallbackErr := c.fallback.Delete(key)
	if primaryErr != nil && fallbackErr != nil {
		return clierrors.WrapStorage("delete "+key, errors.Join(primaryErr, fallbackErr))
	}
	return nil
}
