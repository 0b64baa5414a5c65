// Package auth manages the login session for the Linear CLI.
//
// A session is a cached API token plus metadata about how and when it was
// obtained. Tokens live in the OS keyring (macOS Keychain, Windows Credential
// Manager, Linux Secret Service) via github.com/99designs/keyring, with a
// machine-bound encrypted file as fallback for headless environments; see
// internal/secrets for the storage chain.
//
// Priority order for token retrieval:
//  1. LINEAR_API_KEY environment variable (highest priority, avoids
//     keychain prompts in CI and scripts)
//  2. Token obtained by a login earlier in this process
//  3. Secret storage chain
//
// Raw credentials (email, password, API key) pass through Login and are
// never persisted or logged; only the resulting token is stored.
package auth
