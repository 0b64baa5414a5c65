package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	kdfName       = "pbkdf2-sha256"
	kdfIterations = 100000
	keyLen        = 32

	// appSalt is fixed by design: the key binds secrets to the machine
	// identifier, not to a per-file secret the attacker would find next
	// to the ciphertext anyway.
	appSalt = "linear-cli-credential-store"

	credentialsFileName = "credentials.json"
)

// FileStore is a Backend that keeps secrets in a single encrypted JSON file
// under the user config directory. The encryption key is derived from the
// machine identifier, so the file is unreadable if copied to another host.
//
// A file that fails to decrypt (tampered, or written on another machine) is
// treated as absent rather than an error. Writes go through a temp file and
// rename, so readers never observe a partial file.
type FileStore struct {
	path string
}

// envelope is the on-disk format. All binary fields are base64.
type envelope struct {
	KDF        string `json:"kdf"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// NewFileStore creates a file store at the default credentials path.
func NewFileStore() *FileStore {
	return &FileStore{path: defaultCredentialsPath()}
}

// NewFileStoreAt creates a file store at an explicit path. Used in tests.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

func defaultCredentialsPath() string {
	if dir := strings.TrimSpace(os.Getenv(CredentialsDirEnvVarName)); dir != "" {
		return filepath.Join(dir, ServiceName, credentialsFileName)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.Getenv("HOME")
	}
	return filepath.Join(configDir, ServiceName, credentialsFileName)
}

func deriveKey() []byte {
	return pbkdf2.Key([]byte(machineIDFunc()), []byte(appSalt), kdfIterations, keyLen, sha256.New)
}

// load reads and decrypts the stored key-value map. Any failure past "file
// does not exist" still yields an empty map: availability over strictness.
func (f *FileStore) load() map[string]string {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return map[string]string{}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.KDF != kdfName {
		return map[string]string{}
	}

	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return map[string]string{}
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return map[string]string{}
	}

	block, err := aes.NewCipher(deriveKey())
	if err != nil {
		return map[string]string{}
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil || len(nonce) != gcm.NonceSize() {
		return map[string]string{}
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Wrong machine or corrupted file. Treat as empty.
		return map[string]string{}
	}

	var values map[string]string
	if err := json.Unmarshal(plaintext, &values); err != nil {
		return map[string]string{}
	}
	return values
}

func (f *FileStore) save(values map[string]string) error {
	plaintext, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	block, err := aes.NewCipher(deriveKey())
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	env := envelope{
		KDF:        kdfName,
		Salt:       base64.StdEncoding.EncodeToString([]byte(appSalt)),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, plaintext, nil)),
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	// Write-then-rename so a concurrent reader never sees a torn file.
	tmp, err := os.CreateTemp(dir, credentialsFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace credentials file: %w", err)
	}
	return nil
}

func (f *FileStore) Store(key, value string) error {
	values := f.load()
	values[key] = value
	return f.save(values)
}

func (f *FileStore) Retrieve(key string) (string, error) {
	values := f.load()
	value, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *FileStore) Delete(key string) error {
	values := f.load()
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	if len(values) == 0 {
		err := os.Remove(f.path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove credentials file: %w", err)
		}
		return nil
	}
	return f.save(values)
}
