package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/flock"
	"golang.org/x/crypto/scrypt"
)

const (
	saltSize = 16

	// scrypt parameters recommended for interactive logins
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var errLocked = errors.New("credentials file is locked")

// FileOptions configures a FileVault
type FileOptions struct {
	// Dir holds one encrypted file per service. Defaults to DataDir().
	Dir string
	// Password derives the encryption key. Empty means a machine-specific default.
	Password string
	// LockTimeout bounds how long an operation waits for the file lock.
	LockTimeout time.Duration
	// Warn receives security warnings (nil = discard).
	Warn func(msg string)
}

// FileVault implements Vault using AES-256-GCM encrypted files.
// This is a fallback for environments where the OS keyring is unavailable (WSL, headless, Docker).
type FileVault struct {
	dir         string
	password    []byte
	lockTimeout time.Duration
}

// NewFileVault creates a file-backed vault
func NewFileVault(opts FileOptions) *FileVault {
	dir := opts.Dir
	if dir == "" {
		dir = DataDir()
	}

	password := opts.Password
	if password == "" {
		password = machinePassword()
		if opts.Warn != nil {
			opts.Warn("WARNING: Using machine-specific encryption key. For better security, set a password via TOKENSTORE_STORE_PASSWORD env var.")
		}
	}

	timeout := opts.LockTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &FileVault{
		dir:         dir,
		password:    []byte(password),
		lockTimeout: timeout,
	}
}

// machinePassword is less secure than a user-provided password
func machinePassword() string {
	hostname, _ := os.Hostname()
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME") // Windows fallback
	}
	return fmt.Sprintf("%s@%s", username, hostname)
}

// Entry returns a handle for key inside the service's credentials file
func (v *FileVault) Entry(service, key string) (Entry, error) {
	if service == "" {
		return nil, ErrNoService
	}

	if err := os.MkdirAll(v.dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	path := filepath.Join(v.dir, url.PathEscape(service)+".enc")
	return &fileEntry{vault: v, path: path, key: key}, nil
}

// fileContents is the decrypted form of a credentials file
type fileContents struct {
	salt  []byte
	items map[string]string
}

func (v *FileVault) deriveKey(salt []byte) ([]byte, error) {
	key, err := scrypt.Key(v.password, salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// read decrypts and parses a credentials file.
// A missing or empty file yields an empty set with a fresh salt.
func (v *FileVault) read(path string) (*fileContents, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	if len(data) == 0 {
		salt := make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
		return &fileContents{salt: salt, items: make(map[string]string)}, nil
	}

	if len(data) < saltSize {
		return nil, fmt.Errorf("credentials file is truncated")
	}
	salt, ciphertext := data[:saltSize], data[saltSize:]

	key, err := v.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	items := make(map[string]string)
	if err := json.Unmarshal(plaintext, &items); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	return &fileContents{salt: salt, items: items}, nil
}

// write encrypts the credential set and atomically replaces the file
func (v *FileVault) write(path string, contents *fileContents) error {
	plaintext, err := json.Marshal(contents.items)
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}

	key, err := v.deriveKey(contents.salt)
	if err != nil {
		return err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, contents.salt...)
	out = gcm.Seal(append(out, nonce...), nonce, plaintext, nil)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// withLock runs fn while holding the file's advisory lock.
// Readers share the lock; writers hold it exclusively.
func (v *FileVault) withLock(path string, shared bool, fn func() error) error {
	lock := flock.New(path + ".lock")

	try := lock.TryLock
	if shared {
		try = lock.TryRLock
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxInterval = time.Second
	policy.MaxElapsedTime = v.lockTimeout

	err := backoff.Retry(func() error {
		locked, err := try()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !locked {
			return errLocked
		}
		return nil
	}, policy)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer lock.Unlock()

	return fn()
}

type fileEntry struct {
	vault *FileVault
	path  string
	key   string
}

func (e *fileEntry) Get() (string, error) {
	var value string
	err := e.vault.withLock(e.path, true, func() error {
		contents, err := e.vault.read(e.path)
		if err != nil {
			return err
		}

		v, ok := contents.items[e.key]
		if !ok {
			return ErrNotFound
		}
		value = v
		return nil
	})
	return value, err
}

func (e *fileEntry) Set(value string) error {
	return e.vault.withLock(e.path, false, func() error {
		contents, err := e.vault.read(e.path)
		if err != nil {
			return err
		}

		contents.items[e.key] = value
		return e.vault.write(e.path, contents)
	})
}

func (e *fileEntry) Delete() error {
	return e.vault.withLock(e.path, false, func() error {
		contents, err := e.vault.read(e.path)
		if err != nil {
			return err
		}

		if _, ok := contents.items[e.key]; !ok {
			return ErrNotFound
		}

		delete(contents.items, e.key)
		return e.vault.write(e.path, contents)
	})
}
