package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

// Backend names accepted by Open
const (
	BackendAuto    = "auto"
	BackendSystem  = "system"
	BackendKeyring = "keyring"
	BackendFile    = "file"
)

// DataDir returns the XDG data directory used for file-backed secrets.
// Typically ~/.local/share/tokenstore/ on Linux.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "tokenstore")
}

// Options selects and configures a vault backend
type Options struct {
	Backend  string // auto, system, keyring or file
	Service  string // namespace probed when Backend is auto
	FileDir  string
	Password string
	Stderr   io.Writer // warnings; defaults to os.Stderr
}

// Selection is the result of Open
type Selection struct {
	Vault    Vault
	Backend  string // concrete backend that was chosen
	Fallback error  // why auto fell back to the file backend, if it did
}

func warningMarkerPath() string {
	return filepath.Join(DataDir(), ".file-store-warning-shown")
}

// quietMode returns true if the user has suppressed warnings via TOKENSTORE_QUIET
func quietMode() bool {
	return os.Getenv("TOKENSTORE_QUIET") == "1" || os.Getenv("TOKENSTORE_QUIET") == "true"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// warnOnce returns a writer func that prints each message only until the
// marker file exists. Set TOKENSTORE_QUIET=1 to suppress entirely.
func warnOnce(w io.Writer) func(string) {
	return func(msg string) {
		if quietMode() || fileExists(warningMarkerPath()) {
			return
		}
		fmt.Fprintln(w, msg)
	}
}

// markWarningsDone persists the marker so future commands stay quiet
func markWarningsDone() {
	if fileExists(warningMarkerPath()) {
		return
	}
	if err := os.MkdirAll(DataDir(), 0700); err != nil {
		return
	}
	_ = os.WriteFile(warningMarkerPath(), []byte("1"), 0600)
}

// Open creates a vault for the requested backend.
// "auto" uses the encrypted file on WSL and headless Linux, otherwise the
// OS keyring, and falls back to the file if the keyring cannot be opened.
func Open(opts Options) (*Selection, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	warn := warnOnce(stderr)

	fileVault := func() *FileVault {
		return NewFileVault(FileOptions{
			Dir:      opts.FileDir,
			Password: opts.Password,
			Warn:     warn,
		})
	}
	keyringVault := func() *KeyringVault {
		return NewKeyringVault(KeyringOptions{Password: opts.Password})
	}

	switch opts.Backend {
	case BackendSystem:
		return &Selection{Vault: NewSystemVault(), Backend: BackendSystem}, nil
	case BackendKeyring:
		return &Selection{Vault: keyringVault(), Backend: BackendKeyring}, nil
	case BackendFile:
		return &Selection{Vault: fileVault(), Backend: BackendFile}, nil
	case BackendAuto, "":
	default:
		return nil, fmt.Errorf("unknown backend: %s", opts.Backend)
	}

	// WSL and headless environments can't use keyring reliably
	if IsWSL() || IsHeadless() {
		warn("Detected WSL/headless environment, using encrypted file storage")
		v := fileVault()
		markWarningsDone()
		return &Selection{Vault: v, Backend: BackendFile}, nil
	}

	service := opts.Service
	if service == "" {
		service = DefaultServiceName
	}

	kv := keyringVault()
	if err := kv.Probe(service); err != nil {
		warn(fmt.Sprintf("Keyring unavailable (%v), falling back to encrypted file", err))
		v := fileVault()
		markWarningsDone()
		return &Selection{Vault: v, Backend: BackendFile, Fallback: err}, nil
	}

	return &Selection{Vault: kv, Backend: BackendKeyring}, nil
}

// IsWSL returns true if running under Windows Subsystem for Linux
func IsWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}

	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// IsHeadless returns true if running in a headless environment (no display server).
// Only applicable on Linux; macOS and Windows are assumed to have GUI.
func IsHeadless() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}
