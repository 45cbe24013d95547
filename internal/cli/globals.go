package cli

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/slackteams/tokenstore/internal/config"
	"github.com/slackteams/tokenstore/internal/secrets"
)

// Globals holds global flags available to all commands
type Globals struct {
	Service    string `help:"Service namespace secrets are stored under" env:"TOKENSTORE_SERVICE"`
	Backend    string `help:"Vault backend" default:"" enum:"auto,system,keyring,file," env:"TOKENSTORE_BACKEND" predictor:"backend"`
	FileDir    string `help:"Directory for the encrypted file backend" name:"file-dir" type:"path" env:"TOKENSTORE_FILE_DIR"`
	ConfigFile string `help:"Config file to use instead of the XDG default" name:"config-file" type:"path" env:"TOKENSTORE_CONFIG"`
	Output     string `help:"Output format" default:"" enum:"json,plain,rich,auto," short:"o" env:"TOKENSTORE_OUTPUT" predictor:"output"`
	Verbose    bool   `help:"Verbose output" short:"v" env:"TOKENSTORE_VERBOSE"`
	NoInput    bool   `help:"Disable interactive prompts (fail instead)" env:"TOKENSTORE_NO_INPUT"`
	Force      bool   `help:"Skip confirmation prompts for destructive operations" env:"TOKENSTORE_FORCE"`
}

// Settings are the effective values after flag > env > config > default resolution
type Settings struct {
	Service  string
	Backend  string
	FileDir  string
	Password string
}

// Resolve merges flags with the config file
func (g *Globals) Resolve(cfg *config.Config) Settings {
	s := Settings{
		Service:  firstNonEmpty(g.Service, cfg.ServiceName, secrets.DefaultServiceName),
		Backend:  firstNonEmpty(g.Backend, cfg.Backend, config.DefaultBackend),
		FileDir:  config.ExpandHome(firstNonEmpty(g.FileDir, cfg.FileDir)),
		Password: os.Getenv("TOKENSTORE_STORE_PASSWORD"),
	}
	return s
}

// ResolvedOutput returns the effective output mode.
// "auto" detects TTY: if stdout is TTY -> rich, else -> plain
func (g *Globals) ResolvedOutput(configured string, out io.Writer) string {
	mode := firstNonEmpty(g.Output, configured, "auto")
	if mode != "auto" {
		return mode
	}

	if isTerminal(out) {
		return "rich"
	}
	return "plain"
}

func isTerminal(s any) bool {
	f, ok := s.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
