package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/slackteams/tokenstore/internal/credstore"
	"github.com/slackteams/tokenstore/internal/output"
)

// TokenStoreCmd implements token store
type TokenStoreCmd struct {
	Key   string  `arg:"" help:"Secret key (e.g. slack_workspace_abc_token)"`
	Value *string `arg:"" optional:"" help:"Secret value; read from stdin when omitted"`
}

// Run executes the store command
func (cmd *TokenStoreCmd) Run(sp *StoreProvider, fp *FormatterProvider, globals *Globals, streams *Streams, logger *zap.Logger) error {
	store, err := sp.Store()
	if err != nil {
		return err
	}

	value, err := cmd.value(globals, streams)
	if err != nil {
		return err
	}

	logger.Debug("store", zap.String("key", cmd.Key), zap.Int("bytes", len(value)))
	out := store.Store(cmd.Key, value)
	if err := printOutcome(fp, out); err != nil {
		return err
	}
	if cliErr := output.FromOutcome(out); cliErr != nil {
		return cliErr
	}

	if fp.Mode != "json" {
		fmt.Fprintf(streams.Err, "Stored %s in %s\n", cmd.Key, store.Service())
	}
	return nil
}

// value returns the argument, or reads the secret from stdin
func (cmd *TokenStoreCmd) value(globals *Globals, streams *Streams) (string, error) {
	if cmd.Value != nil {
		return *cmd.Value, nil
	}

	if isTerminal(streams.In) {
		if globals.NoInput {
			return "", output.NewCLIError(output.ExitUsage, "Secret value required").
				WithHint("Pass it as an argument or pipe it on stdin")
		}

		fmt.Fprintf(streams.Err, "Secret for %s: ", cmd.Key)
		data, err := term.ReadPassword(int(streams.In.(*os.File).Fd()))
		fmt.Fprintln(streams.Err)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(streams.In)
	if err != nil {
		return "", fmt.Errorf("failed to read secret from stdin: %w", err)
	}
	return trimNewline(string(data)), nil
}

// trimNewline drops the single line ending that echo and heredocs append
func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// TokenGetCmd implements token get
type TokenGetCmd struct {
	Key    string `arg:"" help:"Secret key"`
	Reveal bool   `help:"Show the full secret in rich output" short:"r"`
}

// Run executes the get command
func (cmd *TokenGetCmd) Run(sp *StoreProvider, fp *FormatterProvider, streams *Streams, logger *zap.Logger) error {
	store, err := sp.Store()
	if err != nil {
		return err
	}

	out := store.Get(cmd.Key)
	logger.Debug("get", zap.String("key", cmd.Key), zap.Bool("success", out.Success), zap.Bool("found", out.Found()))

	if fp.Mode == "json" {
		if err := fp.Formatter.Print(out); err != nil {
			return err
		}
	}
	if cliErr := output.FromOutcome(out); cliErr != nil {
		return cliErr
	}
	if fp.Mode == "json" {
		return nil
	}

	if !out.Found() {
		fmt.Fprintf(streams.Err, "No secret stored for %s\n", cmd.Key)
		return nil
	}

	value := *out.Value
	if fp.Mode == "rich" && !cmd.Reveal {
		value = maskSecret(value)
	}
	fmt.Fprintln(streams.Out, value)
	return nil
}

// TokenDeleteCmd implements token delete
type TokenDeleteCmd struct {
	Key string `arg:"" help:"Secret key"`
}

// Run executes the delete command
func (cmd *TokenDeleteCmd) Run(sp *StoreProvider, fp *FormatterProvider, globals *Globals, streams *Streams, logger *zap.Logger) error {
	store, err := sp.Store()
	if err != nil {
		return err
	}

	if !globals.Force && !globals.NoInput && isTerminal(streams.In) {
		if !confirm(streams, fmt.Sprintf("Delete %s from %s? [y/N]: ", cmd.Key, store.Service())) {
			fmt.Fprintln(streams.Err, "Aborted")
			return nil
		}
	}

	out := store.Delete(cmd.Key)
	logger.Debug("delete", zap.String("key", cmd.Key), zap.Bool("success", out.Success))

	if err := printOutcome(fp, out); err != nil {
		return err
	}
	if cliErr := output.FromOutcome(out); cliErr != nil {
		return cliErr
	}

	if fp.Mode != "json" {
		fmt.Fprintf(streams.Err, "Deleted %s\n", cmd.Key)
	}
	return nil
}

// printOutcome prints the outcome in JSON mode; other modes report on stderr
func printOutcome(fp *FormatterProvider, out credstore.Outcome) error {
	if fp.Mode != "json" {
		return nil
	}
	return fp.Formatter.Print(out)
}

// confirm prompts on stderr and reads a yes/no answer
func confirm(streams *Streams, question string) bool {
	fmt.Fprint(streams.Err, question)
	line, _ := bufio.NewReader(streams.In).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// maskSecret hides all but the last 4 characters of value
func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return "****"
	}
	return "****" + string(runes[len(runes)-4:])
}
