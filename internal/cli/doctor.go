package cli

import (
	"runtime"
	"strconv"

	"go.uber.org/zap"

	"github.com/slackteams/tokenstore/internal/config"
	"github.com/slackteams/tokenstore/internal/output"
	"github.com/slackteams/tokenstore/internal/secrets"
)

// probeKey is read (never written) to check the vault answers
const probeKey = "__tokenstore_probe__"

// DoctorCmd reports how secrets would be stored on this machine
type DoctorCmd struct{}

type check struct {
	Check  string `json:"check"`
	Result string `json:"result"`
}

// Run executes the doctor command
func (cmd *DoctorCmd) Run(cfg *config.Config, sp *StoreProvider, fp *FormatterProvider, logger *zap.Logger) error {
	settings := sp.Settings()
	checks := []check{
		{Check: "Platform", Result: runtime.GOOS + "/" + runtime.GOARCH},
		{Check: "WSL", Result: strconv.FormatBool(secrets.IsWSL())},
		{Check: "Headless", Result: strconv.FormatBool(secrets.IsHeadless())},
		{Check: "Config", Result: cfg.Path()},
		{Check: "Service", Result: settings.Service},
		{Check: "Requested backend", Result: settings.Backend},
	}

	store, err := sp.Store()
	if err != nil {
		checks = append(checks, check{Check: "Vault", Result: err.Error()})
		_ = fp.Formatter.PrintList(checks, checkColumns)
		return err
	}

	sel := sp.Selection()
	checks = append(checks, check{Check: "Resolved backend", Result: sel.Backend})
	if sel.Fallback != nil {
		checks = append(checks, check{Check: "Fallback reason", Result: sel.Fallback.Error()})
	}
	if sel.Backend == secrets.BackendFile {
		dir := settings.FileDir
		if dir == "" {
			dir = secrets.DataDir()
		}
		checks = append(checks, check{Check: "File directory", Result: dir})
	}

	probe := store.Get(probeKey)
	logger.Debug("probe", zap.Bool("success", probe.Success), zap.Stringer("kind", probe.Kind))

	result := "ok"
	if !probe.Success {
		result = *probe.Error
	}
	checks = append(checks, check{Check: "Vault read", Result: result})

	if err := fp.Formatter.PrintList(checks, checkColumns); err != nil {
		return err
	}

	if cliErr := output.FromOutcome(probe); cliErr != nil {
		return cliErr
	}
	return nil
}

var checkColumns = []output.Column{
	{Name: "Check", Key: "Check"},
	{Name: "Result", Key: "Result", Width: 80},
}
