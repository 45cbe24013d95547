package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"
	"go.uber.org/zap"

	"github.com/slackteams/tokenstore/internal/config"
	"github.com/slackteams/tokenstore/internal/output"
	"github.com/slackteams/tokenstore/internal/secrets"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
	Mode      string
}

// Streams are the process's standard streams, replaceable in tests
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the os standard streams
func StdStreams() *Streams {
	return &Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// CLI is the root command structure
type CLI struct {
	Globals

	Token      TokenCmd                     `cmd:"" help:"Store, read and delete secrets"`
	Invoke     InvokeCmd                    `cmd:"" help:"Serve store_token/get_token/delete_token requests as JSON lines on stdin"`
	Config     ConfigCmd                    `cmd:"" help:"Configuration commands"`
	Doctor     DoctorCmd                    `cmd:"" help:"Diagnose the secret storage environment"`
	Schema     SchemaCmd                    `cmd:"" help:"Print the command tree as JSON"`
	Completion kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
	Version    VersionCmd                   `cmd:"" help:"Show version information"`

	streams *Streams
	open    func(secrets.Options) (*secrets.Selection, error)
	mode    string
}

// OutputMode returns the output mode resolved from flags and config.
// Before AfterApply has run only the --output flag is known.
func (c *CLI) OutputMode() string {
	if c.mode != "" {
		return c.mode
	}
	if c.Output == "json" {
		return "json"
	}
	return "plain"
}

// NewParser builds the kong parser for c, with shell completion predictors registered
func NewParser(c *CLI, version string, opts ...kong.Option) (*kong.Kong, error) {
	if c.streams == nil {
		c.streams = StdStreams()
	}

	opts = append([]kong.Option{
		kong.Name("tokenstore"),
		kong.Description("Keep API tokens in the OS credential store"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(c.streams.Out, c.streams.Err),
		kong.Vars{
			"version": version,
		},
	}, opts...)

	parser, err := kong.New(c, opts...)
	if err != nil {
		return nil, err
	}

	kongplete.Complete(parser,
		kongplete.WithPredictor("backend", complete.PredictSet(config.ValidBackends()...)),
		kongplete.WithPredictor("output", complete.PredictSet("json", "plain", "rich", "auto")),
		kongplete.WithPredictor("config-key", complete.PredictSet(config.Keys()...)),
	)

	return parser, nil
}

// AfterApply runs once flags are parsed and before the command executes.
// It loads config, resolves settings, and binds dependencies.
func (c *CLI) AfterApply(ctx *kong.Context) error {
	if c.streams == nil {
		c.streams = StdStreams()
	}

	path := c.ConfigFile
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return &output.CLIError{
			Message:  err.Error(),
			ExitCode: output.ExitConfigError,
			Hint:     fmt.Sprintf("Fix or remove %s", path),
		}
	}

	settings := c.Resolve(cfg)
	mode := c.ResolvedOutput(cfg.DefaultOutput, c.streams.Out)
	c.mode = mode
	logger := newLogger(c.Verbose, c.streams.Err)

	logger.Debug("settings resolved",
		zap.String("config", cfg.Path()),
		zap.String("service", settings.Service),
		zap.String("backend", settings.Backend),
		zap.String("output", mode),
	)

	formatter := &FormatterProvider{
		Formatter: output.NewTo(mode, c.streams.Out, c.streams.Err),
		Mode:      mode,
	}

	ctx.Bind(cfg)
	ctx.Bind(formatter)
	ctx.Bind(&c.Globals)
	ctx.Bind(c.streams)
	ctx.Bind(logger)
	ctx.Bind(NewStoreProvider(settings, c.streams.Err, logger, c.open))

	return nil
}

// TokenCmd holds secret subcommands
type TokenCmd struct {
	Store  TokenStoreCmd  `cmd:"" aliases:"set" help:"Store a secret (value from argument or stdin)"`
	Get    TokenGetCmd    `cmd:"" help:"Read a secret"`
	Delete TokenDeleteCmd `cmd:"" aliases:"rm" help:"Delete a secret"`
}

// ConfigCmd holds configuration subcommands
type ConfigCmd struct {
	Get   ConfigGetCmd        `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd        `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd      `cmd:"" help:"Remove a configuration value"`
	List  ConfigListConfigCmd `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd       `cmd:"" help:"Show config file path"`
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context, streams *Streams) error {
	version := ctx.Model.Vars()["version"]
	fmt.Fprintln(streams.Out, "tokenstore version "+version)
	return nil
}
