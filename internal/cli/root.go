package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corentings/movetree"
	"github.com/corentings/movetree/i18n"
	"github.com/corentings/movetree/internal/config"
)

// RootOptions holds global flags and the state built from them before a
// command runs.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	cfg    *config.Config
	logger *zap.SugaredLogger
}

// NewRootCommand creates the root command of the movetree CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "movetree",
		Short: "Inspect and normalize annotated chess games",
		Long: `movetree reads games in Portable Game Notation with nested variations,
comments and annotation glyphs, checks them and writes them back in canonical form.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Setup(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to setup configuration", err)
			}
			logger, err := NewLogger(opts.Verbose)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to initialize logger", err)
			}
			opts.cfg, opts.logger = cfg, logger
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewFmtCommand(opts))
	cmd.AddCommand(NewMovesCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// NewLogger builds the CLI logger; verbose output uses the development
// configuration.
func NewLogger(verbose bool) (*zap.SugaredLogger, error) {
	build := zap.NewProduction
	if verbose {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// gameOptions turns the configuration into parser options.
func (o *RootOptions) gameOptions() []func(*movetree.Game) {
	options := []func(*movetree.Game){
		movetree.WithLogger(o.logger.Desugar()),
		movetree.WithMaxVariationDepth(o.cfg.MaxVariationDepth),
	}
	if o.cfg.StartFEN != "" {
		options = append(options, movetree.WithStartingPosition(o.cfg.StartFEN))
	}
	return options
}

// gate returns a gate over the configured locale bundles.
func (o *RootOptions) gate() *i18n.Gate {
	loader := i18n.Builtin()
	if o.cfg.LocalesDir != "" {
		loader = i18n.FSLoader(os.DirFS(o.cfg.LocalesDir), "{{lng}}.yaml")
	}
	return i18n.NewGate(loader, i18n.WithLogger(o.logger.Desugar()))
}

// readGame parses the file at path, or standard input for "-".
func (o *RootOptions) readGame(cmd *cobra.Command, path string) (*movetree.Game, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "cannot open game", err)
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot read game", err)
	}
	game, err := movetree.Parse(string(raw), o.gameOptions()...)
	if err != nil {
		return game, WrapExitError(ExitFailure, fmt.Sprintf("%s: invalid game", path), err)
	}
	o.logger.Debugw("game read", "path", path, "id", game.ID(), "moves", len(game.GetMoves()))
	return game, nil
}
