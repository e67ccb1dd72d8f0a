package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Print a game in canonical PGN",
		Long: `Parse a game and print it again in canonical form: standard header order,
numbered variations and annotation glyphs written as $n.

Use "-" to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(rootOpts, cmd, args[0], write)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")

	return cmd
}

func runFmt(opts *RootOptions, cmd *cobra.Command, path string, write bool) error {
	game, err := opts.readGame(cmd, path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := game.WriteTo(&buf); err != nil {
		return err
	}
	buf.WriteByte('\n')

	if write && path != "-" {
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("cannot write %s", path), err)
		}
		opts.logger.Infow("game formatted", "path", path)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
