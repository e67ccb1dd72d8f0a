package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corentings/movetree"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a game and print a summary",
		Long: `Parse a game, verify its move tree and print the header summary together
with move and variation counts. The exit code is 1 when the game is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd, args[0])
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()

	game, err := opts.readGame(cmd, path)
	if err != nil {
		var perr *movetree.ParseError
		if errors.As(err, &perr) {
			fmt.Fprintf(out, "%s:%d:%d: %s\n", path, perr.Line, perr.Column, perr.Message)
		}
		return err
	}
	if err := game.Validate(); err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("%s: corrupt move tree", path), err)
	}

	moves, variations, depth := 0, 0, 0
	for _, m := range game.GetOrderedMoves() {
		moves++
		if game.StartVariation(m.Index()) {
			variations++
		}
		depth = max(depth, game.VariationLevel(m.Index()))
	}

	fmt.Fprintln(out, game.Summary())
	fmt.Fprintf(out, "%d moves, %d variations, depth %d\n", moves, variations, depth)
	return nil
}
