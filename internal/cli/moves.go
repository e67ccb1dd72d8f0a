package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corentings/movetree"
	"github.com/corentings/movetree/i18n"
)

// NewMovesCommand creates the moves command.
func NewMovesCommand(rootOpts *RootOptions) *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "moves <file>",
		Short: "List the moves of a game with localized notation",
		Long: `List every move in written order, indented by variation depth, with piece
letters and annotation names of the chosen locale.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoves(rootOpts, cmd, args[0], locale)
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "locale for piece letters and glyph names (default from config)")

	return cmd
}

func runMoves(opts *RootOptions, cmd *cobra.Command, path, locale string) error {
	game, err := opts.readGame(cmd, path)
	if err != nil {
		return err
	}
	if locale == "" {
		locale = opts.cfg.Locale
	}

	lines := i18n.Schedule(opts.gate(), locale, func(b *i18n.Bundle) []string {
		var lines []string
		for _, m := range game.GetOrderedMoves() {
			lines = append(lines, describeMove(game, b, m))
		}
		return lines
	}).Wait()

	out := cmd.OutOrStdout()
	if c := game.Comment(); c != "" {
		fmt.Fprintf(out, "{%s}\n", c)
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}

// describeMove renders one move as "  12... Sf6 [interesting move] {text}".
func describeMove(game *movetree.Game, b *i18n.Bundle, m movetree.Move) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", game.VariationLevel(m.Index())))
	if m.Turn() == movetree.White {
		fmt.Fprintf(&sb, "%d. ", m.MoveNumber())
	} else {
		fmt.Fprintf(&sb, "%d... ", m.MoveNumber())
	}
	sb.WriteString(b.SAN(m.Notation()))

	if nags := m.NAGs(); len(nags) > 0 {
		names := make([]string, len(nags))
		for i, code := range nags {
			names[i] = b.NAGName(code)
		}
		fmt.Fprintf(&sb, " [%s]", strings.Join(names, ", "))
	}
	for _, c := range []string{m.CommentMove(), m.CommentBefore(), m.CommentAfter()} {
		if c != "" {
			fmt.Fprintf(&sb, " {%s}", c)
		}
	}
	return sb.String()
}
