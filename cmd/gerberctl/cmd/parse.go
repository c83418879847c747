package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/pcbtools/rs274x/pkg/gerber"
	"github.com/spf13/cobra"
)

// NewParseCmd parses a single Gerber file and prints a summary of the
// resulting object stream.
func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "parse a Gerber file and report its object stream",
		Long:  "parse a Gerber file (or - for stdin) and print a one-line summary of each graphical object produced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.NewString()
			logger := slog.Default().With("run_id", runID)

			path := args[0]
			in := os.Stdin
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				defer f.Close()
				in = f
			}

			p := gerber.NewParser(gerber.WithLogger(logger))
			objs, err := p.Parse(in)
			if err != nil {
				logger.Error("parse failed", "error", err)
				return err
			}
			logger.Info("parse complete", "objects", len(objs))
			for i, o := range objs {
				fmt.Printf("%d: %T\n", i, o)
			}
			return nil
		},
	}
	return cmd
}
