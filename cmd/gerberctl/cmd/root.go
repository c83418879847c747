package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pcbtools/rs274x/pkg/gerberlog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewRoot builds the gerberctl command tree.
func NewRoot(gitsha string) *cobra.Command {
	root := &cobra.Command{
		Use:   "gerberctl",
		Short: "a CLI to parse RS-274X Gerber files",
		Long:  "gerberctl parses RS-274X (Gerber) files into their object stream and reports the result",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel, _ := cmd.Flags().GetString("log-level")
			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
				level = slog.LevelInfo
			}

			var w io.Writer = os.Stderr
			if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
				w = &lumberjack.Logger{
					Filename:   logFile,
					MaxSize:    10, // megabytes
					MaxBackups: 3,
					MaxAge:     28, // days
					Compress:   true,
				}
			}

			jsonLogs, _ := cmd.Flags().GetBool("log-json")
			slog.SetDefault(gerberlog.Logger(w, jsonLogs, level))
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	root.AddCommand(
		NewVersionCmd(gitsha),
		NewParseCmd(),
	)
	pf := root.PersistentFlags()
	pf.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "path to a rotated log file (stderr if empty)")
	pf.Bool("log-json", false, "emit structured JSON logs instead of text")
	return root
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, sub := range cmd.Commands() {
		printCommandTree(sub, indent+1)
	}
}

// NewVersionCmd reports the build's git sha.
func NewVersionCmd(gitsha string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(gitsha)
		},
	}
}
