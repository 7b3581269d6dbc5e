// Command tracefiled drives the race-detection core from a stream of
// newline-delimited JSON events — a stand-in for the real interception
// mechanism (kernel hook, ptrace, seccomp-notify, ...), which is out of
// scope for this repo.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tracefiled.dev/tracefiled/linux"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		input    string
		logLevel string
		liveFlag bool
	)

	cmd := &cobra.Command{
		Use:   "tracefiled",
		Short: "Replay a syscall event feed through the TOCTTOU race-detection core",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("parsing log level: %w", err)
			}
			logger.SetLevel(level)
			logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

			r := os.Stdin
			if input != "-" && input != "" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("opening event feed: %w", err)
				}
				defer f.Close()
				r = f
			}

			stat := fromFeed
			if liveFlag {
				stat = liveStat(linux.Native())
			}
			return run(r, logger, stat)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "path to a newline-delimited JSON event feed ('-' for stdin)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "logrus level: trace, debug, info, warn, error")
	cmd.Flags().BoolVar(&liveFlag, "live-stat", false, "re-stat path+filename through the kernel instead of trusting the feed's stat field")

	return cmd
}
