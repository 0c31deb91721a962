package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/coh2-tools/coh2-live/internal/config"
	"github.com/spf13/cobra"
)

// sampleRoster is a plausible 2v2 in the exact shape the game writes. Relic
// IDs are fake, so the stats API returns empty results and every player falls
// back to estimated ranks.
var sampleRoster = []string{
	"00:00:21.71   GAME -- Human Player: 0 Birdman 90000001 0 german",
	"00:00:21.71   GAME -- Human Player: 1 Professor 90000002 0 west_german",
	"00:00:21.71   GAME -- Human Player: 2 Saucy 90000003 1 soviet",
	"00:00:21.71   GAME -- Human Player: 3 Dingo 90000004 1 aef",
}

const samplePlayingLine = "00:00:27.90   Party::SetStatus - S_PLAYING"

func simulateCmd() *cobra.Command {
	var (
		logfilePath string
		delay       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Append a fake match to a game log for testing",
		Long:  "Appends a 2v2 roster and a playing marker to the log file so the watcher can be exercised without running the game",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if logfilePath == "" {
				loader := config.NewLoader(nil)
				userConfig, errConfig := loader.Read()
				if errConfig != nil {
					return errors.Join(errConfig, errApp)
				}
				logfilePath = userConfig.LogfilePath
			}

			return simulate(logfilePath, delay)
		},
	}

	cmd.Flags().StringVar(&logfilePath, "logfile", "", "Log file to append to (defaults to the configured path)")
	cmd.Flags().DurationVar(&delay, "delay", 2*time.Second, "Delay between the roster and the playing marker")

	return cmd
}

func simulate(logfilePath string, delay time.Duration) error {
	file, errOpen := os.OpenFile(logfilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if errOpen != nil {
		return errors.Join(errOpen, errApp)
	}
	defer file.Close()

	for _, line := range sampleRoster {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return errors.Join(err, errApp)
		}
	}

	fmt.Printf("Wrote %d roster lines to %s\n", len(sampleRoster), logfilePath) //nolint:forbidigo
	time.Sleep(delay)

	if _, err := fmt.Fprintln(file, samplePlayingLine); err != nil {
		return errors.Join(err, errApp)
	}

	fmt.Println("Wrote playing marker") //nolint:forbidigo

	return nil
}
