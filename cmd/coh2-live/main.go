package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/coh2-tools/coh2-live/internal/config"
	"github.com/coh2-tools/coh2-live/internal/logfile"
	"github.com/coh2-tools/coh2-live/internal/pipeline"
	"github.com/coh2-tools/coh2-live/internal/relic"
	"github.com/coh2-tools/coh2-live/internal/ui"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	BuildVersion   = "master"
	BuildCommit    = "00000000"
	BuildDate      = time.Now().Format("2006-01-02T15:04:05Z")
	BuildGoVersion = runtime.Version()

	rootCmd = &cobra.Command{
		Use:   "coh2-live",
		Short: "Company of Heroes 2 live match companion",
		Long:  `coh2-live - Watches the game log and shows leaderboard stats for the players in your current match`,
		RunE:  run,
	}

	versionCmd = &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		Run:               version,
	}

	boardsCmd = &cobra.Command{
		Use:   "leaderboards",
		Short: "List the leaderboards the stats API knows about",
		Args:  cobra.NoArgs,
		RunE:  leaderboards,
	}
)

var errApp = errors.New("application error")

func main() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(boardsCmd)
	rootCmd.AddCommand(simulateCmd())

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		slog.Error("Exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func version(_ *cobra.Command, _ []string) {
	fmt.Printf("coh2-live - CoH2 live match companion\n\n") //nolint:forbidigo
	fmt.Printf("  Version: %s\n", BuildVersion)             //nolint:forbidigo
	fmt.Printf("  Commit:  %s\n", BuildCommit)              //nolint:forbidigo
	fmt.Printf("  Built:   %s\n", BuildDate)                //nolint:forbidigo
	fmt.Printf("  Runtime: %s\n\n", BuildGoVersion)         //nolint:forbidigo
}

func leaderboards(cmd *cobra.Command, _ []string) error {
	loader := config.NewLoader(nil)
	userConfig, errConfig := loader.Read()
	if errConfig != nil {
		return errors.Join(errConfig, errApp)
	}

	client := relic.NewClient(userConfig.APIBaseURL, userConfig.RequestTimeout())
	defer client.Close()

	boards, errBoards := client.AvailableLeaderboards(cmd.Context())
	if errBoards != nil {
		return errors.Join(errBoards, errApp)
	}

	for _, board := range boards {
		fmt.Printf("%4d  %s\n", board.ID, board.Name) //nolint:forbidigo
	}

	return nil
}

// run is the main entry point of coh2-live.
func run(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(nil)
	userConfig, errConfig := loader.Read()
	if errConfig != nil {
		return errors.Join(errConfig, errApp)
	}

	// File based logger so the console stays free for the match table.
	logFile, errLogger := config.LoggerInit(config.DefaultLogName, slog.LevelDebug)
	if errLogger != nil {
		return errors.Join(errLogger, errApp)
	}

	defer func(closer io.Closer) {
		if err := closer.Close(); err != nil {
			slog.Error("Failed to close log file", slog.String("error", err.Error()))
		}
	}(logFile)

	slog.Info("Starting coh2-live", slog.String("version", BuildVersion),
		slog.String("commit", BuildCommit), slog.String("date", BuildDate),
		slog.String("go", runtime.Version()))

	client := relic.NewClient(userConfig.APIBaseURL, userConfig.RequestTimeout())

	if errInit := client.InitLeaderboards(ctx); errInit != nil {
		// Ranks still render without populations, just without the midpoint
		// fallback for unranked players.
		slog.Warn("Failed to warm leaderboard populations", slog.String("error", errInit.Error()))
	}

	queue := pipeline.NewQueue[logfile.LogInfo]()

	watcher, errWatcher := logfile.New(userConfig.LogfilePath, queue)
	if errWatcher != nil {
		return errors.Join(errWatcher, errApp)
	}

	output := ui.New(os.Stdout, userConfig.NotifyOnMatch)
	pipe := pipeline.New(queue, client, output)

	fmt.Printf("Watching %s\n", userConfig.LogfilePath) //nolint:forbidigo

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return watcher.Start(groupCtx)
	})
	group.Go(func() error {
		return pipe.Run(groupCtx)
	})

	errRun := group.Wait()

	// The client closes only after both workers are done with it.
	client.Close()

	if errRun != nil && !errors.Is(errRun, context.Canceled) {
		return errors.Join(errRun, errApp)
	}

	return nil
}
