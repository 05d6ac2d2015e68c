package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/edmistond/podcastdl/internal/download"
	"github.com/edmistond/podcastdl/internal/feed"
)

var getCmd = &cobra.Command{
	Use:   "get <index>",
	Short: "Download an episode without the TUI",
	Long: `Download a single episode by its index in the feed (see 'podcastdl ls').

Progress is printed to the console. Ctrl+C cancels the download and
removes the partial file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeGlobalState(); err != nil {
			return err
		}

		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid episode index %q", args[0])
		}

		settings := loadSettings(cmd)
		f, err := feed.ParseFile(settings.FeedPath)
		if err != nil {
			return fmt.Errorf("could not read feed %s: %w", settings.FeedPath, err)
		}

		if index < 0 || index >= len(f.Episodes) {
			return fmt.Errorf("episode index %d out of range (feed has %d episodes)", index, len(f.Episodes))
		}

		ctrl := newController(settings.OutputDir)
		return runHeadless(ctrl, f.Episodes[index], index, settings.PollInterval())
	},
}

// runHeadless drives one download session, printing progress until it
// settles. An interrupt signal cancels the session instead of killing
// the process so the partial file gets cleaned up.
func runHeadless(ctrl *download.Controller, ep feed.Episode, index int, pollInterval time.Duration) error {
	if err := ctrl.Start(ep, index); err != nil {
		return err
	}
	fmt.Println(ctrl.Status())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for ctrl.Active() {
		select {
		case <-sigChan:
			fmt.Println("\nCancelling...")
			ctrl.Cancel()
		case <-ticker.C:
			ctrl.PollTick()
			printProgress(ctrl)
		}
	}

	fmt.Printf("\r\033[K%s\n", ctrl.Status())

	switch ctrl.State() {
	case download.StateCompleted:
		return nil
	case download.StateCancelled:
		os.Exit(130)
		return nil
	default:
		os.Exit(1)
		return nil
	}
}

func printProgress(ctrl *download.Controller) {
	if !ctrl.Active() {
		return
	}
	current, total, percent, known := ctrl.Progress()
	if known {
		fmt.Printf("\r\033[K%3d%%  %s / %s", percent,
			humanize.Bytes(uint64(current)), humanize.Bytes(uint64(total)))
	} else {
		fmt.Printf("\r\033[K%s downloaded", humanize.Bytes(uint64(current)))
	}
}

func init() {
	rootCmd.AddCommand(getCmd)
}
