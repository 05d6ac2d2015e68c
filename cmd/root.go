package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/edmistond/podcastdl/internal/config"
	"github.com/edmistond/podcastdl/internal/download"
	"github.com/edmistond/podcastdl/internal/feed"
	"github.com/edmistond/podcastdl/internal/history"
	"github.com/edmistond/podcastdl/internal/tui"
	"github.com/edmistond/podcastdl/internal/utils"
)

// Version information - set via ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// keptLogFiles bounds how many debug logs survive a startup sweep.
const keptLogFiles = 5

var rootCmd = &cobra.Command{
	Use:     "podcastdl",
	Short:   "A terminal podcast episode downloader",
	Long: `podcastdl browses a podcast RSS feed in the terminal and downloads
selected episodes, with progress shown while the list stays responsive.`,
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeGlobalState(); err != nil {
			return err
		}

		isMaster, err := AcquireLock()
		if err != nil {
			return fmt.Errorf("error acquiring lock: %w", err)
		}
		if !isMaster {
			fmt.Fprintln(os.Stderr, "Error: podcastdl is already running.")
			os.Exit(1)
		}
		defer ReleaseLock()

		settings := loadSettings(cmd)

		f, err := feed.ParseFile(settings.FeedPath)
		if err != nil {
			return fmt.Errorf("could not read feed %s: %w", settings.FeedPath, err)
		}

		ctrl := newController(settings.OutputDir)
		return startTUI(f, ctrl, settings)
	},
}

// loadSettings merges the settings file with command-line flags. Flags
// win when set.
func loadSettings(cmd *cobra.Command) config.Settings {
	settings, err := config.LoadSettings()
	if err != nil {
		utils.Debug("loading settings: %v", err)
	}
	if cmd.Flags().Changed("feed") {
		settings.FeedPath, _ = cmd.Flags().GetString("feed")
	}
	if cmd.Flags().Changed("output") {
		settings.OutputDir, _ = cmd.Flags().GetString("output")
	}
	return settings
}

// newController builds the download controller and wires completed
// sessions into the history database.
func newController(outputDir string) *download.Controller {
	ctrl := download.NewController(download.NewHTTPTransferer(), outputDir)
	ctrl.OnCompleted(func(filename, url, title string, total int64) {
		err := history.Add(history.Entry{
			URL:       url,
			Filename:  filename,
			Title:     title,
			TotalSize: total,
		})
		if err != nil {
			utils.Debug("recording download in history: %v", err)
		}
	})
	return ctrl
}

// startTUI runs the interactive episode list until the user quits.
func startTUI(f *feed.Feed, ctrl *download.Controller, settings config.Settings) error {
	m := tui.NewModel(f, ctrl, settings.PollInterval())

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("feed", "f", "", "path to the RSS feed file")
	rootCmd.PersistentFlags().StringP("output", "o", "", "directory to save episodes into")
	rootCmd.SetVersionTemplate("podcastdl version {{.Version}}\n")
}

// initializeGlobalState sets up the config directories and configures
// the history database and logging.
func initializeGlobalState() error {
	if err := config.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to ensure config dirs: %w", err)
	}

	history.Configure(filepath.Join(config.GetStateDir(), "podcastdl.db"))

	utils.ConfigureDebug(config.GetLogsDir())
	utils.CleanupLogs(keptLogFiles)
	return nil
}
