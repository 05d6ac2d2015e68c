package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edmistond/podcastdl/internal/feed"
	"github.com/edmistond/podcastdl/internal/history"
	"github.com/edmistond/podcastdl/internal/utils"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List feed episodes",
	Long:  `List the episodes of the configured feed without starting the TUI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeGlobalState(); err != nil {
			return err
		}

		settings := loadSettings(cmd)
		f, err := feed.ParseFile(settings.FeedPath)
		if err != nil {
			return fmt.Errorf("could not read feed %s: %w", settings.FeedPath, err)
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		printEpisodes(f, jsonOutput)
		return nil
	},
}

type episodeListing struct {
	Index      int    `json:"index"`
	Title      string `json:"title"`
	Published  string `json:"published"`
	URL        string `json:"url,omitempty"`
	Downloaded bool   `json:"downloaded"`
}

func printEpisodes(f *feed.Feed, jsonOutput bool) {
	downloaded, err := history.URLSet()
	if err != nil {
		utils.Debug("loading history URL set: %v", err)
		downloaded = make(map[string]bool)
	}

	listings := make([]episodeListing, 0, len(f.Episodes))
	for i, ep := range f.Episodes {
		l := episodeListing{
			Index:     i,
			Title:     ep.DisplayTitle(),
			Published: ep.DisplayDate(),
		}
		if url, ok := ep.DownloadURL(); ok {
			l.URL = url
			l.Downloaded = downloaded[url]
		}
		listings = append(listings, l)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(listings, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(listings) == 0 {
		fmt.Println("No episodes found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTITLE\tPUBLISHED\t")
	for _, l := range listings {
		mark := " "
		if l.Downloaded {
			mark = "✓"
		}

		title := l.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", l.Index, title, l.Published, mark)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().Bool("json", false, "Output in JSON format")
}
