package command

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Naicocircus/blog-tech/internal/client"
	"github.com/Naicocircus/blog-tech/internal/store"
)

// share.go = share commands. The share link is printed before the
// tracking call is made; a tracking failure never hides the link.

var shareCmd = &cobra.Command{
	Use:   "share [post_id] [platform]",
	Short: "Share a post to a platform",
	Long: `Print the share link for a post and record the share event.

Valid platforms: ` + sharePlatformList() + `.
The "other" platform has no external link and covers copy-link shares.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		postID := args[0]
		platform := client.SharePlatform(args[1])
		if !platform.Valid() {
			return fmt.Errorf("unknown platform %q, valid platforms: %s", args[1], sharePlatformList())
		}

		httpClient := getClient()

		post, err := httpClient.Post(cmd.Context(), postID)
		if err != nil {
			return fmt.Errorf("failed to fetch post: %w", err)
		}

		pageURL, _ := cmd.Flags().GetString("url")
		if pageURL == "" {
			pageURL = strings.TrimSuffix(apiURL, "/api") + "/posts/" + postID
		}

		if link := store.ShareURL(platform, pageURL, post.Title); link != "" {
			fmt.Println("🔗 Open this link to share:")
			color.Cyan("   %s", link)
		} else {
			fmt.Println("🔗 Link to copy:")
			color.Cyan("   %s", pageURL)
		}

		tracker := store.NewShareTracker(httpClient, warnLogger())
		tracker.Track(cmd.Context(), postID, platform)
		return nil
	},
}

var shareStatsCmd = &cobra.Command{
	Use:   "stats [post_id]",
	Short: "Show the share counts of a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient := getClient()

		tracker := store.NewShareTracker(httpClient, warnLogger())
		stats, err := tracker.RefreshStats(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch share stats: %w", err)
		}

		fmt.Printf("📤 Shares (%d total)\n", stats.Total)
		for _, platform := range client.SharePlatforms {
			fmt.Printf("   %-9s %d\n", platform, stats.Counts[platform])
		}
		return nil
	},
}

func sharePlatformList() string {
	parts := make([]string, 0, len(client.SharePlatforms))
	for _, platform := range client.SharePlatforms {
		parts = append(parts, string(platform))
	}
	return strings.Join(parts, ", ")
}

func init() {
	shareCmd.Flags().String("url", "", "Public page URL of the post (defaults to the API host)")

	shareCmd.AddCommand(shareStatsCmd)
	rootCmd.AddCommand(shareCmd)
}
