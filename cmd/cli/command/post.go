package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Naicocircus/blog-tech/internal/client"
)

var postCmd = &cobra.Command{
	Use:   "posts",
	Short: "Browse blog posts",
	Long:  `List blog posts and show a single post`,
}

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List blog posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient := getClient()

		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		search, _ := cmd.Flags().GetString("search")

		list, err := httpClient.Posts(cmd.Context(), client.PostParams{
			Page: page, Limit: limit, Search: search,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch posts: %w", err)
		}

		if len(list.Posts) == 0 {
			fmt.Println("📝 No posts found")
			return nil
		}

		fmt.Printf("📝 Posts (%d total)\n", list.Total)
		fmt.Println("─────────────────────────────────────────────────────────")
		for i, p := range list.Posts {
			fmt.Printf("%d. %s (ID: %s)\n", i+1, p.Title, p.ID)
			if p.Author != nil {
				fmt.Printf("   Author: %s\n", p.Author.Name)
			}
			if p.Excerpt != "" {
				fmt.Printf("   %s\n", p.Excerpt)
			}
			if len(p.Tags) > 0 {
				fmt.Printf("   Tags: %s\n", strings.Join(p.Tags, ", "))
			}
			fmt.Printf("   Published: %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Println()
		}
		return nil
	},
}

var postShowCmd = &cobra.Command{
	Use:   "show [post_id]",
	Short: "Show a single post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient := getClient()

		p, err := httpClient.Post(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch post: %w", err)
		}

		fmt.Printf("# %s\n", p.Title)
		if p.Author != nil {
			fmt.Printf("by %s — %s\n", p.Author.Name, p.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Println()
		fmt.Println(p.Content)
		return nil
	},
}

func init() {
	postCmd.AddCommand(postListCmd)
	postCmd.AddCommand(postShowCmd)

	postListCmd.Flags().Int("page", 1, "Page number")
	postListCmd.Flags().Int("limit", 10, "Posts per page")
	postListCmd.Flags().String("search", "", "Filter posts by title")

	rootCmd.AddCommand(postCmd)
}
