package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comments",
	Short: "Read and write post comments",
	Long:  `List, add, edit and delete comments on a post`,
}

var commentListCmd = &cobra.Command{
	Use:   "list [post_id]",
	Short: "List the comments on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient := getClient()

		comments, err := httpClient.Comments(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch comments: %w", err)
		}

		if len(comments) == 0 {
			fmt.Println("💬 No comments yet")
			return nil
		}

		fmt.Printf("💬 Comments (%d)\n", len(comments))
		fmt.Println("─────────────────────────────────────────────────────────")
		for _, cm := range comments {
			who := "someone"
			if cm.Author != nil {
				who = cm.Author.Name
			}
			fmt.Printf("%s — %s (ID: %s)\n", who, cm.CreatedAt.Local().Format("2006-01-02 15:04"), cm.ID)
			fmt.Printf("   %s\n\n", cm.Content)
		}
		return nil
	},
}

var commentAddCmd = &cobra.Command{
	Use:   "add [post_id] [content]",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		cm, err := httpClient.CreateComment(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to post comment: %w", err)
		}
		fmt.Printf("✓ Comment posted (ID: %s)\n", cm.ID)
		return nil
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit [comment_id] [content]",
	Short: "Edit one of your comments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		if _, err := httpClient.UpdateComment(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to edit comment: %w", err)
		}
		fmt.Println("✓ Comment updated")
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete [comment_id]",
	Short: "Delete one of your comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		if err := httpClient.DeleteComment(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		fmt.Println("✓ Comment deleted")
		return nil
	},
}

func init() {
	commentCmd.AddCommand(commentListCmd)
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentEditCmd)
	commentCmd.AddCommand(commentDeleteCmd)

	rootCmd.AddCommand(commentCmd)
}
