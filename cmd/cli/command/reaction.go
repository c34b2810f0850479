package command

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Naicocircus/blog-tech/internal/client"
	"github.com/Naicocircus/blog-tech/internal/store"
)

// reaction.go = like/react commands. They run through the reaction
// controller so the terminal shows the optimistic state immediately and
// the reconciled state once the server answers.

var reactionCmd = &cobra.Command{
	Use:   "reactions [post_id]",
	Short: "Show the reactions on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		controller := store.NewReactionController(httpClient, args[0], warnLogger())
		defer controller.Close()

		if err := controller.Load(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch reactions: %w", err)
		}
		printReactionState(controller.State())
		return nil
	},
}

var likeCmd = &cobra.Command{
	Use:   "like [post_id]",
	Short: "Like or unlike a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		controller := store.NewReactionController(httpClient, args[0], warnLogger())
		defer controller.Close()

		if err := controller.Load(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch reactions: %w", err)
		}
		if err := controller.ToggleLike(cmd.Context()); err != nil {
			return fmt.Errorf("failed to toggle like: %w", err)
		}

		state := controller.State()
		if state.UserLiked {
			color.Green("❤ Liked! (%d likes)", state.LikesCount)
		} else {
			fmt.Printf("💔 Unliked. (%d likes)\n", state.LikesCount)
		}
		return nil
	},
}

var reactCmd = &cobra.Command{
	Use:   "react [post_id] [kind]",
	Short: "React to a post",
	Long: `Set your reaction on a post. Reacting with your current kind clears it.

Valid kinds: ` + reactionKindList() + `.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := client.ReactionKind(args[1])
		if !kind.Valid() {
			return fmt.Errorf("unknown reaction %q, valid kinds: %s", args[1], reactionKindList())
		}

		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		controller := store.NewReactionController(httpClient, args[0], warnLogger())
		defer controller.Close()

		if err := controller.Load(cmd.Context()); err != nil {
			return fmt.Errorf("failed to fetch reactions: %w", err)
		}
		if err := controller.SetReaction(cmd.Context(), kind); err != nil {
			return fmt.Errorf("failed to react: %w", err)
		}

		state := controller.State()
		if state.UserReaction == "" {
			fmt.Println("✓ Reaction cleared")
		} else {
			color.Green("✓ Reacted with %s", state.UserReaction)
		}
		printReactionState(state)
		return nil
	},
}

func printReactionState(state client.ReactionState) {
	parts := make([]string, 0, len(client.ReactionKinds))
	for _, kind := range client.ReactionKinds {
		parts = append(parts, fmt.Sprintf("%s %d", kind, state.Reactions[kind]))
	}
	fmt.Printf("Reactions: %s | likes %d\n", strings.Join(parts, " · "), state.LikesCount)
	if state.UserReaction != "" {
		fmt.Printf("Your reaction: %s\n", state.UserReaction)
	}
}

func reactionKindList() string {
	parts := make([]string, 0, len(client.ReactionKinds))
	for _, kind := range client.ReactionKinds {
		parts = append(parts, string(kind))
	}
	return strings.Join(parts, ", ")
}

func warnLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func init() {
	rootCmd.AddCommand(reactionCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(reactCmd)
}
