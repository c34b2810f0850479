package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Naicocircus/blog-tech/internal/client"
	"github.com/Naicocircus/blog-tech/internal/store"
)

// notification.go = notification commands. The watch subcommand runs the
// polling store; the rest are one-shot calls through it.

var notificationCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Read and manage your notifications",
	Long: `List, mark as read, delete and watch your notifications.

The watch subcommand keeps a single polling loop against the server and
prints every change as it happens. All other subcommands are one-shot.`,
}

var notificationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		unreadOnly, _ := cmd.Flags().GetBool("unread")

		list, err := httpClient.Notifications(cmd.Context(), client.NotificationParams{
			Page: page, Limit: limit, UnreadOnly: unreadOnly,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch notifications: %w", err)
		}

		if len(list.Notifications) == 0 {
			fmt.Println("🔔 No notifications")
			return nil
		}

		fmt.Printf("🔔 Notifications (%d unread, page %d/%d)\n",
			list.UnreadCount, list.Pagination.Page, list.Pagination.Pages)
		fmt.Println("─────────────────────────────────────────────────────────")
		for _, n := range list.Notifications {
			printNotification(n)
		}
		return nil
	},
}

var notificationCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the unread notification count",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		count, err := httpClient.UnreadCount(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch unread count: %w", err)
		}
		fmt.Printf("🔔 %d unread\n", count)
		return nil
	},
}

var notificationReadCmd = &cobra.Command{
	Use:   "read [notification_id]",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		if err := httpClient.MarkNotificationRead(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to mark notification as read: %w", err)
		}
		fmt.Println("✓ Marked as read")
		return nil
	},
}

var notificationReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		if err := httpClient.MarkAllNotificationsRead(cmd.Context()); err != nil {
			return fmt.Errorf("failed to mark all notifications as read: %w", err)
		}
		fmt.Println("✓ All notifications marked as read")
		return nil
	},
}

var notificationDeleteCmd = &cobra.Command{
	Use:   "delete [notification_id]",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		if err := httpClient.DeleteNotification(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete notification: %w", err)
		}
		fmt.Println("✓ Notification deleted")
		return nil
	},
}

var notificationWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch notifications in real time",
	Long: `Start the notification poll loop and print every change.

This command will:
1. Fetch your current notifications and unread count
2. Poll the server on an interval (default 60s)
3. Print new notifications and count changes as they arrive

Press Ctrl+C to stop watching.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := getAuthenticatedClient()
		if err != nil {
			return err
		}

		interval, _ := cmd.Flags().GetDuration("interval")
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

		notifStore := store.NewNotificationStore(httpClient, interval, logger)

		bold := color.New(color.Bold)
		bold.Printf("👀 Watching notifications (poll every %s)\n", interval)
		fmt.Println("Press Ctrl+C to stop.")
		fmt.Println()

		printer := newWatchPrinter(os.Stdout)
		notifStore.Subscribe(printer.observe)

		notifStore.Start(cmd.Context())
		defer notifStore.Stop()

		// Seed the list view; the count keeps refreshing on the ticker.
		if _, err := notifStore.RefreshList(cmd.Context(), client.NotificationParams{Limit: 20}); err != nil {
			color.Yellow("initial fetch failed: %v", err)
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sig:
		case <-cmd.Context().Done():
		}

		fmt.Println("\n✓ Stopped watching.")
		return nil
	},
}

// watchPrinter renders snapshots for the watch loop, printing each
// notification once and the unread count whenever it changes. Snapshots
// arrive from the poll goroutine and from the command's own refresh at the
// same time; the store runs callbacks outside its lock with no ordering
// promise, so observe serializes itself.
type watchPrinter struct {
	out io.Writer

	mu        sync.Mutex
	seen      map[string]bool
	lastCount int
}

func newWatchPrinter(out io.Writer) *watchPrinter {
	return &watchPrinter{out: out, seen: make(map[string]bool), lastCount: -1}
}

func (w *watchPrinter) observe(snap store.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := len(snap.Notifications) - 1; i >= 0; i-- {
		n := snap.Notifications[i]
		if w.seen[n.ID] {
			continue
		}
		w.seen[n.ID] = true
		fprintNotification(w.out, n)
	}
	if snap.UnreadCount != w.lastCount {
		w.lastCount = snap.UnreadCount
		color.New(color.FgCyan).Fprintf(w.out, "🔔 %d unread\n", snap.UnreadCount)
	}
}

func printNotification(n client.Notification) {
	fprintNotification(os.Stdout, n)
}

func fprintNotification(out io.Writer, n client.Notification) {
	marker := color.New(color.FgGreen).Sprint("●")
	if n.Read {
		marker = color.New(color.Faint).Sprint("○")
	}

	who := ""
	if n.Sender != nil {
		who = n.Sender.Name + ": "
	}
	fmt.Fprintf(out, "%s [%s] %s%s\n", marker, n.Type, who, n.Content)
	fmt.Fprintf(out, "   %s  (ID: %s)\n", n.CreatedAt.Local().Format("2006-01-02 15:04"), n.ID)
	if n.Link != "" {
		fmt.Fprintf(out, "   %s\n", n.Link)
	}
}

func init() {
	notificationCmd.AddCommand(notificationListCmd)
	notificationCmd.AddCommand(notificationCountCmd)
	notificationCmd.AddCommand(notificationReadCmd)
	notificationCmd.AddCommand(notificationReadAllCmd)
	notificationCmd.AddCommand(notificationDeleteCmd)
	notificationCmd.AddCommand(notificationWatchCmd)

	notificationListCmd.Flags().Int("page", 1, "Page number")
	notificationListCmd.Flags().Int("limit", 20, "Notifications per page")
	notificationListCmd.Flags().Bool("unread", false, "Only show unread notifications")

	notificationWatchCmd.Flags().Duration("interval", cliCfg.PollInterval, "Poll interval")

	rootCmd.AddCommand(notificationCmd)
}
