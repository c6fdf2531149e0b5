package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/jarvis/internal/config"
	"github.com/me/jarvis/internal/lifecycle"
	"github.com/me/jarvis/pkg/model"
)

// terminalNav stands in for the browser location while watching. A
// navigation means the session is over.
type terminalNav struct {
	out io.Writer

	mu       sync.Mutex
	location string
	ended    chan struct{}
	once     sync.Once
}

func newTerminalNav(out io.Writer) *terminalNav {
	return &terminalNav{out: out, location: "/", ended: make(chan struct{})}
}

func (n *terminalNav) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

func (n *terminalNav) Navigate(path string) {
	n.mu.Lock()
	n.location = path
	n.mu.Unlock()
	fmt.Fprintln(n.out, "Session expired. Run `jarvis login` to sign in again.")
	n.end()
}

func (n *terminalNav) end() {
	n.once.Do(func() { close(n.ended) })
}

func newWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the session under watch in the foreground",
		Long: "Validates the stored token now, every --interval and whenever the process " +
			"receives SIGUSR1, and exits when the session ends.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			nav := newTerminalNav(out)
			ctrl := lifecycle.New(client.Session, client.Tokens, nav, logger, lifecycle.WithInterval(interval))
			ctrl.Watch(client.Primary.Client, client.QA.Client)
			defer ctrl.Stop()

			var (
				mu   sync.Mutex
				last model.SessionStatus
			)
			unsubscribe := client.Session.Subscribe(func(st model.AuthState) {
				mu.Lock()
				defer mu.Unlock()
				status := st.Status()
				if status == model.StatusPending || status == last {
					return
				}
				last = status
				switch {
				case st.IsAuthenticated:
					fmt.Fprintf(out, "%s  signed in as %s (%s)\n", timeNow().Format(time.TimeOnly), st.User.Username, st.User.Role)
				case st.Error != "":
					fmt.Fprintf(out, "%s  signed out: %s\n", timeNow().Format(time.TimeOnly), st.Error)
					nav.end()
				default:
					fmt.Fprintf(out, "%s  signed out\n", timeNow().Format(time.TimeOnly))
					nav.end()
				}
			})
			defer unsubscribe()

			ctrl.Start(ctx)
			if st := client.Session.State(); !st.IsAuthenticated {
				if st.Error != "" {
					return fmt.Errorf("%s (run `jarvis login`)", st.Error)
				}
				return errNotLoggedIn
			}

			focus := make(chan os.Signal, 1)
			if sigs := focusSignals(); len(sigs) > 0 {
				signal.Notify(focus, sigs...)
				defer signal.Stop(focus)
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-nav.ended:
					return errSessionExpired
				case <-focus:
					ctrl.Focus(ctx)
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", config.DefaultCheckInterval, "Re-validation interval")
	return cmd
}
