package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/jarvis/internal/config"
	"github.com/me/jarvis/internal/logging"
	"github.com/me/jarvis/internal/store"
)

var (
	flagNestAPI     string
	flagPythonAPI   string
	flagCredentials string
	flagDebug       bool
	flagLogLevel    string
	flagLogFormat   string

	logger *slog.Logger
	client *Client
)

// defaultBackends returns the backend URLs, honouring VITE_NESTJS_API_URL and
// VITE_PYTHON_API_URL from the environment or a .env file.
func defaultBackends() config.BackendConfig {
	_ = config.LoadEnv()
	b := config.DefaultBackendConfig()
	b.ApplyEnv()
	return b
}

// NewRootCmd creates the root cobra command for the jarvis CLI.
func NewRootCmd() *cobra.Command {
	backends := defaultBackends()

	root := &cobra.Command{
		Use:   "jarvis",
		Short: "Jarvis: document management from the command line",
		Long:  "Jarvis signs in to the document management backends, manages documents, ingestion and users, and asks questions about documents.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(flagLogLevel), flagLogFormat, cmd.ErrOrStderr())

			credPath := flagCredentials
			if credPath == "" {
				p, err := store.DefaultCredentialsPath()
				if err != nil {
					return err
				}
				credPath = p
			}

			backends.NestJSURL = flagNestAPI
			backends.PythonURL = flagPythonAPI
			c, err := NewClient(cmd.Context(), backends, credPath, logger)
			if err != nil {
				return fmt.Errorf("init client: %w", err)
			}
			client = c
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagNestAPI, "nest-api", backends.NestJSURL, "Primary API base URL (or VITE_NESTJS_API_URL env)")
	root.PersistentFlags().StringVar(&flagPythonAPI, "python-api", backends.PythonURL, "Q&A API base URL (or VITE_PYTHON_API_URL env)")
	root.PersistentFlags().StringVar(&flagCredentials, "credentials", "", "Credentials file (default ~/.jarvis/credentials.json)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "error", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newTokenCmd(),
		newDocumentsCmd(),
		newIngestionCmd(),
		newAskCmd(),
		newHistoryCmd(),
		newSelectCmd(),
		newUsersCmd(),
		newWatchCmd(),
	)

	return root
}
