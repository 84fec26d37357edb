package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "gamecli",
		Short: "CLI client for the tic-tac-toe game server",
		Long: `gamecli talks to the game server over its websocket protocol.

It supports account registration and login, listing available gamers,
the invite/accept/decline handshake, placing markers, chat, and streaming
server-pushed events in real time.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: GAMECLI_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.UserName, "user", cfg.UserName, "User name (env: GAMECLI_USER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Password, "pass", cfg.Password, "Password (env: GAMECLI_PASSWORD)")
	rootCmd.PersistentFlags().StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "Session file path (env: GAMECLI_SESSION_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Print server-pushed events received along the way")

	// Add subcommands
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newGamersCmd())
	rootCmd.AddCommand(newInviteCmd())
	rootCmd.AddCommand(newDeclineCmd())
	rootCmd.AddCommand(newAcceptCmd())
	rootCmd.AddCommand(newPlaceCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// connect dials the server reusing any saved session id, then persists the
// session id the server assigned
func connect(cmd *cobra.Command) (*Client, error) {
	sid, err := cfg.LoadSession()
	if err != nil {
		return nil, err
	}

	client := NewClient(cfg.ServerURL, sid, cfg.Verbose)
	if err := client.Dial(cmd.Context()); err != nil {
		return nil, err
	}

	if client.Sid() != sid {
		if err := cfg.SaveSession(client.Sid()); err != nil {
			client.Close()
			return nil, err
		}
	}

	return client, nil
}

// connectAndLogin dials and authenticates with the configured credentials
func connectAndLogin(cmd *cobra.Command) (*Client, error) {
	client, err := connect(cmd)
	if err != nil {
		return nil, err
	}
	if err := client.Login(cmd.Context(), cfg.UserName, cfg.Password); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
