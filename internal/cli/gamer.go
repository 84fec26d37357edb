package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/protocol"
)

func newRegisterCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || cfg.UserName == "" || cfg.Password == "" {
				return fmt.Errorf("--name, --user, and --pass are required")
			}

			client, err := connect(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			payload := map[string]string{
				"name":     name,
				"userName": cfg.UserName,
				"password": cfg.Password,
			}
			if err := client.Call(cmd.Context(), protocol.EventRegister, payload, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Registered as %s (sid %s)", cfg.UserName, client.Sid()))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectAndLogin(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Logged in as %s (sid %s)", cfg.UserName, client.Sid()))
			return nil
		},
	}
}

func newGamersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gamers",
		Short: "List other available gamers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectAndLogin(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			var gamers []model.Gamer
			if err := client.Call(cmd.Context(), protocol.EventFindAllAvailableGamers, map[string]any{}, &gamers); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(gamers)
			return nil
		},
	}
}

func newInviteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invite <sid>",
		Short: "Invite a gamer to a game and wait for their answer",
		Long: `Send a game invite to the gamer with the given session id.

The command stays connected until the invitee answers: on accept it prints
the new game, on decline it reports the refusal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectAndLogin(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			// Stay connected as long as it takes the invitee to answer
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Hour)
			defer cancel()

			var game model.Game
			payload := map[string]string{"sid": args[0]}
			if err := client.Call(ctx, protocol.EventInviteGamer, payload, &game); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(&game)
			return nil
		},
	}
}

func newDeclineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decline <sid>",
		Short: "Decline an invite from the gamer with the given session id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectAndLogin(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			payload := map[string]string{"sid": args[0]}
			if err := client.Send(protocol.EventDeclineGame, payload); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Declined")
			return nil
		},
	}
}

func newAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <sid>",
		Short: "Accept an invite from the gamer with the given session id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectAndLogin(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			var game model.Game
			payload := map[string]string{"sid": args[0]}
			if err := client.Call(cmd.Context(), protocol.EventAcceptGame, payload, &game); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(&game)
			return nil
		},
	}
}
