package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/tictacgame-go/internal/protocol"
)

func newPlaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place <game-id> <row> <col>",
		Short: "Place your marker at the given board position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("row must be a number: %w", err)
			}
			col, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("col must be a number: %w", err)
			}

			client, err := connectAndLogin(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			payload := map[string]any{"gameId": args[0], "row": row, "col": col}
			if err := client.Call(cmd.Context(), protocol.EventPlaceMarker, payload, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Placed marker at (%d, %d)", row, col))
			return nil
		},
	}
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <game-id> <message...>",
		Short: "Send a chat message to your opponent",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectAndLogin(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			payload := map[string]string{
				"gameId":  args[0],
				"message": strings.Join(args[1:], " "),
			}
			if err := client.Call(cmd.Context(), protocol.EventSendMessage, payload, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Sent")
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	var autoAccept bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stay connected and stream server-pushed events",
		Long: `Connect, log in, and print every server-pushed event as it arrives:
gamerJoined, gameInvite, gameMove, gameOver, chatMessage.

With --accept, incoming invites are accepted automatically, which makes a
watching gamecli a playable opponent for invites sent from elsewhere.

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connectAndLogin(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
				client.Close()
			}()

			fmt.Printf("Watching as %s (sid %s)\n", cfg.UserName, client.Sid())

			for {
				env, err := client.Next(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}

				printEnvelope(env)

				if autoAccept && env.Event == protocol.EventGameInvite && !env.IsError {
					if sid := inviterSid(env); sid != "" {
						if err := client.Send(protocol.EventAcceptGame, map[string]string{"sid": sid}); err != nil {
							return err
						}
					}
				}
			}
		},
	}

	cmd.Flags().BoolVar(&autoAccept, "accept", false, "Automatically accept incoming invites")

	return cmd
}

// inviterSid pulls the inviting session id out of a gameInvite payload
func inviterSid(env *wireEnvelope) string {
	var payload struct {
		Sid string `json:"sid"`
	}
	if err := json.Unmarshal(env.Result, &payload); err != nil {
		return ""
	}
	return payload.Sid
}
