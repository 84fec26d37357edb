package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mcoot/tictacgame-go/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []model.Gamer:
		o.printGamers(v)
	case *model.Game:
		o.printGame(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printGamers(gamers []model.Gamer) {
	if len(gamers) == 0 {
		fmt.Println("No other gamers available")
		return
	}
	for _, g := range gamers {
		fmt.Printf("%s\t%s\t%s\n", g.Sid, g.UserName, g.FullName)
	}
}

func (o *Output) printGame(g *model.Game) {
	fmt.Printf("Game:    %s\n", g.ID)
	fmt.Printf("Players: %s (x) vs %s (o)\n", g.Player1UserName, g.Player2UserName)
	fmt.Printf("Turn:    %s\n", g.CurrentPlayer)
	fmt.Println(renderBoard(g.Board))
}

func renderBoard(board model.Board) string {
	var sb strings.Builder
	for _, row := range board {
		for j, cell := range row {
			if j > 0 {
				sb.WriteString("|")
			}
			if cell == model.MarkerEmpty {
				sb.WriteString(" ")
			} else {
				sb.WriteString(string(cell))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// printEnvelope writes a received envelope to stdout, one line per event
func printEnvelope(env *wireEnvelope) {
	stamp := time.Now().Format(time.TimeOnly)
	if env.IsError {
		fmt.Printf("[%s] %s error: %s\n", stamp, env.Event, env.Error)
		return
	}
	fmt.Printf("[%s] %s %s\n", stamp, env.Event, string(env.Result))
}
