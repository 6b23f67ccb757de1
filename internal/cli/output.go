package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/mcoot/blockfall/internal/api/response"
)

var (
	headerColor = color.New(color.Bold, color.FgCyan)
	goodColor   = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed, color.Bold)
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == OutputJSON {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errOut, string(data))
	} else {
		errorColor.Fprint(o.errOut, "Error: ")
		fmt.Fprintln(o.errOut, err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.out, string(data))
	} else {
		fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Leaderboard:
		o.printLeaderboard(v)
	case response.Score:
		o.printScore(v)
	case response.Health:
		o.printHealth(v)
	case PlayResult:
		o.printPlayResult(v)
	case SimulationReport:
		o.printSimulation(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// printTable aligns rows into columns and highlights the header row
func (o *Output) printTable(header []string, rows [][]string) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()

	lines := strings.SplitAfter(buf.String(), "\n")
	headerColor.Fprint(o.out, lines[0])
	for _, line := range lines[1:] {
		fmt.Fprint(o.out, line)
	}
}

func playerLabel(name, bot string) string {
	if bot != "" {
		return fmt.Sprintf("%s [%s]", name, bot)
	}
	return name
}

func (o *Output) printLeaderboard(b response.Leaderboard) {
	if len(b.Scores) == 0 {
		fmt.Fprintln(o.out, "No games recorded yet.")
		return
	}
	rows := make([][]string, len(b.Scores))
	for i, s := range b.Scores {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			s.ID,
			playerLabel(s.PlayerName, s.BotStrategy),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.LinesCleared),
			fmt.Sprintf("%dx%d", s.BoardWidth, s.BoardHeight),
			s.EndReason,
			s.RecordedAt.Format("2006-01-02 15:04"),
		}
	}
	o.printTable([]string{"#", "ID", "PLAYER", "SCORE", "LINES", "BOARD", "ENDED", "RECORDED"}, rows)
	fmt.Fprintf(o.out, "Showing %d of %d games\n", len(b.Scores), b.Total)
}

func (o *Output) printScore(s response.Score) {
	fmt.Fprintf(o.out, "Game: %s\n", s.ID)
	fmt.Fprintf(o.out, "Player: %s\n", playerLabel(s.PlayerName, s.BotStrategy))
	fmt.Fprintf(o.out, "Score: %d\n", s.Score)
	fmt.Fprintf(o.out, "Lines: %d\n", s.LinesCleared)
	fmt.Fprintf(o.out, "Ticks: %d\n", s.Ticks)
	fmt.Fprintf(o.out, "Board: %dx%d\n", s.BoardWidth, s.BoardHeight)
	if s.Seed != 0 {
		fmt.Fprintf(o.out, "Seed: %d\n", s.Seed)
	}
	fmt.Fprintf(o.out, "Ended: %s\n", s.EndReason)
	fmt.Fprintf(o.out, "Recorded: %s\n", s.RecordedAt.Format("2006-01-02 15:04:05"))
}

func (o *Output) printHealth(h response.Health) {
	fmt.Fprint(o.out, "Status: ")
	goodColor.Fprintln(o.out, h.Status)
	fmt.Fprintf(o.out, "Scores: %d\n", h.Scores)
	fmt.Fprintf(o.out, "Spectators: %d\n", h.Spectators)
}

func (o *Output) printPlayResult(p PlayResult) {
	headerColor.Fprintln(o.out, "GAME OVER")
	fmt.Fprintf(o.out, "Score: %d\n", p.Score)
	fmt.Fprintf(o.out, "Lines: %d\n", p.LinesCleared)
	fmt.Fprintf(o.out, "Ticks: %d\n", p.Ticks)
	if p.EndReason != "" {
		fmt.Fprintf(o.out, "Ended: %s\n", p.EndReason)
	}
	if p.Seed != 0 {
		fmt.Fprintf(o.out, "Seed: %d\n", p.Seed)
	}
	if p.Recorded != nil {
		goodColor.Fprintf(o.out, "Recorded as %s for %s\n", p.Recorded.ID, p.Recorded.PlayerName)
	}
}

func (o *Output) printSimulation(r SimulationReport) {
	rows := make([][]string, len(r.Games))
	for i, g := range r.Games {
		ended := g.EndReason
		if ended == "" {
			ended = "tick limit"
		}
		rows[i] = []string{
			fmt.Sprintf("%d", g.Game),
			fmt.Sprintf("%d", g.Seed),
			fmt.Sprintf("%d", g.Score),
			fmt.Sprintf("%d", g.LinesCleared),
			fmt.Sprintf("%d", g.Ticks),
			ended,
			g.ScoreID,
		}
	}
	o.printTable([]string{"GAME", "SEED", "SCORE", "LINES", "TICKS", "ENDED", "RECORDED"}, rows)
	fmt.Fprintf(o.out, "Strategy: %s\n", r.Strategy)
	fmt.Fprintf(o.out, "Best score: %d\n", r.BestScore)
	fmt.Fprintf(o.out, "Mean score: %.1f\n", r.MeanScore)
}
