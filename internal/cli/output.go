package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"
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
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
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
	case CreateSessionResult:
		o.printCreateResult(v)
	case JoinResult:
		o.printJoinResult(v)
	case Snapshot:
		o.printSnapshot(v)
	case SubmitResult:
		o.printSubmitResult(v)
	case RoundResult:
		o.printRoundResult(v)
	case HealthResult:
		o.printHealthResult(v)
	case RecentResults:
		o.printRecentResults(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// CreateSessionRequest is the create request body
type CreateSessionRequest struct {
	Mode            string `json:"mode,omitempty"`
	LetterCount     int    `json:"letter_count,omitempty"`
	MinWordLength   int    `json:"min_word_length,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	MaxPlayers      int    `json:"max_players,omitempty"`
}

// Options response type
type Options struct {
	Mode            string `json:"mode"`
	LetterCount     int    `json:"letter_count"`
	MinWordLength   int    `json:"min_word_length"`
	DurationSeconds int    `json:"duration_seconds"`
	MaxPlayers      int    `json:"max_players"`
}

// CreateSessionResult response type
type CreateSessionResult struct {
	SessionID string  `json:"session_id"`
	Options   Options `json:"options"`
}

// Player response type (matches API)
type Player struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
	IsHost    bool   `json:"is_host"`
}

// Claim response type
type Claim struct {
	Word           string  `json:"word"`
	Player         string  `json:"player"`
	Score          int     `json:"score"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Ranking response type
type Ranking struct {
	Rank      int    `json:"rank"`
	Player    string `json:"player"`
	Score     int    `json:"score"`
	WordCount int    `json:"word_count"`
}

// RoundResult response type
type RoundResult struct {
	SessionID     string    `json:"session_id"`
	Mode          string    `json:"mode"`
	Letters       string    `json:"letters"`
	MinWordLength int       `json:"min_word_length"`
	Rankings      []Ranking `json:"rankings"`
	Claims        []Claim   `json:"claims"`
	PossibleWords []string  `json:"possible_words"`
}

// Snapshot response type
type Snapshot struct {
	SessionID        string       `json:"session_id"`
	Mode             string       `json:"mode"`
	Status           string       `json:"status"`
	Letters          string       `json:"letters"`
	MinWordLength    int          `json:"min_word_length"`
	DurationSeconds  int          `json:"duration_seconds"`
	RemainingSeconds int          `json:"remaining_seconds"`
	Host             string       `json:"host,omitempty"`
	You              string       `json:"you,omitempty"`
	Players          []Player     `json:"players"`
	Claims           []Claim      `json:"claims"`
	Result           *RoundResult `json:"result,omitempty"`
}

// JoinResult response type
type JoinResult struct {
	PlayerID    string   `json:"player_id"`
	IsHost      bool     `json:"is_host"`
	Reconnected bool     `json:"reconnected"`
	Snapshot    Snapshot `json:"snapshot"`
}

// SubmitResult response type
type SubmitResult struct {
	Word       string `json:"word"`
	Score      int    `json:"score"`
	TotalScore int    `json:"total_score"`
}

// HealthResult response type
type HealthResult struct {
	Status         string `json:"status"`
	DictionarySize int    `json:"dictionary_size"`
	ActiveSessions int    `json:"active_sessions"`
}

// RoundSummary response type
type RoundSummary struct {
	SessionID     string    `json:"session_id"`
	Mode          string    `json:"mode"`
	Letters       string    `json:"letters"`
	Players       int       `json:"players"`
	Winner        string    `json:"winner,omitempty"`
	TopScore      int       `json:"top_score"`
	WordsFound    int       `json:"words_found"`
	PossibleWords int       `json:"possible_words"`
	EndedAt       time.Time `json:"ended_at"`
}

// RecentResults response type
type RecentResults struct {
	Results []RoundSummary `json:"results"`
}

func (o *Output) printCreateResult(r CreateSessionResult) {
	fmt.Printf("Session: %s\n", r.SessionID)
	fmt.Printf("Mode: %s\n", r.Options.Mode)
	fmt.Printf("Letters: %d, min word length %d\n", r.Options.LetterCount, r.Options.MinWordLength)
	fmt.Printf("Duration: %ds, up to %d players\n", r.Options.DurationSeconds, r.Options.MaxPlayers)
}

func (o *Output) printJoinResult(r JoinResult) {
	switch {
	case r.Reconnected:
		fmt.Println("Reconnected")
	case r.IsHost:
		fmt.Println("Joined as host")
	default:
		fmt.Println("Joined")
	}
	fmt.Printf("Token: %s\n", r.PlayerID)
	o.printSnapshot(r.Snapshot)
}

func (o *Output) printSnapshot(s Snapshot) {
	fmt.Printf("Session: %s (%s)\n", s.SessionID, s.Mode)
	fmt.Printf("Status: %s\n", s.Status)
	fmt.Printf("Letters: %s\n", spaced(s.Letters))
	if s.Status == "playing" {
		fmt.Printf("Time left: %ds\n", s.RemainingSeconds)
	}

	fmt.Printf("Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		var tags []string
		if p.IsHost {
			tags = append(tags, "host")
		}
		if !p.Connected {
			tags = append(tags, "away")
		}
		if p.Name == s.You {
			tags = append(tags, "you")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Printf("  - %s: %d%s\n", p.Name, p.Score, suffix)
	}

	if len(s.Claims) > 0 {
		fmt.Println("Words:")
		for _, c := range s.Claims {
			fmt.Printf("  %s (%s, %d pts)\n", c.Word, c.Player, c.Score)
		}
	}

	if s.Result != nil {
		fmt.Println()
		o.printRoundResult(*s.Result)
	}
}

func (o *Output) printSubmitResult(r SubmitResult) {
	fmt.Printf("%s: +%d (total %d)\n", r.Word, r.Score, r.TotalScore)
}

func (o *Output) printRoundResult(r RoundResult) {
	fmt.Printf("Results for %s (%s)\n", r.SessionID, r.Mode)
	fmt.Printf("Letters: %s\n", spaced(r.Letters))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RANK\tPLAYER\tSCORE\tWORDS")
	for _, rk := range r.Rankings {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", rk.Rank, rk.Player, rk.Score, rk.WordCount)
	}
	_ = tw.Flush()

	fmt.Printf("Possible words (%d): %s\n", len(r.PossibleWords), strings.Join(r.PossibleWords, ", "))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Dictionary: %d words\n", h.DictionarySize)
	fmt.Printf("Active sessions: %d\n", h.ActiveSessions)
}

func (o *Output) printRecentResults(r RecentResults) {
	if len(r.Results) == 0 {
		fmt.Println("No finished rounds")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SESSION\tMODE\tENDED\tPLAYERS\tWINNER\tSCORE\tFOUND")
	for _, s := range r.Results {
		winner := s.Winner
		if winner == "" {
			winner = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t%d/%d\n",
			s.SessionID, s.Mode, s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.Players, winner, s.TopScore, s.WordsFound, s.PossibleWords)
	}
	_ = tw.Flush()
}

// spaced renders letters with a space between each one
func spaced(letters string) string {
	return strings.Join(strings.Split(letters, ""), " ")
}
