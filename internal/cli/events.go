package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const roundEndedEvent = "round_ended"

func newEventsCmd() *cobra.Command {
	var (
		jsonOutput bool
		untilEnd   bool
	)

	cmd := &cobra.Command{
		Use:   "events <id>",
		Short: "Stream a session's events",
		Long: `Connect to the session's event stream and print events as they arrive.
With a saved token for the session, private events for your player are included.

Events include:
  - snapshot: Session state when the stream opens
  - player_joined / player_left / host_changed: Room membership changed
  - round_started: Letters revealed, the clock is running
  - tick: Seconds remaining
  - word_claimed: A word was taken (exclusive mode)
  - word_accepted: Your word was accepted (free for all)
  - scores_updated: Scores changed (free for all)
  - round_ended: Final rankings and every possible word

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(cmd.Context(), args[0], jsonOutput, untilEnd)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().BoolVar(&untilEnd, "until-end", false, "Exit after the round_ended event")

	return cmd
}

// SSEEvent is one event read from the stream
type SSEEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// roomEvent is the envelope the server wraps every room event in
type roomEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func streamEvents(ctx context.Context, sessionID string, jsonOutput, untilEnd bool) error {
	url := strings.TrimSuffix(cfg.ServerURL, "/") + sessionPath(sessionID, "events")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if token := cfg.TokenFor(sessionID); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// No client timeout, the stream lasts as long as the session
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		fmt.Printf("Connected to session %s\n", normalizeID(sessionID))
	}

	err = readEvents(resp.Body, func(evt SSEEvent) bool {
		printEvent(evt, jsonOutput)
		return !(untilEnd && evt.Event == roundEndedEvent)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Println("Disconnected")
	}
	return nil
}

// readEvents parses an SSE stream, calling fn per event until it returns false
func readEvents(r io.Reader, fn func(SSEEvent) bool) error {
	scanner := bufio.NewScanner(r)
	// round_ended carries every possible word
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		name string
		data []string
	)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		case line == "":
			if name != "" {
				evt := SSEEvent{Time: time.Now(), Event: name, Data: json.RawMessage(strings.Join(data, "\n"))}
				if !fn(evt) {
					return nil
				}
			}
			name, data = "", nil
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printEvent(evt SSEEvent, jsonOutput bool) {
	if jsonOutput {
		line, _ := json.Marshal(evt)
		fmt.Println(string(line))
		return
	}

	fmt.Printf("[%s] %s\n", evt.Time.Format("15:04:05"), describeEvent(evt))
}

// describeEvent renders a one-line summary of a room event
func describeEvent(evt SSEEvent) string {
	if evt.Event == "snapshot" {
		var snap Snapshot
		if json.Unmarshal(evt.Data, &snap) == nil {
			return fmt.Sprintf("%s is %s, letters %s, %d players", snap.SessionID, snap.Status, spaced(snap.Letters), len(snap.Players))
		}
	}

	var env roomEvent
	if json.Unmarshal(evt.Data, &env) != nil || env.Type == "" {
		return evt.Event + ": " + truncate(string(evt.Data), 100)
	}

	switch env.Type {
	case "player_joined":
		var d struct {
			Name        string `json:"name"`
			Reconnected bool   `json:"reconnected"`
		}
		_ = json.Unmarshal(env.Data, &d)
		if d.Reconnected {
			return d.Name + " reconnected"
		}
		return d.Name + " joined"
	case "player_left":
		var d struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(env.Data, &d)
		return d.Name + " left"
	case "host_changed":
		var d struct {
			NewHost string `json:"new_host"`
		}
		_ = json.Unmarshal(env.Data, &d)
		if d.NewHost == "" {
			return "no host left in the room"
		}
		return d.NewHost + " is now host"
	case "round_started":
		var d struct {
			Snapshot Snapshot `json:"snapshot"`
		}
		_ = json.Unmarshal(env.Data, &d)
		return fmt.Sprintf("round started: %s (%ds)", spaced(d.Snapshot.Letters), d.Snapshot.RemainingSeconds)
	case "tick":
		var d struct {
			RemainingSeconds int `json:"remaining_seconds"`
		}
		_ = json.Unmarshal(env.Data, &d)
		return fmt.Sprintf("%ds left", d.RemainingSeconds)
	case "word_claimed", "word_accepted":
		var d struct {
			Word   string `json:"word"`
			Player string `json:"player"`
			Score  int    `json:"score"`
		}
		_ = json.Unmarshal(env.Data, &d)
		if d.Player == "" {
			d.Player = "you"
		}
		return fmt.Sprintf("%s scored %s (+%d)", d.Player, d.Word, d.Score)
	case roundEndedEvent:
		var d RoundResult
		_ = json.Unmarshal(env.Data, &d)
		if len(d.Rankings) == 0 {
			return "round ended"
		}
		return fmt.Sprintf("round ended, %s wins with %d", d.Rankings[0].Player, d.Rankings[0].Score)
	default:
		return env.Type + ": " + truncate(strings.ReplaceAll(string(env.Data), "\n", " "), 100)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
