package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func sessionPath(id string, parts ...string) string {
	path := "/api/v1/sessions/" + url.PathEscape(normalizeID(id))
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

// playerClient authenticates as the saved player for a session
func playerClient(sessionID string) *Client {
	return client.As(cfg.TokenFor(sessionID))
}

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionSubmitCmd())
	cmd.AddCommand(newSessionLeaveCmd())
	cmd.AddCommand(newSessionResultsCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var req CreateSessionRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session",
		Long: `Create a new session. Unset options take the server defaults.

Modes:
  - free_for_all: every player may score every word once
  - exclusive: the first player to find a word owns it`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CreateSessionResult

			if err := client.Post(cmd.Context(), "/api/v1/sessions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Mode, "mode", "", "Mode: free_for_all, exclusive")
	cmd.Flags().IntVar(&req.LetterCount, "letters", 0, "Number of letters (12-16)")
	cmd.Flags().IntVar(&req.MinWordLength, "min-length", 0, "Minimum word length")
	cmd.Flags().IntVar(&req.DurationSeconds, "duration", 0, "Round duration in seconds")
	cmd.Flags().IntVar(&req.MaxPlayers, "max-players", 0, "Maximum number of players")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get session state as seen by you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Snapshot

			if err := playerClient(args[0]).Get(cmd.Context(), sessionPath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <id>",
		Short: "Join a session and remember the player token for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinResult

			if err := client.Post(cmd.Context(), sessionPath(args[0], "join"), map[string]string{"name": name}, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(args[0], result.PlayerID); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSessionStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start the round (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := playerClient(args[0]).Post(cmd.Context(), sessionPath(args[0], "start"), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Round started in %s", normalizeID(args[0])))
			return nil
		},
	}
}

func newSessionSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <id> <word> [word...]",
		Short: "Submit one or more words",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)
			player := playerClient(args[0])

			var failed int
			for _, word := range args[1:] {
				var result SubmitResult
				if err := player.Post(cmd.Context(), sessionPath(args[0], "words"), map[string]string{"word": word}, &result); err != nil {
					out.PrintError(fmt.Errorf("%s: %w", word, err))
					failed++
					continue
				}
				out.Print(result)
			}

			if failed == len(args)-1 {
				return fmt.Errorf("no words accepted")
			}
			return nil
		},
	}
}

func newSessionLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := playerClient(args[0]).Post(cmd.Context(), sessionPath(args[0], "leave"), nil, nil); err != nil {
				return err
			}
			if err := cfg.ForgetToken(args[0]); err != nil {
				return fmt.Errorf("failed to forget token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left session %s", normalizeID(args[0])))
			return nil
		},
	}
}

func newSessionResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <id>",
		Short: "Show the results of a finished round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoundResult

			if err := client.Get(cmd.Context(), sessionPath(args[0], "results"), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
