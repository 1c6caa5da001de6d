package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mcoot/wordrush/internal/dependencies/clock"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/legality"
	"github.com/mcoot/wordrush/internal/services/letters"
	"github.com/mcoot/wordrush/internal/services/scheduler"
	"github.com/mcoot/wordrush/internal/services/scoring"
)

// archiveTimeout bounds how long a finished round may spend being persisted
const archiveTimeout = 5 * time.Second

// Notifier delivers events to the clients of a session. Implementations must not block.
type Notifier interface {
	Broadcast(id model.SessionID, evt model.Event)
	// SendTo delivers to one player. An empty playerID addresses spectators.
	SendTo(id model.SessionID, playerID model.PlayerID, evt model.Event)
}

// Enumerator lists every word that can be formed from a bag
type Enumerator interface {
	FindFormableWords(bag []rune, minLength int) []string
}

// Archiver persists finished rounds
type Archiver interface {
	SaveRoundResult(ctx context.Context, result *model.RoundResult) error
}

// Deps are the collaborators shared by every session
type Deps struct {
	Clock      clock.Clock
	Scheduler  *scheduler.Scheduler
	Validator  *legality.Validator
	Enumerator Enumerator
	Notifier   Notifier
	Archiver   Archiver // optional
	Logger     *slog.Logger
}

// JoinResult is returned to a joining player
type JoinResult struct {
	PlayerID    model.PlayerID
	IsHost      bool
	Reconnected bool
	Snapshot    model.Snapshot
}

// Session is one game room. Every mutation happens under mu.
type Session struct {
	id      model.SessionID
	opts    model.Options
	letters []rune
	policy  claimPolicy
	deps    Deps
	logger  *slog.Logger

	mu        sync.Mutex
	status    model.Status
	hostID    model.PlayerID
	players   []*model.Player // join order
	byID      map[model.PlayerID]*model.Player
	ledger    *ledger
	createdAt time.Time
	startedAt time.Time
	deadline  time.Time
	endedAt   time.Time
	round     *scheduler.Round
	gen       int
	result    *model.RoundResult
}

// New creates a waiting session over a pre-generated bag
func New(id model.SessionID, opts model.Options, bag []rune, deps Deps) *Session {
	return &Session{
		id:        id,
		opts:      opts,
		letters:   append([]rune(nil), bag...),
		policy:    policyFor(opts.Mode),
		deps:      deps,
		logger:    deps.Logger.With(slog.String("session", string(id))),
		status:    model.StatusWaiting,
		byID:      make(map[model.PlayerID]*model.Player),
		ledger:    newLedger(),
		createdAt: deps.Clock.Now(),
	}
}

// ID returns the session id
func (s *Session) ID() model.SessionID {
	return s.id
}

// Options returns the round settings
func (s *Session) Options() model.Options {
	return s.opts
}

// Join adds a player or rebinds a disconnected player who rejoins under the
// exact same name. The first player to join becomes host.
func (s *Session) Join(ctx context.Context, playerID model.PlayerID, name string) (*JoinResult, error) {
	return s.JoinAndBind(ctx, playerID, name, nil)
}

// JoinAndBind is Join with bind run under the session lock as soon as the
// player is added, before any event addressed to playerID can be sent.
// bind is not called when the join fails.
func (s *Session) JoinAndBind(ctx context.Context, playerID model.PlayerID, name string, bind func()) (*JoinResult, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < model.MinNameLength || n > model.MaxNameLength {
		return nil, model.ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[playerID]; ok {
		return nil, model.ErrAlreadyJoined
	}

	var player *model.Player
	for _, p := range s.players {
		if !strings.EqualFold(p.Name, name) {
			continue
		}
		// Connected names are taken; disconnected names are reserved for an exact match
		if p.Connected || p.Name != name {
			return nil, model.ErrNameTaken
		}
		player = p
		break
	}

	reconnected := player != nil
	if reconnected {
		delete(s.byID, player.ID)
		player.ID = playerID
		player.Connected = true
	} else {
		if s.status == model.StatusEnded {
			return nil, model.ErrSessionEnded
		}
		if len(s.players) >= s.opts.MaxPlayers {
			return nil, model.ErrSessionFull
		}
		player = &model.Player{
			ID:        playerID,
			Name:      name,
			Connected: true,
			JoinOrder: len(s.players),
			JoinedAt:  s.deps.Clock.Now(),
		}
		s.players = append(s.players, player)
	}
	s.byID[playerID] = player
	if bind != nil {
		bind()
	}

	if s.hostID == "" {
		s.hostID = playerID
		s.broadcast(model.EventHostChanged, model.HostChangedPayload{NewHost: player.Name})
	}

	s.logger.Info("player joined",
		slog.String("player", player.Name),
		slog.Bool("reconnected", reconnected),
		slog.Int("players", len(s.players)),
	)

	s.broadcast(model.EventPlayerJoined, model.PlayerJoinedPayload{
		Name:        player.Name,
		Reconnected: reconnected,
		Players:     s.playerViewsLocked(),
	})

	return &JoinResult{
		PlayerID:    playerID,
		IsHost:      s.hostID == playerID,
		Reconnected: reconnected,
		Snapshot:    s.snapshotLocked(player),
	}, nil
}

// Start begins the round. Only the host may start, and only once.
func (s *Session) Start(ctx context.Context, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.byID[playerID]; !ok || !p.Connected {
		return model.ErrPlayerNotFound
	}
	if s.status != model.StatusWaiting {
		return model.ErrWrongState
	}
	if s.hostID != playerID {
		return model.ErrNotHost
	}
	if s.connectedCountLocked() == 0 {
		return model.ErrWrongState
	}

	duration := time.Duration(s.opts.DurationSeconds) * time.Second
	s.status = model.StatusPlaying
	s.startedAt = s.deps.Clock.Now()
	s.gen++

	gen := s.gen
	s.round = s.deps.Scheduler.Start(duration,
		func(remaining int) { s.onTick(gen, remaining) },
		func() { s.onTimeUp(gen) },
	)
	s.deadline = s.round.Deadline()

	s.logger.Info("round started",
		slog.String("mode", string(s.opts.Mode)),
		slog.String("letters", string(s.letters)),
		slog.Int("duration_seconds", s.opts.DurationSeconds),
		slog.Int("players", len(s.players)),
	)

	// Each player gets a snapshot filtered for them
	for _, p := range s.players {
		if !p.Connected {
			continue
		}
		s.sendTo(p.ID, model.EventRoundStarted, model.RoundStartedPayload{Snapshot: s.snapshotLocked(p)})
	}
	s.sendTo("", model.EventRoundStarted, model.RoundStartedPayload{Snapshot: s.snapshotLocked(nil)})

	return nil
}

// Submit validates and claims a word for a player
func (s *Session) Submit(ctx context.Context, playerID model.PlayerID, raw string) (*model.SubmitResult, error) {
	s.mu.Lock()

	// A player who left must rejoin before claiming again
	player, ok := s.byID[playerID]
	if !ok || !player.Connected {
		s.mu.Unlock()
		return nil, model.ErrPlayerNotFound
	}

	switch s.status {
	case model.StatusWaiting:
		s.mu.Unlock()
		return nil, model.ErrWrongState
	case model.StatusEnded:
		s.mu.Unlock()
		return nil, model.ErrSessionEnded
	}

	now := s.deps.Clock.Now()
	if !now.Before(s.deadline) {
		// The timer has not fired yet but the round is over
		result := s.endLocked()
		s.mu.Unlock()
		s.archive(result)
		return nil, model.ErrSessionEnded
	}
	defer s.mu.Unlock()

	word, err := s.deps.Validator.Validate(raw, s.letters, s.opts.MinWordLength)
	if err != nil {
		return nil, err
	}

	if err := s.policy.check(s.ledger, player, word); err != nil {
		return nil, err
	}

	elapsed := now.Sub(s.startedAt).Seconds()
	claim := model.Claim{
		Word:           word,
		PlayerID:       player.ID,
		PlayerName:     player.Name,
		ElapsedSeconds: elapsed,
		Score:          s.policy.score(word, elapsed),
		ClaimedAt:      now,
	}
	s.ledger.add(claim)
	player.Score += claim.Score

	s.logger.Debug("word claimed",
		slog.String("player", player.Name),
		slog.String("word", word),
		slog.Int("score", claim.Score),
	)

	s.policy.announce(s, player, claim)

	return &model.SubmitResult{
		Word:       word,
		Score:      claim.Score,
		TotalScore: player.Score,
	}, nil
}

// Disconnect marks a player as gone and moves the host role if needed.
// Disconnecting an already disconnected player is a no-op.
func (s *Session) Disconnect(ctx context.Context, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.byID[playerID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	if !player.Connected {
		return nil
	}

	player.Connected = false
	s.logger.Info("player left", slog.String("player", player.Name))

	s.broadcast(model.EventPlayerLeft, model.PlayerLeftPayload{
		Name:    player.Name,
		Players: s.playerViewsLocked(),
	})

	if s.hostID == playerID {
		s.hostID = ""
		newHost := ""
		for _, p := range s.players {
			if p.Connected {
				s.hostID = p.ID
				newHost = p.Name
				break
			}
		}
		s.logger.Info("host changed", slog.String("old", player.Name), slog.String("new", newHost))
		s.broadcast(model.EventHostChanged, model.HostChangedPayload{
			OldHost: player.Name,
			NewHost: newHost,
		})
	}

	return nil
}

// Snapshot returns the session as seen by viewer. Unknown viewers see the spectator view.
func (s *Session) Snapshot(viewer model.PlayerID) model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(s.byID[viewer])
}

// Result returns the final results, or nil while the round is still running
func (s *Session) Result() *model.RoundResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Status returns the current phase
func (s *Session) Status() model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ActivityTime is the round start time, or the creation time if the round never started
func (s *Session) ActivityTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() {
		return s.createdAt
	}
	return s.startedAt
}

// ConnectedCount returns the number of connected players
func (s *Session) ConnectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectedCountLocked()
}

// Close cancels any running timer without ending the round
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.round != nil {
		s.round.Stop()
	}
}

func (s *Session) onTick(gen, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stale ticks from a cancelled timer are dropped
	if gen != s.gen || s.status != model.StatusPlaying {
		return
	}
	s.broadcast(model.EventTick, model.TickPayload{RemainingSeconds: remaining})
}

func (s *Session) onTimeUp(gen int) {
	s.mu.Lock()
	if gen != s.gen || s.status != model.StatusPlaying {
		s.mu.Unlock()
		return
	}
	result := s.endLocked()
	s.mu.Unlock()

	s.archive(result)
}

// endLocked moves a playing session to ended exactly once and returns the result to archive
func (s *Session) endLocked() *model.RoundResult {
	if s.status != model.StatusPlaying {
		return nil
	}

	s.status = model.StatusEnded
	s.endedAt = s.deps.Clock.Now()
	if s.round != nil {
		s.round.Stop()
	}

	s.result = &model.RoundResult{
		SessionID:     s.id,
		Mode:          s.opts.Mode,
		Letters:       string(s.letters),
		MinWordLength: s.opts.MinWordLength,
		Rankings:      scoring.Rank(s.players, s.ledger.claims),
		Claims:        s.ledger.all(),
		PossibleWords: s.deps.Enumerator.FindFormableWords(s.letters, s.opts.MinWordLength),
		StartedAt:     s.startedAt,
		EndedAt:       s.endedAt,
	}

	s.logger.Info("round ended",
		slog.Int("claims", len(s.result.Claims)),
		slog.Int("possible_words", len(s.result.PossibleWords)),
	)

	s.broadcast(model.EventRoundEnded, model.RoundEndedPayload{Result: *s.result})
	return s.result
}

func (s *Session) archive(result *model.RoundResult) {
	if result == nil || s.deps.Archiver == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	if err := s.deps.Archiver.SaveRoundResult(ctx, result); err != nil {
		s.logger.Error("failed to archive round result", slog.String("error", err.Error()))
	}
}

func (s *Session) snapshotLocked(viewer *model.Player) model.Snapshot {
	snap := model.Snapshot{
		ID:              s.id,
		Mode:            s.opts.Mode,
		Status:          s.status,
		MinWordLength:   s.opts.MinWordLength,
		DurationSeconds: s.opts.DurationSeconds,
		Players:         s.playerViewsLocked(),
		Claims:          s.policy.visibleClaims(s.ledger, viewer),
		Result:          s.result,
	}

	if s.status == model.StatusWaiting {
		snap.Letters = letters.Mask(s.letters, model.MaskedLetter)
	} else {
		snap.Letters = string(s.letters)
	}

	switch s.status {
	case model.StatusWaiting:
		snap.RemainingSeconds = s.opts.DurationSeconds
	case model.StatusPlaying:
		snap.RemainingSeconds = scheduler.Remaining(s.deadline, s.deps.Clock.Now())
	}

	if host, ok := s.byID[s.hostID]; ok {
		snap.HostName = host.Name
	}
	if viewer != nil {
		snap.YourName = viewer.Name
	}

	return snap
}

func (s *Session) playerViewsLocked() []model.PlayerView {
	views := make([]model.PlayerView, len(s.players))
	for i, p := range s.players {
		views[i] = model.PlayerView{
			Name:      p.Name,
			Score:     p.Score,
			Connected: p.Connected,
			IsHost:    p.ID == s.hostID,
		}
	}
	return views
}

func (s *Session) connectedCountLocked() int {
	n := 0
	for _, p := range s.players {
		if p.Connected {
			n++
		}
	}
	return n
}

func (s *Session) event(t model.EventType, payload any) model.Event {
	return model.Event{
		Type:      t,
		Timestamp: s.deps.Clock.Now(),
		SessionID: s.id,
		Payload:   payload,
	}
}

func (s *Session) broadcast(t model.EventType, payload any) {
	s.deps.Notifier.Broadcast(s.id, s.event(t, payload))
}

func (s *Session) sendTo(playerID model.PlayerID, t model.EventType, payload any) {
	s.deps.Notifier.SendTo(s.id, playerID, s.event(t, payload))
}
