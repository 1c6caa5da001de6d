package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordrush/internal/api"
	"github.com/mcoot/wordrush/internal/api/response"
	"github.com/mcoot/wordrush/internal/factory"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/testutil"
)

// testServer wires the router over a mocked application.
// Every generated bag is AAAARRRRRRRR.
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestDictionary())
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:     testutil.NopLogger(),
		Registry:   app.Registry,
		Storage:    app.Storage,
		Dictionary: app.DictionaryService,
		HubManager: app.HubManager,
		WSManager:  app.WSManager,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}](t, rr).Error.Code
}

// createSession creates a session with the given id and options
func (ts *testServer) createSession(t *testing.T, id string, body map[string]any) {
	t.Helper()
	ts.app.MockRandom.QueueString(id)
	rr := ts.request(http.MethodPost, "/api/v1/sessions", body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

// join adds a player and returns their token
func (ts *testServer) join(t *testing.T, id, name string) string {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/join", map[string]string{"name": name}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[response.JoinResponse](t, rr).PlayerID
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, rr.Code)

		health := decode[response.HealthResponse](t, rr)
		assert.Equal(t, "ok", health.Status)
		assert.Equal(t, 8, health.DictionarySize)
		assert.Equal(t, 0, health.ActiveSessions)
	}
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueString("ABC234")

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{"mode": "exclusive", "duration_seconds": 90}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	created := decode[response.CreateSessionResponse](t, rr)
	assert.Equal(t, "ABC234", created.SessionID)
	assert.Equal(t, "exclusive", created.Options.Mode)
	assert.Equal(t, 90, created.Options.DurationSeconds)
	assert.Equal(t, 12, created.Options.LetterCount)
}

func TestCreateSessionWithoutBody(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueString("ABC234")

	rr := ts.request(http.MethodPost, "/api/v1/sessions", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "free_for_all", decode[response.CreateSessionResponse](t, rr).Options.Mode)
}

func TestCreateSessionErrors(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{"mode": "teams"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_OPTIONS", errorCode(t, rr))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader("{nope"))
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rr))
}

func TestJoinSession(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC234", nil)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/abc234/join", map[string]string{"name": "Alice"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	joined := decode[response.JoinResponse](t, rr)
	assert.NotEmpty(t, joined.PlayerID)
	assert.True(t, joined.IsHost)
	assert.Equal(t, "waiting", joined.Snapshot.Status)
	assert.Equal(t, "????????????", joined.Snapshot.Letters)
	assert.Equal(t, "Alice", joined.Snapshot.You)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC234/join", map[string]string{"name": "ALICE"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "NAME_TAKEN", errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC234/join", map[string]string{"name": "  "}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_NAME", errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions/NOPE22/join", map[string]string{"name": "Bob"}, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", errorCode(t, rr))
}

func TestStartSession(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC234", nil)
	host := ts.join(t, "ABC234", "Alice")
	guest := ts.join(t, "ABC234", "Bob")

	rr := ts.request(http.MethodPost, "/api/v1/sessions/ABC234/start", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC234/start", nil, guest)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "NOT_HOST", errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC234/start", nil, host)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC234/start", nil, host)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "WRONG_STATE", errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/sessions/ABC234", nil, "")
	snap := decode[response.Snapshot](t, rr)
	assert.Equal(t, "playing", snap.Status)
	assert.ElementsMatch(t, []rune("AAAARRRRRRRR"), []rune(snap.Letters))
	assert.Equal(t, 60, snap.RemainingSeconds)
}

func TestSubmitWords(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC234", nil)
	host := ts.join(t, "ABC234", "Alice")
	guest := ts.join(t, "ABC234", "Bob")

	rr := ts.request(http.MethodPost, "/api/v1/sessions/ABC234/words", map[string]string{"word": "ara"}, host)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "WRONG_STATE", errorCode(t, rr))

	require.Equal(t, http.StatusNoContent, ts.request(http.MethodPost, "/api/v1/sessions/ABC234/start", nil, host).Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC234/words", map[string]string{"word": "ara"}, host)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, response.SubmitResponse{Word: "ARA", Score: 180, TotalScore: 180}, decode[response.SubmitResponse](t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC234/words", map[string]string{"word": "ARA"}, host)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "ALREADY_USED_BY_YOU", errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC234/words", map[string]string{"word": "hund"}, guest)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	apiErr := decode[struct {
		Error struct {
			Code   string `json:"code"`
			Reason string `json:"reason"`
		} `json:"error"`
	}](t, rr).Error
	assert.Equal(t, "VALIDATION_FAILED", apiErr.Code)
	assert.Equal(t, "unformable", apiErr.Reason)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC234/words", map[string]string{"word": "ara"}, "stranger")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "PLAYER_NOT_FOUND", errorCode(t, rr))
}

func TestSnapshotFiltersClaimsByViewer(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC234", nil)
	host := ts.join(t, "ABC234", "Alice")
	guest := ts.join(t, "ABC234", "Bob")
	require.Equal(t, http.StatusNoContent, ts.request(http.MethodPost, "/api/v1/sessions/ABC234/start", nil, host).Code)
	require.Equal(t, http.StatusOK, ts.request(http.MethodPost, "/api/v1/sessions/ABC234/words", map[string]string{"word": "rar"}, host).Code)

	own := decode[response.Snapshot](t, ts.request(http.MethodGet, "/api/v1/sessions/ABC234", nil, host))
	other := decode[response.Snapshot](t, ts.request(http.MethodGet, "/api/v1/sessions/ABC234", nil, guest))
	spectator := decode[response.Snapshot](t, ts.request(http.MethodGet, "/api/v1/sessions/ABC234", nil, ""))
	viaQuery := decode[response.Snapshot](t, ts.request(http.MethodGet, "/api/v1/sessions/ABC234?player="+host, nil, ""))

	assert.Len(t, own.Claims, 1)
	assert.Empty(t, other.Claims)
	assert.Empty(t, spectator.Claims)
	assert.Len(t, viaQuery.Claims, 1)
	assert.Equal(t, "Alice", own.You)
}

func TestLeaveSession(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC234", nil)
	host := ts.join(t, "ABC234", "Alice")
	ts.join(t, "ABC234", "Bob")

	rr := ts.request(http.MethodPost, "/api/v1/sessions/ABC234/leave", nil, host)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	snap := decode[response.Snapshot](t, ts.request(http.MethodGet, "/api/v1/sessions/ABC234", nil, ""))
	assert.Equal(t, "Bob", snap.Host)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC234/leave", nil, "stranger")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLeftPlayerCannotSubmit(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC234", nil)
	host := ts.join(t, "ABC234", "Alice")
	bob := ts.join(t, "ABC234", "Bob")
	require.Equal(t, http.StatusNoContent, ts.request(http.MethodPost, "/api/v1/sessions/ABC234/start", nil, host).Code)

	require.Equal(t, http.StatusNoContent, ts.request(http.MethodPost, "/api/v1/sessions/ABC234/leave", nil, bob).Code)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/ABC234/words", map[string]string{"word": "ara"}, bob)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "PLAYER_NOT_FOUND", errorCode(t, rr))
}

func TestResultsLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC234", map[string]any{"duration_seconds": 1, "min_word_length": 2})
	host := ts.join(t, "ABC234", "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/sessions/ABC234/results", nil, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "WRONG_STATE", errorCode(t, rr))

	require.Equal(t, http.StatusNoContent, ts.request(http.MethodPost, "/api/v1/sessions/ABC234/start", nil, host).Code)
	require.Equal(t, http.StatusOK, ts.request(http.MethodPost, "/api/v1/sessions/ABC234/words", map[string]string{"word": "ar"}, host).Code)

	// Countdown reaches zero
	ts.app.MockClock.Tick(time.Second)

	require.Eventually(t, func() bool {
		return ts.request(http.MethodGet, "/api/v1/sessions/ABC234/results", nil, "").Code == http.StatusOK
	}, time.Second, 5*time.Millisecond)

	live := decode[response.RoundResult](t, ts.request(http.MethodGet, "/api/v1/sessions/ABC234/results", nil, ""))
	assert.Equal(t, []string{"ARA", "ARR", "RAR", "AR"}, live.PossibleWords)
	require.Len(t, live.Rankings, 1)
	assert.Equal(t, "Alice", live.Rankings[0].Player)
	assert.Equal(t, 1, live.Rankings[0].WordCount)

	// Still served from storage after eviction
	require.Eventually(t, func() bool {
		exists, _ := ts.app.Storage.RoundResultExists(context.Background(), "ABC234")
		return exists
	}, time.Second, 5*time.Millisecond)
	ts.app.Registry.Remove("ABC234")

	rr = ts.request(http.MethodGet, "/api/v1/sessions/ABC234", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/ABC234/results", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, live.PossibleWords, decode[response.RoundResult](t, rr).PossibleWords)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/NOPE22/results", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "RESULT_NOT_FOUND", errorCode(t, rr))
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC234", nil)
	host := ts.join(t, "ABC234", "Alice")

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/sessions/ABC234/events?player="+host, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
				events <- name
			}
		}
		close(events)
	}()

	next := func() string {
		select {
		case name := <-events:
			return name
		case <-time.After(2 * time.Second):
			t.Fatal("no event received")
			return ""
		}
	}

	assert.Equal(t, "connected", next())
	assert.Equal(t, "snapshot", next())

	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub("ABC234")
		return hub != nil && hub.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	ts.join(t, "ABC234", "Bob")
	assert.Equal(t, string(model.EventPlayerJoined), next())
}

func TestWebSocketThroughRouter(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC234", nil)

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/ABC234/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "join", "name": "Alice", "request_id": "1"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	for {
		var frame struct {
			Type      string `json:"type"`
			RequestID string `json:"request_id"`
			OK        bool   `json:"ok"`
		}
		require.NoError(t, conn.ReadJSON(&frame))
		if frame.Type == "ack" {
			assert.Equal(t, "1", frame.RequestID)
			assert.True(t, frame.OK)
			break
		}
	}

	snap := decode[response.Snapshot](t, ts.request(http.MethodGet, "/api/v1/sessions/ABC234", nil, ""))
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "Alice", snap.Players[0].Name)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/NOPE22/ws", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRecentResults(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	ended := time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC)

	require.NoError(t, ts.app.Storage.SaveRoundResult(ctx, &model.RoundResult{
		SessionID: "OLD222",
		Mode:      model.ModeFreeForAll,
		Rankings: []model.Ranking{
			{Rank: 1, PlayerName: "Alice", Score: 180},
			{Rank: 1, PlayerName: "Bob", Score: 180},
		},
		EndedAt: ended,
	}))
	require.NoError(t, ts.app.Storage.SaveRoundResult(ctx, &model.RoundResult{
		SessionID:     "NEW222",
		Mode:          model.ModeExclusive,
		Rankings:      []model.Ranking{{Rank: 1, PlayerName: "Cleo", Score: 240, WordCount: 1}},
		Claims:        []model.Claim{{Word: "HUND", PlayerName: "Cleo", Score: 240}},
		PossibleWords: []string{"HUND", "KATT"},
		EndedAt:       ended.Add(time.Minute),
	}))

	rr := ts.request(http.MethodGet, "/api/v1/results", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	recent := decode[response.RecentResultsResponse](t, rr).Results
	require.Len(t, recent, 2)
	assert.Equal(t, "NEW222", recent[0].SessionID)
	assert.Equal(t, "Cleo", recent[0].Winner)
	assert.Equal(t, 1, recent[0].WordsFound)
	assert.Equal(t, 2, recent[0].PossibleWords)
	assert.Equal(t, "OLD222", recent[1].SessionID)
	assert.Empty(t, recent[1].Winner)
	assert.Equal(t, 180, recent[1].TopScore)

	rr = ts.request(http.MethodGet, "/api/v1/results?limit=1", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.RecentResultsResponse](t, rr).Results, 1)

	rr = ts.request(http.MethodGet, "/api/v1/results?limit=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rr))
}
