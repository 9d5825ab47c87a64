package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"nhooyr.io/websocket"

	"github.com/vovakirdan/tttarena/internal/engine"
	"github.com/vovakirdan/tttarena/internal/runner"
)

// LiveMessage is the JSON envelope sent on the live stream.
type LiveMessage struct {
	Type    string          `json:"type"` // "step", "result" or "error"
	Payload json.RawMessage `json:"payload"`
}

// StepPayload describes the state after one placement.
type StepPayload struct {
	Step     int      `json:"step"`
	Score    int      `json:"score"`
	Lines    int      `json:"lines"`
	Current  string   `json:"current"`
	Next     string   `json:"next"`
	GameOver bool     `json:"game_over"`
	Board    []string `json:"board"`
}

func stepPayload(s engine.Snapshot) StepPayload {
	p := StepPayload{
		Step:     s.Steps,
		Score:    s.Score,
		Lines:    s.Lines,
		Current:  s.Current.String(),
		Next:     s.Next.String(),
		GameOver: s.GameOver,
	}
	if s.Board != nil {
		p.Board = strings.Split(strings.TrimSuffix(s.Board.String(), "\n"), "\n")
	}
	return p
}

// wsObserver streams placements to a websocket. The first failed write
// cancels the run.
type wsObserver struct {
	ctx    context.Context
	cancel context.CancelFunc
	conn   *websocket.Conn
	err    error
}

func (o *wsObserver) ObserveStep(_, after engine.Snapshot) {
	if o.err != nil {
		return
	}
	if err := writeLive(o.ctx, o.conn, "step", stepPayload(after)); err != nil {
		o.err = err
		o.cancel()
	}
}

// handleLive starts a run and streams every placement, then the stored result.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	if s.simulate == nil {
		s.writeError(w, r, http.StatusNotImplemented, "running simulations is disabled")
		return
	}

	req, err := parseRunQuery(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Warn("websocket accept", "error", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// The client only listens; reading keeps control frames flowing and
	// notices when it goes away.
	ctx := conn.CloseRead(r.Context())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	obs := &wsObserver{ctx: ctx, cancel: cancel, conn: conn}
	rec, err := s.simulate(ctx, req, obs)
	if err != nil {
		writeLive(ctx, conn, "error", ErrorResponse{Error: err.Error()})
		return
	}
	if obs.err != nil || rec.Reason == string(runner.StopCanceled) {
		s.logger.Debug("live viewer left", "seed", req.Seed)
		return
	}

	id, err := s.store.SaveRun(rec)
	if err != nil {
		s.logger.Error("cannot save live run", "error", err)
	}
	rec.ID = id
	writeLive(ctx, conn, "result", rec)
}

// parseRunQuery reads a RunRequest from ?seed=&bot=&max_steps=.
func parseRunQuery(r *http.Request) (RunRequest, error) {
	q := r.URL.Query()
	req := RunRequest{Bot: q.Get("bot")}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, errors.New("seed must be an integer")
		}
		req.Seed = seed
	}
	if v := q.Get("max_steps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, errors.New("max_steps must be a non-negative integer")
		}
		req.MaxSteps = n
	}
	return req, nil
}

func writeLive(ctx context.Context, conn *websocket.Conn, msgType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(LiveMessage{Type: msgType, Payload: raw})
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, msg)
}
