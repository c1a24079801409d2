package api

import (
	"fmt"
	"net/http"

	"github.com/Bradwave/parabolawhat/internal/explain"
	"github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/stroke"
)

type roundJSON struct {
	Mode        session.Mode   `json:"mode"`
	Prompt      string         `json:"prompt"`
	Question    questionJSON   `json:"question"`
	Options     []questionJSON `json:"options,omitempty"`
	AllowsRetry bool           `json:"allowsRetry"`
}

type statsJSON struct {
	session.Stats
	Accuracy int `json:"accuracy"`
}

type sessionJSON struct {
	ID     string           `json:"id"`
	State  string           `json:"state"`
	Mode   session.Mode     `json:"mode,omitempty"`
	Streak int              `json:"streak"`
	Stats  statsJSON        `json:"stats"`
	Round  *roundJSON       `json:"round,omitempty"`
	Last   *session.Outcome `json:"last,omitempty"`
}

func toStatsJSON(st session.Stats) statsJSON {
	return statsJSON{Stats: st, Accuracy: st.Accuracy()}
}

// snapshot must be called with mu held.
func (s *Server) snapshot() sessionJSON {
	out := sessionJSON{
		ID:     s.sess.ID(),
		State:  s.sess.State().String(),
		Mode:   s.sess.Mode(),
		Streak: s.sess.Streak(),
		Stats:  toStatsJSON(s.sess.Stats()),
	}
	if rd := s.sess.Round(); rd != nil {
		rj := &roundJSON{
			Mode:        rd.Mode(),
			Prompt:      rd.Mode().Prompt(),
			Question:    toQuestionJSON(rd.Question()),
			AllowsRetry: rd.Mode().AllowsRetry(),
		}
		switch c := rd.(type) {
		case *session.PickPlotRound:
			rj.Options = toQuestionsJSON(c.Options())
		case *session.PickEqRound:
			rj.Options = toQuestionsJSON(c.Options())
		}
		out.Round = rj
	}
	if last, ok := s.sess.Last(); ok {
		out.Last = &last
	}
	return out
}

// GET /api/session
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.snapshot())
}

type startReq struct {
	Mode string `json:"mode"`
}

// POST /api/session/start
//
// Starting while a quiz is running abandons it first.
func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := session.ParseMode(req.Mode)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess.State() != session.StateMenu {
		s.sess.Exit()
	}
	if err := s.sess.Start(mode); err != nil {
		writeDomainErr(w, err)
		return
	}
	if err := s.sess.Present(); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

type answerReq struct {
	Choice *int           `json:"choice,omitempty"`
	Text   *string        `json:"text,omitempty"`
	Points []stroke.Point `json:"points,omitempty"`
}

// POST /api/session/answer
func (s *Server) handleSessionAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	kinds := 0
	for _, set := range []bool{req.Choice != nil, req.Text != nil, req.Points != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		writeErr(w, http.StatusBadRequest, "exactly one of choice, text or points is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	ctx := r.Context()
	switch {
	case req.Choice != nil:
		_, err = s.sess.SubmitChoice(ctx, *req.Choice)
	case req.Text != nil:
		_, err = s.sess.SubmitText(ctx, *req.Text)
	default:
		_, err = s.sess.SubmitStroke(ctx, stroke.New(req.Points...))
	}
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

// POST /api/session/retry
func (s *Server) handleSessionRetry(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sess.Retry(); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

// POST /api/session/next
func (s *Server) handleSessionNext(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sess.Next(); err != nil {
		writeDomainErr(w, err)
		return
	}
	if err := s.sess.Present(); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

// POST /api/session/exit
func (s *Server) handleSessionExit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := s.sess.Exit()
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": sum,
		"stats":   toStatsJSON(s.sess.Stats()),
	})
}

// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, toStatsJSON(s.sess.Stats()))
}

// DELETE /api/stats
func (s *Server) handleResetStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sess.ResetStats(r.Context()); err != nil {
		s.logger.Error("reset stats failed", "err", err)
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsJSON(s.sess.Stats()))
}

type explainReq struct {
	Question *questionJSON `json:"question,omitempty"`
	Mode     string        `json:"mode,omitempty"`
	Answer   string        `json:"answer,omitempty"`
	Feedback []string      `json:"feedback,omitempty"`
}

// POST /api/explain
//
// Without a question in the body the session's latest outcome is
// explained.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	if !s.explain.Enabled() {
		writeDomainErr(w, explain.ErrUnavailable)
		return
	}
	var req explainReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := s.explainInput(req)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	// The model call runs without mu so the quiz stays responsive.
	exp, err := s.explain.Explain(r.Context(), in)
	if err != nil {
		s.logger.Warn("explanation failed", "err", err)
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) explainInput(req explainReq) (explain.Input, error) {
	if req.Question != nil {
		q, ok := req.Question.question()
		if !ok {
			return explain.Input{}, fmt.Errorf("%w: question.coefficients.a must not be 0", errBadRequest)
		}
		mode := session.ModeTypeEq
		if req.Mode != "" {
			m, err := session.ParseMode(req.Mode)
			if err != nil {
				return explain.Input{}, err
			}
			mode = m
		}
		return explain.Input{Question: q, Mode: mode, Answer: req.Answer, Feedback: req.Feedback}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rd := s.sess.Round()
	last, ok := s.sess.Last()
	if rd == nil || !ok {
		return explain.Input{}, errNothingToExplain
	}
	return explain.InputFromOutcome(rd.Question(), rd.Mode(), last), nil
}

var errNothingToExplain = fmt.Errorf("%w: no answered round to explain", session.ErrInvalidState)
