package api

import (
	"net/http"

	"github.com/Bradwave/parabolawhat/internal/equation"
	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/quadratic"
	"github.com/Bradwave/parabolawhat/internal/scoring"
	"github.com/Bradwave/parabolawhat/internal/stroke"
)

const maxDistractors = 20

// questionJSON is the wire form of a question. Text is recomputed from
// the coefficients, so clients may send coefficients only.
type questionJSON struct {
	Coeffs   quadratic.Quadratic `json:"coefficients"`
	Text     string              `json:"text,omitempty"`
	Equation string              `json:"equation,omitempty"`
}

func toQuestionJSON(q problemgen.Question) questionJSON {
	return questionJSON{Coeffs: q.Coeffs, Text: q.Text, Equation: q.Equation()}
}

func toQuestionsJSON(qs []problemgen.Question) []questionJSON {
	out := make([]questionJSON, len(qs))
	for i, q := range qs {
		out[i] = toQuestionJSON(q)
	}
	return out
}

func (q questionJSON) question() (problemgen.Question, bool) {
	if q.Coeffs.A == 0 {
		return problemgen.Question{}, false
	}
	return problemgen.NewQuestion(q.Coeffs), true
}

// GET /api/question
func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	q := s.gen.Generate()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, toQuestionJSON(q))
}

type distractorsReq struct {
	Question questionJSON `json:"question"`
	Count    int          `json:"count"`
}

// POST /api/distractors
func (s *Server) handleDistractors(w http.ResponseWriter, r *http.Request) {
	var req distractorsReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	q, ok := req.Question.question()
	if !ok {
		writeErr(w, http.StatusBadRequest, "question.coefficients.a must not be 0")
		return
	}
	if req.Count == 0 {
		req.Count = problemgen.ChoiceCount - 1
	}
	if req.Count < 0 || req.Count > maxDistractors {
		writeErr(w, http.StatusBadRequest, "count must be between 1 and 20")
		return
	}

	s.mu.Lock()
	ds, err := s.gen.GenerateDistractors(q, req.Count)
	s.mu.Unlock()
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"distractors": toQuestionsJSON(ds)})
}

type parseReq struct {
	Text string `json:"text"`
}

type parseResp struct {
	equation.Parsed
	Canonical string `json:"canonical"`
}

// POST /api/parse
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	p := equation.Parse(req.Text)
	writeJSON(w, http.StatusOK, parseResp{Parsed: p, Canonical: quadratic.Format(p.Quadratic())})
}

type pointsReq struct {
	Points []stroke.Point `json:"points"`
}

// POST /api/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req pointsReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	f, ok := stroke.Analyze(stroke.New(req.Points...))
	if !ok {
		writeErr(w, http.StatusUnprocessableEntity, "stroke too short")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

type scoreChoiceReq struct {
	Candidate questionJSON `json:"candidate"`
	Correct   questionJSON `json:"correct"`
}

// POST /api/score/choice
func (s *Server) handleScoreChoice(w http.ResponseWriter, r *http.Request) {
	var req scoreChoiceReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	candidate, ok1 := req.Candidate.question()
	correct, ok2 := req.Correct.question()
	if !ok1 || !ok2 {
		writeErr(w, http.StatusBadRequest, "coefficients.a must not be 0")
		return
	}
	ok := scoring.ScoreChoice(candidate, correct)
	points := 0
	if ok {
		points = s.policy.ChoicePoints
	}
	writeJSON(w, http.StatusOK, map[string]any{"correct": ok, "points": points})
}

type scoreTextReq struct {
	Text    string       `json:"text"`
	Correct questionJSON `json:"correct"`
}

type scoreTextResp struct {
	scoring.Result
	Perfect  bool     `json:"perfect"`
	Awarded  int      `json:"awarded"`
	Messages []string `json:"messages"`
}

// POST /api/score/text
func (s *Server) handleScoreText(w http.ResponseWriter, r *http.Request) {
	var req scoreTextReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	correct, ok := req.Correct.question()
	if !ok {
		writeErr(w, http.StatusBadRequest, "correct.coefficients.a must not be 0")
		return
	}
	res := scoring.ScoreFreeText(equation.Parse(req.Text), correct.Coeffs)
	writeJSON(w, http.StatusOK, scoreTextResp{
		Result:   res,
		Perfect:  res.Perfect(),
		Awarded:  res.Awarded(s.policy.PerfectBonus),
		Messages: res.Summary(),
	})
}

type scoreDrawingReq struct {
	Points  []stroke.Point `json:"points"`
	Correct questionJSON   `json:"correct"`
}

type scoreDrawingResp struct {
	scoring.DrawingResult
	Features stroke.Features `json:"features"`
	Points   int             `json:"points"`
}

// POST /api/score/drawing
func (s *Server) handleScoreDrawing(w http.ResponseWriter, r *http.Request) {
	var req scoreDrawingReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	correct, ok := req.Correct.question()
	if !ok {
		writeErr(w, http.StatusBadRequest, "correct.coefficients.a must not be 0")
		return
	}
	f, ok := stroke.Analyze(stroke.New(req.Points...))
	if !ok {
		writeErr(w, http.StatusUnprocessableEntity, "stroke too short")
		return
	}
	res := scoring.ScoreDrawing(f, correct.Coeffs)
	resp := scoreDrawingResp{DrawingResult: res, Features: f}
	if res.OK {
		resp.Points = s.policy.DrawingPoints
	}
	writeJSON(w, http.StatusOK, resp)
}
