package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
	"github.com/vncsmyrnk/ballot/internal/core/services"
)

const gateWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type ResultsHandler struct {
	gate         *services.UnlockGate
	results      ports.ResultsService
	pollInterval time.Duration
}

func NewResultsHandler(gate *services.UnlockGate, results ports.ResultsService, pollInterval time.Duration) *ResultsHandler {
	return &ResultsHandler{
		gate:         gate,
		results:      results,
		pollInterval: pollInterval,
	}
}

type resultsRequest struct {
	Password string `json:"password" validate:"required"`
}

type resultPostResponse struct {
	domain.ResultPost
	TotalVotes int64                   `json:"total_votes"`
	Leader     *domain.ResultCandidate `json:"leader,omitempty"`
}

type resultsResponse struct {
	Results []resultPostResponse   `json:"results"`
	Summary *domain.ResultsSummary `json:"summary,omitempty"`
}

func newResultsResponse(res *domain.Results) resultsResponse {
	resp := resultsResponse{
		Results: make([]resultPostResponse, 0, len(res.Results)),
		Summary: res.Summary,
	}
	for _, p := range res.Results {
		post := resultPostResponse{ResultPost: p, TotalVotes: p.TotalVotes()}
		if leader, ok := p.Leader(); ok {
			post.Leader = &leader
		}
		resp.Results = append(resp.Results, post)
	}
	return resp
}

func (h *ResultsHandler) Gate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.gate.Status())
}

// GateWS pushes the gate status on connect and on every poll tick until the
// client goes away.
func (h *ResultsHandler) GateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "gate websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// the client never sends anything; reading only notices it leaving
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.gate.Watch(ctx, h.pollInterval, func(st services.GateStatus) {
		_ = conn.SetWriteDeadline(time.Now().Add(gateWriteTimeout))
		if err := conn.WriteJSON(st); err != nil {
			cancel()
		}
	})

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *ResultsHandler) Results(w http.ResponseWriter, r *http.Request) {
	var req resultsRequest
	if err := requests.decode(r, &req, false); err != nil {
		writeError(w, r, err, adminReauth)
		return
	}

	res, err := h.results.Results(r.Context(), req.Password)
	if err != nil {
		writeError(w, r, err, reauth{})
		return
	}
	writeJSON(w, http.StatusOK, newResultsResponse(res))
}
