package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
)

// askRequest is the POST /ask body. Some API gateways wrap the real
// payload in a "body" string, so both shapes are accepted.
type askRequest struct {
	Question string `json:"question"`
	Body     string `json:"body"`
}

// askResponse is the success body.
type askResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

// errResponse is the failure body. Only the message is exposed; detail
// stays in the server log.
type errResponse struct {
	Error string `json:"error"`
}

type askHandler struct {
	ask    driving.AskService
	logger *zap.Logger
}

func (h *askHandler) handleAsk(w http.ResponseWriter, r *http.Request) {
	question, err := decodeQuestion(r)
	if err != nil || strings.TrimSpace(question) == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errResponse{Error: "No question provided"})
		return
	}

	answer, err := h.ask.Ask(r.Context(), question)
	if err != nil {
		if domain.IsValidation(err) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errResponse{Error: "No question provided"})
			return
		}
		h.logger.Error("ask failed", zap.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errResponse{Error: err.Error()})
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, askResponse{
		Question: answer.Question,
		Answer:   answer.Text,
		Sources:  sources,
	})
}

// decodeQuestion pulls the question out of the request body, unwrapping
// a nested JSON string body when present.
func decodeQuestion(r *http.Request) (string, error) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}

	if req.Question != "" {
		return req.Question, nil
	}

	if req.Body != "" {
		var inner askRequest
		if err := json.Unmarshal([]byte(req.Body), &inner); err != nil {
			return "", err
		}
		return inner.Question, nil
	}

	return "", nil
}
