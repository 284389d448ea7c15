// Package lambda adapts the question answering pipeline to an AWS
// Lambda behind API Gateway. The request and response contract matches
// the HTTP API: same bodies, same status codes, same CORS headers.
package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
)

// corsHeaders are attached to every response so browser clients can
// call the function URL directly.
var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST,OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

// Event is the accepted invocation shape. An API Gateway proxy event
// carries the request JSON in Body; a direct invocation (console test,
// aws lambda invoke) carries the question at the top level instead.
type Event struct {
	Question        string `json:"question"`
	Body            string `json:"body"`
	IsBase64Encoded bool   `json:"isBase64Encoded"`
}

// Handler answers API Gateway proxy requests and direct invocations.
type Handler struct {
	ask    driving.AskService
	logger *zap.Logger
}

// NewHandler creates a Lambda handler around the ask service.
func NewHandler(ask driving.AskService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{ask: ask, logger: logger}
}

type askRequest struct {
	Question string `json:"question"`
	Body     string `json:"body"`
}

type askResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

type errResponse struct {
	Error string `json:"error"`
}

// Handle processes one event.
func (h *Handler) Handle(ctx context.Context, event Event) (events.APIGatewayProxyResponse, error) {
	question := extractQuestion(event)
	if strings.TrimSpace(question) == "" {
		return respond(400, errResponse{Error: "No question provided"})
	}

	answer, err := h.ask.Ask(ctx, question)
	if err != nil {
		if domain.IsValidation(err) {
			return respond(400, errResponse{Error: "No question provided"})
		}
		h.logger.Error("ask failed", zap.Error(err))
		return respond(500, errResponse{Error: err.Error()})
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}

	return respond(200, askResponse{
		Question: answer.Question,
		Answer:   answer.Text,
		Sources:  sources,
	})
}

// extractQuestion reads the question from the event. An event without a
// body is a direct invocation and the top-level question field wins;
// otherwise the body JSON carries it, tolerating base64 encoding and a
// nested "body" JSON string.
func extractQuestion(event Event) string {
	if event.Body == "" {
		return event.Question
	}

	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return ""
		}
		body = string(decoded)
	}

	var req askRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return ""
	}
	if req.Question != "" {
		return req.Question
	}
	if req.Body != "" {
		var inner askRequest
		if err := json.Unmarshal([]byte(req.Body), &inner); err != nil {
			return ""
		}
		return inner.Question
	}
	return ""
}

func respond(status int, body any) (events.APIGatewayProxyResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: 500, Headers: corsHeaders}, nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(payload),
	}, nil
}
