package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

type stubAskService struct {
	answer domain.Answer
	err    error
	asked  string
}

func (s *stubAskService) Ask(_ context.Context, question string) (domain.Answer, error) {
	s.asked = question
	if s.err != nil {
		return domain.Answer{}, s.err
	}
	answer := s.answer
	answer.Question = question
	return answer, nil
}

func invoke(t *testing.T, h *Handler, body string, base64Encoded bool) (events.APIGatewayProxyResponse, map[string]any) {
	t.Helper()
	return invokeEvent(t, h, Event{Body: body, IsBase64Encoded: base64Encoded})
}

func invokeEvent(t *testing.T, h *Handler, event Event) (events.APIGatewayProxyResponse, map[string]any) {
	t.Helper()

	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &decoded))
	return resp, decoded
}

func TestHandle_Success(t *testing.T) {
	svc := &stubAskService{answer: domain.Answer{
		Text:    "An answer.",
		Sources: []string{"doc.txt"},
	}}
	h := NewHandler(svc, nil)

	resp, body := invoke(t, h, `{"question": "why?"}`, false)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "why?", body["question"])
	assert.Equal(t, "An answer.", body["answer"])
	assert.Equal(t, []any{"doc.txt"}, body["sources"])
}

func TestHandle_DirectInvocation(t *testing.T) {
	svc := &stubAskService{answer: domain.Answer{Text: "On the mat."}}
	h := NewHandler(svc, nil)

	var event Event
	require.NoError(t, json.Unmarshal([]byte(`{"question": "Where did the cat sit?"}`), &event))

	resp, body := invokeEvent(t, h, event)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Where did the cat sit?", svc.asked)
	assert.Equal(t, "On the mat.", body["answer"])
}

func TestHandle_DirectInvocation_BlankQuestion(t *testing.T) {
	h := NewHandler(&stubAskService{}, nil)

	resp, decoded := invokeEvent(t, h, Event{Question: "   "})

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "No question provided", decoded["error"])
}

func TestHandle_BodyTakesPrecedence(t *testing.T) {
	svc := &stubAskService{answer: domain.Answer{Text: "ok"}}
	h := NewHandler(svc, nil)

	resp, _ := invokeEvent(t, h, Event{
		Question: "ignored",
		Body:     `{"question": "from the body"}`,
	})

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "from the body", svc.asked)
}

func TestHandle_NestedBody(t *testing.T) {
	svc := &stubAskService{answer: domain.Answer{Text: "ok"}}
	h := NewHandler(svc, nil)

	resp, _ := invoke(t, h, `{"body": "{\"question\": \"nested?\"}"}`, false)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "nested?", svc.asked)
}

func TestHandle_Base64Body(t *testing.T) {
	svc := &stubAskService{answer: domain.Answer{Text: "ok"}}
	h := NewHandler(svc, nil)

	encoded := base64.StdEncoding.EncodeToString([]byte(`{"question": "encoded?"}`))
	resp, _ := invoke(t, h, encoded, true)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "encoded?", svc.asked)
}

func TestHandle_MissingQuestion(t *testing.T) {
	h := NewHandler(&stubAskService{}, nil)

	for name, body := range map[string]string{
		"empty body":     "",
		"empty object":   `{}`,
		"blank question": `{"question": " "}`,
		"bad json":       `{`,
	} {
		t.Run(name, func(t *testing.T) {
			resp, decoded := invoke(t, h, body, false)

			assert.Equal(t, 400, resp.StatusCode)
			assert.Equal(t, "No question provided", decoded["error"])
		})
	}
}

func TestHandle_InternalError(t *testing.T) {
	h := NewHandler(&stubAskService{err: errors.New("backend down")}, nil)

	resp, decoded := invoke(t, h, `{"question": "q"}`, false)

	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "backend down", decoded["error"])
}

func TestHandle_CORSHeadersOnEveryResponse(t *testing.T) {
	h := NewHandler(&stubAskService{answer: domain.Answer{Text: "ok"}}, nil)

	for _, body := range []string{`{"question": "q"}`, `{}`} {
		resp, _ := invoke(t, h, body, false)
		assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
		assert.Equal(t, "POST,OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
		assert.Equal(t, "Content-Type", resp.Headers["Access-Control-Allow-Headers"])
	}
}
