package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/deencompass/compass/pkg/eventstream"
	"github.com/deencompass/compass/pkg/llm"
	"github.com/deencompass/compass/pkg/llm/provider"
)

// HealthResponse reports the active provider and the generation parameters
// it will actually receive.
type HealthResponse struct {
	Status   string       `json:"status"`
	Provider string       `json:"provider"`
	Config   HealthConfig `json:"config"`
}

// HealthConfig flattens the effective generation parameters next to the
// model and style.
type HealthConfig struct {
	Model string    `json:"model"`
	Style llm.Style `json:"style"`
	llm.GenerationConfig
}

// ChatRequest is the decoded body of POST /api/chat.
type ChatRequest struct {
	Messages []llm.Message `json:"messages"`
}

// ChatResponse is the body of a successful POST /api/chat.
type ChatResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:   "ok",
		Provider: s.adapter.Name(),
		Config: HealthConfig{
			Model:            s.adapter.Model(),
			Style:            s.adapter.Style(),
			GenerationConfig: provider.Effective(s.adapter, s.config.Generation),
		},
	})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	req, err := decodeChatRequest(c.Body())
	if err != nil {
		return err
	}

	started := time.Now()
	reply, err := s.adapter.Generate(c.UserContext(), req.Messages, s.config.Policy, s.config.Generation)
	if err != nil {
		return err
	}
	completed := time.Now()
	requestID := requestIDOf(c)

	s.logger.Debug("chat completed",
		"request_id", requestID,
		"provider", s.adapter.Name(),
		"messages", len(req.Messages),
		"duration", completed.Sub(started),
	)

	s.emit(requestID, req.Messages, reply, started, completed)

	return c.JSON(ChatResponse{Text: reply.Text})
}

func (s *Server) emit(requestID string, msgs []llm.Message, reply *llm.Reply, started, completed time.Time) {
	if s.events == nil {
		return
	}

	model := reply.Model
	if model == "" {
		model = s.adapter.Model()
	}

	s.events.Enqueue(eventstream.NewExchangeEvent(
		eventstream.EventSource{
			Provider: s.adapter.Name(),
			Model:    model,
			Style:    s.adapter.Style(),
		},
		eventstream.RequestMeta{
			RequestID:         requestID,
			UpstreamRequestID: reply.RequestID,
			ServiceTier:       reply.ServiceTier,
			StartedAt:         started,
			CompletedAt:       completed,
		},
		msgs,
		reply.Text,
	))
}

// requestIDOf returns a heap copy of the request id. fiber hands out strings
// backed by fasthttp buffers that are reused once the handler returns, and
// exchange events outlive the handler.
func requestIDOf(c *fiber.Ctx) string {
	return utils.CopyString(c.GetRespHeader(fiber.HeaderXRequestID))
}

// decodeChatRequest validates the body shape field by field so that every
// rejection carries a precise message. Role values are checked later by
// the adapter.
func decodeChatRequest(body []byte) (*ChatRequest, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil || root == nil {
		return nil, llm.InvalidInputf("request body must be a JSON object")
	}

	raw, ok := root["messages"]
	if !ok {
		return nil, llm.InvalidInputf("messages is required")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, llm.InvalidInputf("messages must be an array")
	}

	msgs := make([]llm.Message, 0, len(items))
	for i, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return nil, llm.InvalidInputf("messages[%d] must be an object", i)
		}

		var role string
		rawRole, ok := fields["role"]
		if !ok || json.Unmarshal(rawRole, &role) != nil || string(rawRole) == "null" {
			return nil, llm.InvalidInputf("messages[%d].role must be a string", i)
		}

		var content string
		if rawContent, ok := fields["content"]; ok {
			if err := json.Unmarshal(rawContent, &content); err != nil {
				return nil, llm.InvalidInputf("messages[%d].content must be a string", i)
			}
		}

		msgs = append(msgs, llm.NewMessage(llm.Role(role), content))
	}

	return &ChatRequest{Messages: msgs}, nil
}
