package facades

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mgarciadev/gw-fitness-routine/internal/logger"
	"github.com/mgarciadev/gw-fitness-routine/internal/models"
)

// Error variables
var (
	// ErrGenerationUnavailable is returned when the generation service cannot be reached
	// or keeps failing after the bounded retries.
	ErrGenerationUnavailable = errors.New("routine generation service unavailable")
	// ErrGenerationEmpty is returned when the call succeeds but yields no content
	// or content that does not conform to the routine schema.
	ErrGenerationEmpty = errors.New("no routine produced")
)

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// routineSchema is the JSON schema enforced on the generation call.
// The service must return an object with a `routines` list of day
// entries, each holding an `exercise` list whose entries carry all
// seven required fields.
var routineSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"routines": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"exercise": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"exercise": map[string]any{"type": "string"},
								"duration": map[string]any{"type": "string"},
								"calories": map[string]any{"type": "number"},
								"sets":     map[string]any{"type": "number"},
								"reps":     map[string]any{"type": "number"},
								"imgUrl":   map[string]any{"type": "string", "format": "uri"},
								"videoUrl": map[string]any{"type": "string", "format": "uri"},
							},
							"required":             []string{"exercise", "duration", "calories", "sets", "reps", "imgUrl", "videoUrl"},
							"additionalProperties": false,
						},
					},
				},
				"required":             []string{"exercise"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"routines"},
	"additionalProperties": false,
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// RoutineGeneratorFacade derives structured workout routines from an
// OpenAI-compatible chat-completions endpoint under a strict output
// schema. The client, credentials and model are injected so the facade
// can be substituted in tests.
type RoutineGeneratorFacade struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration // per-attempt timeout
}

// NewRoutineGeneratorFacade creates a new facade bound to the given endpoint.
func NewRoutineGeneratorFacade(client *http.Client, baseURL, apiKey, model string, timeout time.Duration) *RoutineGeneratorFacade {
	if client == nil {
		client = http.DefaultClient
	}
	return &RoutineGeneratorFacade{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
	}
}

// buildPrompt builds the natural-language instruction embedding the
// five profile attributes.
func buildPrompt(age int, weight, height float64, objective string, trainingDays int) string {
	return fmt.Sprintf(
		"Create a workout routine for a person who is %d years old, weighs %.1f kg and is %.1f cm tall. "+
			"Their objective is: %s. The routine must cover %d training days, one entry in routines per day, "+
			"with a list of exercises for each day.",
		age, weight, height, objective, trainingDays,
	)
}

// Generate invokes the generation service and returns the validated
// routine document. Transport failures and 5xx responses are retried
// with exponential backoff; anything that survives the retries maps to
// ErrGenerationUnavailable. A successful call whose content is missing
// or does not conform to the schema maps to ErrGenerationEmpty.
func (f *RoutineGeneratorFacade) Generate(ctx context.Context, age int, weight, height float64, objective string, trainingDays int) (*models.RoutineDocument, error) {
	reqBody := chatRequest{
		Model: f.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a personal fitness trainer. Respond only with JSON matching the requested schema."},
			{Role: "user", Content: buildPrompt(age, weight, height, objective, trainingDays)},
		},
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   "workout_routines",
				Strict: true,
				Schema: routineSchema,
			},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		content, retryable, err := f.call(ctx, payload)
		if err == nil {
			return f.decode(content, trainingDays)
		}

		lastErr = err
		logger.Log.Errorw("routine generation attempt failed",
			"attempt", attempt,
			"retryable", retryable,
			"error", err,
		)
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, lastErr)
}

// call performs a single round trip and returns the generated content.
// The second return value reports whether the failure is worth retrying.
func (f *RoutineGeneratorFacade) call(ctx context.Context, payload []byte) (string, bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, f.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", true, fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", false, err
	}
	if len(chatResp.Choices) == 0 {
		return "", false, nil
	}

	return chatResp.Choices[0].Message.Content, false, nil
}

// decode parses the generated content into a routine document and
// enforces schema conformance before handing it downstream.
func (f *RoutineGeneratorFacade) decode(content string, trainingDays int) (*models.RoutineDocument, error) {
	if content == "" {
		return nil, ErrGenerationEmpty
	}

	var doc models.RoutineDocument
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		logger.Log.Errorw("generated content does not parse as routine document", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationEmpty, err)
	}

	if err := doc.Validate(); err != nil {
		logger.Log.Errorw("generated document failed schema validation", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationEmpty, err)
	}

	// One day entry per training day at most.
	if len(doc.Routines) > trainingDays {
		logger.Log.Errorw("generated document exceeds requested training days",
			"days", len(doc.Routines),
			"training_days", trainingDays,
		)
		return nil, fmt.Errorf("%w: %d day entries for %d training days", ErrGenerationEmpty, len(doc.Routines), trainingDays)
	}

	return &doc, nil
}
