// Package client talks to the quiz REST API. It satisfies app.QuestionSource
// and app.ResultSink so a QuizSession can run against a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"topic-quiz-service/internal/domain"
)

// ErrServiceUnavailable wraps transport failures reaching the API.
var ErrServiceUnavailable = errors.New("quiz api unavailable")

// APIError is a non-2xx answer carrying the server's {"error": msg} body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quiz api returned status %d: %s", e.StatusCode, e.Message)
}

// Is lets callers match 404s against domain not-found errors.
func (e *APIError) Is(target error) bool {
	if e.StatusCode != http.StatusNotFound {
		return false
	}
	return target == domain.ErrTopicNotFound && e.Message == domain.ErrTopicNotFound.Error() ||
		target == domain.ErrQuestionNotFound && e.Message == domain.ErrQuestionNotFound.Error()
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for a server root such as http://localhost:8080.
// httpClient may be nil.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// ListByTopic fetches a topic's questions in play order.
func (c *Client) ListByTopic(ctx context.Context, topicID int64) ([]domain.Question, error) {
	var questions []domain.Question
	if err := c.do(ctx, http.MethodGet, "/api/questions/topic/"+strconv.FormatInt(topicID, 10), nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GetTopic fetches a single topic.
func (c *Client) GetTopic(ctx context.Context, topicID int64) (domain.Topic, error) {
	var topic domain.Topic
	if err := c.do(ctx, http.MethodGet, "/api/topics/"+strconv.FormatInt(topicID, 10), nil, &topic); err != nil {
		return domain.Topic{}, err
	}
	return topic, nil
}

// Record posts a finished attempt.
func (c *Client) Record(ctx context.Context, result domain.QuizResult) error {
	body := map[string]any{
		"topic_id":         result.TopicID,
		"total_questions":  result.TotalQuestions,
		"correct_answers":  result.CorrectAnswers,
		"score_percentage": result.ScorePercentage,
	}
	return c.do(ctx, http.MethodPost, "/api/questions/quiz-result", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
