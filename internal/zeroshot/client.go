package zeroshot

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/neurocorpus/harvest/pkg/harvest/classify"
)

// Client calls a hosted zero-shot classification endpoint (HuggingFace
// inference style): POST {inputs, parameters.candidate_labels}, response
// carries labels and scores sorted best-first.
type Client struct {
	BaseURL string
	APIKey  string

	HTTPClient *http.Client
}

type request struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		CandidateLabels []string `json:"candidate_labels"`
	} `json:"parameters"`
}

type response struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
	Error  string    `json:"error"`
}

// Classify returns the best label and its confidence for the text.
func (c *Client) Classify(ctx context.Context, text string, labels []string) (classify.Outcome, error) {
	if c.BaseURL == "" {
		return classify.Outcome{}, errors.New("zeroshot: base URL required")
	}

	reqData := request{Inputs: text}
	reqData.Parameters.CandidateLabels = labels
	body, err := json.Marshal(reqData)
	if err != nil {
		return classify.Outcome{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return classify.Outcome{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return classify.Outcome{}, errors.Wrap(err, "zeroshot request")
	}
	defer resp.Body.Close()

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return classify.Outcome{}, errors.Wrap(err, "decode zeroshot response")
	}
	if payload.Error != "" {
		return classify.Outcome{}, errors.Errorf("zeroshot error: %s", payload.Error)
	}
	if len(payload.Labels) == 0 || len(payload.Scores) == 0 {
		return classify.Outcome{}, errors.New("zeroshot: empty result")
	}

	return classify.Outcome{Label: payload.Labels[0], Confidence: payload.Scores[0]}, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}
