package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/replicate/replicate-go"
)

const replicateName = "replicate"

// NewReplicateClient builds the API client shared by the runner and the catalog source.
func NewReplicateClient(token, baseURL string, timeout time.Duration) (*replicate.Client, error) {
	opts := []replicate.ClientOption{
		replicate.WithToken(token),
		replicate.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, replicate.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	client, err := replicate.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("replicate client: %w", err)
	}
	return client, nil
}

type ReplicateRunner struct {
	client       *replicate.Client
	pollInterval time.Duration
}

func NewReplicateRunner(client *replicate.Client) *ReplicateRunner {
	return &ReplicateRunner{client: client, pollInterval: time.Second}
}

// WithPollInterval sets how often pending predictions are polled.
func (r *ReplicateRunner) WithPollInterval(d time.Duration) *ReplicateRunner {
	r.pollInterval = d
	return r
}

// Run creates a prediction. One that is still running comes back as an AsyncURLObject
// that waits for completion when resolved.
func (r *ReplicateRunner) Run(ctx context.Context, identifier string, input map[string]interface{}) (Output, error) {
	pred, err := r.create(ctx, identifier, replicate.PredictionInput(input))
	if err != nil {
		return nil, classifyReplicate(err)
	}

	if out, done, err := settled(pred); done {
		return out, err
	}

	return AsyncURLObject{
		Resolve: func(ctx context.Context) (string, error) {
			waitErr := r.client.Wait(ctx, pred, replicate.WithPollingInterval(r.pollInterval))
			if out, done, err := settled(pred); done {
				if err != nil {
					return "", err
				}
				return Normalize(ctx, out)
			}
			if waitErr != nil {
				return "", classifyReplicate(waitErr)
			}
			return "", Classify(replicateName, 0, "prediction "+string(pred.Status))
		},
	}, nil
}

func (r *ReplicateRunner) create(ctx context.Context, identifier string, input replicate.PredictionInput) (*replicate.Prediction, error) {
	model, version, pinned := strings.Cut(identifier, ":")
	if pinned && version != "" {
		return r.client.CreatePrediction(ctx, version, input, nil, false)
	}
	owner, name, ok := strings.Cut(model, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("replicate: identifier %q is not owner/name", identifier)
	}
	return r.client.CreatePredictionWithModel(ctx, owner, name, input, nil, false)
}

// settled reports whether pred reached a terminal status, and its output or failure.
func settled(pred *replicate.Prediction) (Output, bool, error) {
	switch pred.Status {
	case replicate.Succeeded:
		raw, err := json.Marshal(pred.Output)
		if err != nil {
			return nil, true, fmt.Errorf("re-encode prediction output: %w", err)
		}
		out, err := DecodeOutput(raw)
		return out, true, err
	case replicate.Failed, replicate.Canceled:
		return nil, true, Classify(replicateName, 0, predictionError(pred))
	}
	return nil, false, nil
}

func predictionError(p *replicate.Prediction) string {
	switch e := p.Error.(type) {
	case nil:
		return "prediction " + string(p.Status)
	case string:
		return e
	default:
		b, _ := json.Marshal(e)
		return string(b)
	}
}

// classifyReplicate maps API errors to an Error and leaves transport and context errors wrapped.
func classifyReplicate(err error) error {
	var apiErr *replicate.APIError
	if errors.As(err, &apiErr) {
		detail := apiErr.Detail
		if detail == "" {
			detail = apiErr.Error()
		}
		return Classify(replicateName, apiErr.Status, detail)
	}
	return fmt.Errorf("replicate request failed: %w", err)
}
