package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultHFBaseURL = "https://router.huggingface.co/hf-inference"

// hfProvider calls the HuggingFace feature-extraction pipeline. It only
// embeds; chat completion is not offered on this surface.
type hfConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

type hfProvider struct {
	apiKey  string
	baseURL string
}

type hfEmbedRequest struct {
	Inputs string `json:"inputs"`
}

func (p *hfProvider) Name() string {
	return "huggingface"
}

func (p *hfProvider) Complete(ctx context.Context, model string, system string, user string, opts *GenerateOptions) (string, error) {
	return "", ErrUnavailable
}

func (p *hfProvider) Embed(ctx context.Context, model string, text string) ([]float32, error) {
	if p.apiKey == "" {
		return nil, ErrUnavailable
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/models/" + model + "/pipeline/feature-extraction"
	data, err := json.Marshal(hfEmbedRequest{Inputs: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("huggingface embed failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeFeatureExtraction(raw)
}

// decodeFeatureExtraction accepts both shapes the pipeline is known to
// return: a flat vector, or a batch of one.
func decodeFeatureExtraction(raw []byte) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}
	var batch [][]float32
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("unexpected feature-extraction response: %w", err)
	}
	if len(batch) == 0 || len(batch[0]) == 0 {
		return nil, fmt.Errorf("feature-extraction response is empty")
	}
	return batch[0], nil
}

func createHFFactory(args interface{}) (IProvider, error) {
	cfg := &hfConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}
	return &hfProvider{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: baseURL,
	}, nil
}

func init() {
	Register("huggingface", createHFFactory)
}
