package retriever

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pitchlab/salescoach/domain"
)

// PineconeIndex queries a Pinecone serverless index over its REST API.
type PineconeIndex struct {
	host   string
	apiKey string
	client *http.Client
}

func NewPineconeIndex(host, apiKey string) *PineconeIndex {
	return &PineconeIndex{
		host:   host,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type queryRequest struct {
	TopK            int       `json:"topK"`
	Vector          []float32 `json:"vector"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string  `json:"id"`
		Score    float64 `json:"score"`
		Metadata struct {
			Text string `json:"text"`
		} `json:"metadata"`
	} `json:"matches"`
}

func (p *PineconeIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.IndexMatch, error) {
	body, err := json.Marshal(queryRequest{
		TopK:            topK,
		Vector:          vector,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating query request: %w", err)
	}
	req.Header.Set("Api-Key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("index query failed with status %d: %s", resp.StatusCode, msg)
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("decoding query response: %w", err)
	}

	matches := make([]domain.IndexMatch, 0, len(qr.Matches))
	for _, m := range qr.Matches {
		matches = append(matches, domain.IndexMatch{
			ID:    m.ID,
			Score: m.Score,
			Text:  m.Metadata.Text,
		})
	}
	return matches, nil
}
