// Package opensearch provides a vector index backed by an OpenSearch
// knn index. Requests go over the REST API; when AWS credentials are
// configured they are SigV4-signed for OpenSearch Serverless collections.
package opensearch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

const serviceName = "opensearch"

// Default configuration values.
const (
	// DefaultTimeout matches the generous client-side timeout the
	// serverless collections need for cold searches.
	DefaultTimeout = 300 * time.Second

	// DefaultSigningService is the SigV4 service name for OpenSearch
	// Serverless. Managed domains sign as "es" instead.
	DefaultSigningService = "aoss"
)

// Config holds configuration for the OpenSearch vector index.
type Config struct {
	// Endpoint is the collection or domain URL (required),
	// e.g. https://abc123.us-east-1.aoss.amazonaws.com.
	Endpoint string

	// Index is the index name (required).
	Index string

	// Timeout is the request timeout (default: 300s).
	Timeout time.Duration

	// Credentials signs requests with SigV4 when set. Leave nil for
	// an unauthenticated endpoint (local OpenSearch, tests).
	Credentials aws.CredentialsProvider

	// Region is the AWS region for SigV4 signing.
	Region string

	// SigningService is the SigV4 service name (default: aoss).
	SigningService string
}

// VectorIndex talks to one OpenSearch index over its REST API.
type VectorIndex struct {
	client   *http.Client
	endpoint string
	index    string
	creds    aws.CredentialsProvider
	signer   *v4.Signer
	region   string
	service  string
}

// indexBody is the index creation payload: a knn_vector field with an
// HNSW method plus plain text and keyword fields.
type indexBody struct {
	Settings indexSettings `json:"settings"`
	Mappings indexMappings `json:"mappings"`
}

type indexSettings struct {
	Index map[string]any `json:"index"`
}

type indexMappings struct {
	Properties map[string]any `json:"properties"`
}

// record is one persisted chunk document.
type record struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Source    string    `json:"source"`
	ChunkID   int       `json:"chunk_id"`
}

// searchBody is the knn query payload.
type searchBody struct {
	Size   int            `json:"size"`
	Query  map[string]any `json:"query"`
	Source []string       `json:"_source"`
}

// searchResponse is the part of the search reply this adapter reads.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64 `json:"_score"`
			Source struct {
				Text   string `json:"text"`
				Source string `json:"source"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// errorResponse is the error envelope OpenSearch returns on failures.
type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// NewVectorIndex creates an OpenSearch vector index client.
func NewVectorIndex(cfg Config) (*VectorIndex, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("opensearch: endpoint is required")
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("opensearch: index name is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.SigningService == "" {
		cfg.SigningService = DefaultSigningService
	}

	v := &VectorIndex{
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		index:    cfg.Index,
		creds:    cfg.Credentials,
		region:   cfg.Region,
		service:  cfg.SigningService,
	}
	if cfg.Credentials != nil {
		v.signer = v4.NewSigner()
	}
	return v, nil
}

// Exists reports whether the index exists (HEAD on the index path).
func (v *VectorIndex) Exists(ctx context.Context) (bool, error) {
	status, _, err := v.do(ctx, http.MethodHead, "/"+v.index, nil)
	if err != nil {
		return false, domain.NewServiceError(serviceName, "exists", err)
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, domain.NewServiceError(serviceName, "exists",
			fmt.Errorf("unexpected status %d", status))
	}
}

// Create builds the knn index with the schema's dimension and HNSW
// parameters.
func (v *VectorIndex) Create(ctx context.Context, schema driven.IndexSchema) error {
	body := indexBody{
		Settings: indexSettings{
			Index: map[string]any{
				"knn":                      true,
				"knn.algo_param.ef_search": schema.EFSearch,
			},
		},
		Mappings: indexMappings{
			Properties: map[string]any{
				"embedding": map[string]any{
					"type":      "knn_vector",
					"dimension": schema.Dimension,
					"method": map[string]any{
						"name":   "hnsw",
						"engine": "faiss",
						"parameters": map[string]any{
							"ef_construction": schema.EFConstruction,
							"m":               schema.M,
						},
					},
				},
				"text":   map[string]any{"type": "text"},
				"source": map[string]any{"type": "keyword"},
			},
		},
	}

	status, respBody, err := v.do(ctx, http.MethodPut, "/"+v.index, body)
	if err != nil {
		return domain.NewServiceError(serviceName, "create", err)
	}
	if status != http.StatusOK {
		return domain.NewServiceError(serviceName, "create", decodeError(status, respBody))
	}
	return nil
}

// mappingResponse is the part of the _mapping reply this adapter reads.
// The top level is keyed by index name.
type mappingResponse map[string]struct {
	Mappings struct {
		Properties struct {
			Embedding struct {
				Dimension int `json:"dimension"`
			} `json:"embedding"`
		} `json:"properties"`
	} `json:"mappings"`
}

// Dimension reads the knn_vector dimension back from the index mapping.
func (v *VectorIndex) Dimension(ctx context.Context) (int, error) {
	status, body, err := v.do(ctx, http.MethodGet, "/"+v.index+"/_mapping", nil)
	if err != nil {
		return 0, domain.NewServiceError(serviceName, "mapping", err)
	}
	if status != http.StatusOK {
		return 0, domain.NewServiceError(serviceName, "mapping", decodeError(status, body))
	}

	var resp mappingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, domain.NewServiceError(serviceName, "mapping",
			fmt.Errorf("decode response: %w", err))
	}

	for _, idx := range resp {
		if dim := idx.Mappings.Properties.Embedding.Dimension; dim > 0 {
			return dim, nil
		}
	}
	return 0, domain.ErrDimensionUnknown
}

// Index writes one chunk document without forcing a refresh; the record
// becomes searchable after the index's refresh interval.
func (v *VectorIndex) Index(ctx context.Context, chunk domain.Chunk) error {
	doc := record{
		Text:      chunk.Content,
		Embedding: chunk.Embedding,
		Source:    chunk.SourceKey,
		ChunkID:   chunk.Position,
	}

	status, body, err := v.do(ctx, http.MethodPost, "/"+v.index+"/_doc?refresh=false", doc)
	if err != nil {
		return domain.NewServiceError(serviceName, "index", err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return domain.NewServiceError(serviceName, "index", decodeError(status, body))
	}
	return nil
}

// Search issues a knn query for the k nearest records, returning only
// the text and source fields plus the backend's score.
func (v *VectorIndex) Search(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error) {
	if k <= 0 {
		return nil, nil
	}

	body := searchBody{
		Size: k,
		Query: map[string]any{
			"knn": map[string]any{
				"embedding": map[string]any{
					"vector": vector,
					"k":      k,
				},
			},
		},
		Source: []string{"text", "source"},
	}

	status, respBody, err := v.do(ctx, http.MethodPost, "/"+v.index+"/_search", body)
	if err != nil {
		return nil, domain.NewServiceError(serviceName, "search", err)
	}
	if status != http.StatusOK {
		return nil, domain.NewServiceError(serviceName, "search", decodeError(status, respBody))
	}

	var resp searchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, domain.NewServiceError(serviceName, "search",
			fmt.Errorf("decode response: %w", err))
	}

	hits := make([]domain.SearchHit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		hits = append(hits, domain.SearchHit{
			Content:   h.Source.Text,
			SourceKey: h.Source.Source,
			Score:     h.Score,
		})
	}
	return hits, nil
}

// countResponse is the _count reply.
type countResponse struct {
	Count int64 `json:"count"`
}

// Count returns the number of stored records.
func (v *VectorIndex) Count(ctx context.Context) (int64, error) {
	status, body, err := v.do(ctx, http.MethodGet, "/"+v.index+"/_count", nil)
	if err != nil {
		return 0, domain.NewServiceError(serviceName, "count", err)
	}
	if status != http.StatusOK {
		return 0, domain.NewServiceError(serviceName, "count", decodeError(status, body))
	}

	var resp countResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, domain.NewServiceError(serviceName, "count",
			fmt.Errorf("decode response: %w", err))
	}
	return resp.Count, nil
}

// Drop deletes the index.
func (v *VectorIndex) Drop(ctx context.Context) error {
	status, body, err := v.do(ctx, http.MethodDelete, "/"+v.index, nil)
	if err != nil {
		return domain.NewServiceError(serviceName, "drop", err)
	}
	if status != http.StatusOK && status != http.StatusNotFound {
		return domain.NewServiceError(serviceName, "drop", decodeError(status, body))
	}
	return nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	v.client.CloseIdleConnections()
	return nil
}

// do sends one request, signing it when credentials are configured, and
// returns the status code and response body.
func (v *VectorIndex) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, v.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := v.sign(ctx, req, body); err != nil {
		return 0, nil, fmt.Errorf("sign request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// sign SigV4-signs the request in place. A client without credentials
// sends requests unsigned.
func (v *VectorIndex) sign(ctx context.Context, req *http.Request, body []byte) error {
	if v.signer == nil {
		return nil
	}

	creds, err := v.creds.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("retrieve credentials: %w", err)
	}

	hash := sha256.Sum256(body)
	return v.signer.SignHTTP(ctx, creds, req,
		hex.EncodeToString(hash[:]), v.service, v.region, time.Now())
}

// decodeError extracts the reason from an OpenSearch error envelope,
// falling back to the raw status.
func decodeError(status int, body []byte) error {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error.Reason != "" {
		return fmt.Errorf("status %d: %s: %s", status, resp.Error.Type, resp.Error.Reason)
	}
	return fmt.Errorf("status %d", status)
}
