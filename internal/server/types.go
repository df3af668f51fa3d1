// Package server provides the HTTP API for embedd.
package server

// EmbedRequest is the request body for POST /embed.
//
// Exactly one of Text or Texts is expected. Pointer fields distinguish an
// absent field from a present-but-empty one, which matters for the
// empty-batch short circuit. When both are present, Text wins.
type EmbedRequest struct {
	Text  *string   `json:"text"`
	Texts *[]string `json:"texts"`
}

// batch resolves the tagged union into a single batch of input texts.
// ok is false when neither field is present.
func (r *EmbedRequest) batch() (texts []string, ok bool) {
	switch {
	case r.Text != nil:
		return []string{*r.Text}, true
	case r.Texts != nil:
		return *r.Texts, true
	default:
		return nil, false
	}
}

// EmbedResponse is the response body for POST /embed.
type EmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Dimensions int         `json:"dimensions"`
}

// InfoResponse is the response body for GET /info.
type InfoResponse struct {
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	MaxTokens  int    `json:"max_tokens"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the JSON error envelope for 4xx and 5xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
