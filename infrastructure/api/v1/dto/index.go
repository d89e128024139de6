package dto

// IndexStatusResponse is the body of GET /api/v1/index/status.
type IndexStatusResponse struct {
	IndexedGames   int64  `json:"indexed_games"`
	StorageMode    string `json:"storage_mode"`
	Health         string `json:"health"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
	Ready          bool   `json:"ready_for_recommendations"`
}

// BuildIndexRequest is the body of POST /api/v1/index/build. An empty
// catalog path falls back to the server's configured catalog.
type BuildIndexRequest struct {
	CatalogPath string `json:"catalog_path,omitempty"`
}

// BuildIndexResponse is the body of a successful index build.
type BuildIndexResponse struct {
	Status       string `json:"status"`
	IndexedGames int    `json:"indexed_games"`
}

// MessageResponse is a generic status message body.
type MessageResponse struct {
	Message string `json:"message"`
}
