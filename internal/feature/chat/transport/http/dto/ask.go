// Package dto holds the JSON bodies of the chat HTTP endpoints.
package dto

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// AskResponse carries the rendered answer, disclaimer included.
type AskResponse struct {
	Answer string `json:"answer"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	LastRefresh       string `json:"last_refresh"`
	ProviderReachable bool   `json:"provider_reachable"`
	CacheEntries      int    `json:"cache_entries"`
	KnowledgeBaseSize int    `json:"knowledge_base_size"`
}
