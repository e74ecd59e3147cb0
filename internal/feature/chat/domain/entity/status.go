// Package entity defines the models exposed by the chat feature.
package entity

import "time"

// NeverRefreshed is shown when no provider call has succeeded yet.
const NeverRefreshed = "Never"

// Status is a read-only snapshot of the assistant's runtime state.
type Status struct {
	LastRefresh       time.Time `json:"last_refresh,omitzero"`
	ProviderReachable bool      `json:"provider_reachable"`
	CacheEntries      int       `json:"cache_entries"`
	KnowledgeBaseSize int       `json:"knowledge_base_size"`
}

// LastRefreshText renders LastRefresh in local time, or "Never".
func (s Status) LastRefreshText() string {
	if s.LastRefresh.IsZero() {
		return NeverRefreshed
	}
	return s.LastRefresh.Local().Format("2006-01-02 15:04:05")
}
