package dto

import (
	"matchpoint/internal/domain/job"
	"matchpoint/internal/swipe"
	"matchpoint/internal/triage"
)

type SearchJobsResponse struct {
	Jobs     []job.Job `json:"jobs"`
	Total    int       `json:"total"`
	Cached   bool      `json:"cached"`
	Fallback bool      `json:"fallback"`
}

type SessionResponse struct {
	Token  string `json:"token"`
	Handle string `json:"handle"`
}

type SwipeStateResponse struct {
	State     swipe.State `json:"state"`
	Remaining int         `json:"remaining"`
	Current   *job.Job    `json:"current,omitempty"`
	// Preview is a plain-text excerpt of the current description.
	Preview     string   `json:"preview,omitempty"`
	Posted      string   `json:"posted,omitempty"`
	PendingSkip *job.Job `json:"pendingSkip,omitempty"`
}

type BucketResponse struct {
	Bucket  string         `json:"bucket"`
	Entries []triage.Entry `json:"entries"`
	Total   int            `json:"total"`
}

type ProfileResponse struct {
	Handle      string             `json:"handle"`
	ViewedCount int                `json:"viewedCount"`
	Counts      map[string]int     `json:"counts"`
	Preferences job.Preferences    `json:"preferences"`
	SkipReasons []job.CatalogEntry `json:"skipReasons"`
}
