package dto

// SearchJobsRequest drives both /jobs/search and the swipe queue load.
type SearchJobsRequest struct {
	Query      string   `json:"query"`
	Categories []string `json:"categories"`
	Skills     []string `json:"skills"`
	Filters    Filters  `json:"filters"`
}

type Filters struct {
	MinSalary int      `json:"minSalary"`
	JobTypes  []string `json:"jobTypes"`
	Quick     string   `json:"quick"`
}

type SessionRequest struct {
	Handle string `json:"handle"`
}

type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type CommitRequest struct {
	Direction string `json:"direction"`
}

type SkipReasonRequest struct {
	Reason string `json:"reason"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

type PreferencesRequest struct {
	Skills     []string `json:"skills"`
	Categories []string `json:"categories"`
	MinSalary  *int     `json:"minSalary"`
	JobTypes   []string `json:"jobTypes"`
}
