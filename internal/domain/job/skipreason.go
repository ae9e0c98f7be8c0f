package job

// SkipReason is the fixed enumeration attached to skipped listings.
type SkipReason string

const (
	SkipNotRelevant   SkipReason = "not_relevant"
	SkipWrongLocation SkipReason = "wrong_location"
	SkipLowSalary     SkipReason = "low_salary"
	SkipNotEnoughInfo SkipReason = "not_enough_info"
	SkipOther         SkipReason = "other"
)

// SkipReasons lists every reason in the order clients present them.
var SkipReasons = []CatalogEntry{
	{ID: string(SkipNotRelevant), Label: "Not relevant", Icon: "fa-ban"},
	{ID: string(SkipWrongLocation), Label: "Wrong location", Icon: "fa-map-marker-alt"},
	{ID: string(SkipLowSalary), Label: "Low salary", Icon: "fa-dollar-sign"},
	{ID: string(SkipNotEnoughInfo), Label: "Not enough info", Icon: "fa-question-circle"},
	{ID: string(SkipOther), Label: "Other", Icon: "fa-ellipsis-h"},
}

// ParseSkipReason validates a raw reason id, falling back to SkipOther for
// anything outside the enumeration.
func ParseSkipReason(s string) SkipReason {
	switch SkipReason(s) {
	case SkipNotRelevant, SkipWrongLocation, SkipLowSalary, SkipNotEnoughInfo, SkipOther:
		return SkipReason(s)
	}
	return SkipOther
}

// ApplicationStatus tracks a saved listing through the application funnel.
type ApplicationStatus string

const (
	StatusSaved        ApplicationStatus = "saved"
	StatusApplied      ApplicationStatus = "applied"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusOffered      ApplicationStatus = "offered"
	StatusRejected     ApplicationStatus = "rejected"
	StatusAccepted     ApplicationStatus = "accepted"
)

// ParseApplicationStatus validates a raw status id.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch ApplicationStatus(s) {
	case StatusSaved, StatusApplied, StatusInterviewing, StatusOffered, StatusRejected, StatusAccepted:
		return ApplicationStatus(s), true
	}
	return "", false
}
