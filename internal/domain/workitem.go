package domain

// WorkItem is a tracked ticket fetched from the issue tracker.
// Fields holds the raw field bag from the tracker query; enrichment output
// lives in a separate EnrichmentResult keyed by Key, never on the item itself.
type WorkItem struct {
	Key         string
	Summary     string
	Status      string
	Assignee    string
	IssueType   string
	StoryPoints float64
	Fields      map[string]any
}

// RemoteLink is an externally-linked resource attached to a work item.
// Immutable once fetched.
type RemoteLink struct {
	URL          string
	Title        string
	Relationship string
}

// ResolvedPage is the best-effort wiki metadata derived from a RemoteLink URL.
// Title may be empty when neither network resolution nor URL pattern
// extraction recovered one; Labels is empty unless a network fetch succeeded.
type ResolvedPage struct {
	PageID string
	Title  string
	Labels []string
}

// Category names a semantic checklist bucket a wiki link can represent.
type Category string

const (
	CategoryCG Category = "cg"
	CategoryPG Category = "pg"
)

// CategorySet records which categories a link matched. Matches are
// independent: a link may be in both, one, or neither.
type CategorySet struct {
	CG bool
	PG bool
}

// Empty reports whether no category matched.
func (s CategorySet) Empty() bool { return !s.CG && !s.PG }

// ClassifiedLink pairs a remote link with its category decision.
type ClassifiedLink struct {
	Link       RemoteLink
	Resolved   ResolvedPage
	Categories CategorySet
}

// CategoryLink is one entry of a category list in an EnrichmentResult:
// the link URL plus a display title, resolved or synthesized.
type CategoryLink struct {
	URL   string
	Title string
}

// EnrichmentResult is the terminal per-item artifact of enrichment.
// A nil category slice means "no list" (the category had no matches and the
// broadcast fallback did not apply); an empty non-nil slice does not occur.
type EnrichmentResult struct {
	WorkItemKey string
	CGLinks     []CategoryLink
	PGLinks     []CategoryLink
}

// ReportRow is a single denormalized row of the final status report.
type ReportRow struct {
	Key         string
	Summary     string
	Status      string
	Assignee    string
	IssueType   string
	StoryPoints float64
	CGLinks     []CategoryLink
	PGLinks     []CategoryLink
}
