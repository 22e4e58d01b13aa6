// Package hierarchy holds the read-only content tree this core consumes:
// League → Week → Section → Resource, plus the Specialization bundles that
// group leagues within a cohort. Content administration happens elsewhere;
// from here the tree is immutable.
package hierarchy

// League is a top-level course or track. It owns Weeks and at most one Badge.
type League struct {
	ID       string
	CohortID string
	Title    string
}

// Week is an ordered grouping of Sections within a League.
// Position is unique per League.
type Week struct {
	ID       string
	LeagueID string
	Title    string
	Position int
}

// Section is an ordered grouping of Resources within a Week.
// It carries its own completion flag, independent of its resources.
type Section struct {
	ID       string
	WeekID   string
	Title    string
	Position int
}

// ResourceKind is the type of leaf learning unit.
type ResourceKind string

const (
	ResourceVideo   ResourceKind = "video"
	ResourceArticle ResourceKind = "article"
	ResourceLink    ResourceKind = "link"
)

// Resource is the leaf learning unit within a Section.
// Position is unique per Section.
type Resource struct {
	ID        string
	SectionID string
	Title     string
	Kind      ResourceKind
	Position  int
}

// Specialization is a named, ordered bundle of Leagues within a Cohort.
// A user completes it by holding the badge of every member league.
type Specialization struct {
	ID       string
	CohortID string
	Title    string
}
