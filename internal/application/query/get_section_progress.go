package query

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/progress"
	"github.com/alem-hub/league-progress/internal/domain/rollup"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SECTION PROGRESS QUERY
// One user's view of a section: the section tracker row (if any), the
// resource-level rollup, and which resources are done.
// ══════════════════════════════════════════════════════════════════════════════

// GetSectionProgressQuery identifies the (user, section) pair.
type GetSectionProgressQuery struct {
	UserID    string
	SectionID string
}

// Validate checks the query parameters.
func (q GetSectionProgressQuery) Validate() error {
	if !shared.ValidID(q.UserID) || !shared.ValidID(q.SectionID) {
		return shared.NewDomainError("query", "GetSectionProgress", shared.ErrInvalidID, "user and section IDs are required")
	}
	return nil
}

// GetSectionProgressResult is the section view.
type GetSectionProgressResult struct {
	SectionID          string                    `json:"section_id"`
	UserID             string                    `json:"user_id"`
	Tracker            *progress.SectionProgress `json:"tracker,omitempty"`
	CompletedResources int                       `json:"completed_resources"`
	TotalResources     int                       `json:"total_resources"`
	Percent            int                       `json:"percent"`
	CompletedIDs       []string                  `json:"completed_resource_ids"`
	GeneratedAt        time.Time                 `json:"generated_at"`
}

// GetSectionProgressHandler handles the query.
type GetSectionProgressHandler struct {
	hier       hierarchy.Reader
	store      progress.Store
	aggregator *rollup.Aggregator
}

// NewGetSectionProgressHandler creates the handler.
func NewGetSectionProgressHandler(
	hier hierarchy.Reader,
	store progress.Store,
	aggregator *rollup.Aggregator,
) *GetSectionProgressHandler {
	return &GetSectionProgressHandler{hier: hier, store: store, aggregator: aggregator}
}

// Handle computes the section view. An unknown section returns
// shared.ErrSectionNotFound; a user with no tracker row gets a nil Tracker,
// which is not an error.
func (h *GetSectionProgressHandler) Handle(ctx context.Context, q GetSectionProgressQuery) (*GetSectionProgressResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.hier.GetSection(ctx, q.SectionID); err != nil {
		return nil, fmt.Errorf("get_section_progress: %w", err)
	}

	tracker, err := h.store.GetSection(ctx, q.UserID, q.SectionID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, fmt.Errorf("get_section_progress: tracker: %w", err)
	}

	c, err := h.aggregator.ResourceCompletionCount(ctx, q.UserID, q.SectionID)
	if err != nil {
		return nil, fmt.Errorf("get_section_progress: rollup: %w", err)
	}

	resourceIDs, err := h.hier.ResourceIDsBySection(ctx, q.SectionID)
	if err != nil {
		return nil, fmt.Errorf("get_section_progress: resources: %w", err)
	}

	completedIDs := []string{}
	if len(resourceIDs) > 0 {
		completedIDs, err = h.store.CompletedResourceIDs(ctx, q.UserID, resourceIDs)
		if err != nil {
			return nil, fmt.Errorf("get_section_progress: completed resources: %w", err)
		}
	}

	return &GetSectionProgressResult{
		SectionID:          q.SectionID,
		UserID:             q.UserID,
		Tracker:            tracker,
		CompletedResources: c.Completed,
		TotalResources:     c.Total,
		Percent:            c.Percent(),
		CompletedIDs:       completedIDs,
		GeneratedAt:        time.Now().UTC(),
	}, nil
}
