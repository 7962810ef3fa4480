package model

import (
	"fmt"

	"github.com/vesperants/najir-agent/pkg/domain/types"
)

// CaseResult is the per-case outcome of a detail lookup. Title and Details
// keep the user-facing sentinel text the frontend pattern-matches on;
// Status is the machine-readable discriminator.
type CaseResult struct {
	CaseID  types.CaseID       `json:"case_id"`
	Title   string             `json:"title"`
	Details string             `json:"details"`
	Status  types.LookupStatus `json:"status"`
}

// NewCaseResult creates a successful lookup result
func NewCaseResult(id types.CaseID, title, details string) *CaseResult {
	return &CaseResult{
		CaseID:  id,
		Title:   title,
		Details: details,
		Status:  types.LookupStatusOK,
	}
}

// NewNotFoundResult creates a result for a case ID that has no matching
// record in the search backend.
func NewNotFoundResult(id types.CaseID) *CaseResult {
	return &CaseResult{
		CaseID:  id,
		Title:   "Case not found",
		Details: fmt.Sprintf("No case with number %s could be found. Please check the case number and try again.", id),
		Status:  types.LookupStatusNotFound,
	}
}

// NewTimeoutResult creates a result for a lookup that exceeded the per-case
// deadline. The sibling lookups of the batch are unaffected.
func NewTimeoutResult(id types.CaseID) *CaseResult {
	return &CaseResult{
		CaseID:  id,
		Title:   fmt.Sprintf("Case %s", id),
		Details: "Timed out while retrieving information. This case may be unavailable or require more processing time.",
		Status:  types.LookupStatusTimeout,
	}
}

// NewErrorResult creates a result for a lookup that failed for any reason
// other than not-found or timeout.
func NewErrorResult(id types.CaseID, err error) *CaseResult {
	return &CaseResult{
		CaseID:  id,
		Title:   fmt.Sprintf("Case %s", id),
		Details: fmt.Sprintf("Error retrieving information: %s", err),
		Status:  types.LookupStatusError,
	}
}

// NewMissingResult substitutes for a case ID that never produced a result.
// It keeps the output of a batch the same length as its input.
func NewMissingResult(id types.CaseID) *CaseResult {
	return &CaseResult{
		CaseID:  id,
		Title:   fmt.Sprintf("Case %s", id),
		Details: "No information could be retrieved for this case.",
		Status:  types.LookupStatusError,
	}
}

// CaseSummary is one hit of a case search
type CaseSummary struct {
	ID    types.CaseID `json:"id"`
	Title string       `json:"title"`
}

// SearchPage is one page of case search results
type SearchPage struct {
	Cases         []CaseSummary `json:"cases"`
	TotalCount    int           `json:"totalCount"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}
