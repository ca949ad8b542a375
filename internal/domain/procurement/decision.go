package procurement

import (
	"context"
	"slices"
	"time"

	"github.com/erp/dashboard/internal/domain/shared"
)

// Decision is an approve or reject made from the dashboard. The backend has
// no endpoint for it, so decisions are kept per identity and laid over the
// fetched list.
type Decision struct {
	RequestID string `json:"requestId"`
	Status    Status `json:"status"`
	DecidedBy string `json:"decidedBy"`
	DecidedOn string `json:"decidedOn"`
}

// DecisionStore persists decisions per identity
type DecisionStore interface {
	Put(ctx context.Context, identity string, d Decision) error
	All(ctx context.Context, identity string) (map[string]Decision, error)
	Forget(ctx context.Context, identity string, requestIDs ...string) error
}

// Decide applies to (Approved or Rejected) to the request with id and
// returns the updated list and the decision to record. A request that is
// not Pending yields INVALID_STATE; an unknown id yields NOT_FOUND.
func Decide(list []Request, id string, to Status, approver string, on time.Time) ([]Request, Decision, error) {
	if to != StatusApproved && to != StatusRejected {
		return nil, Decision{}, shared.NewDomainError("INVALID_INPUT", "Decision must be Approved or Rejected")
	}

	out := make([]Request, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if !out[i].decide(to, approver, on) {
			return nil, Decision{}, shared.NewDomainError("INVALID_STATE", "Only pending requests can be approved or rejected")
		}
		return out, Decision{
			RequestID: id,
			Status:    to,
			DecidedBy: out[i].ApprovedBy,
			DecidedOn: out[i].ApprovedDate,
		}, nil
	}
	return nil, Decision{}, shared.NewDomainError("NOT_FOUND", "Procurement request not found")
}

// Overlay lays stored decisions over a fetched list. Only Pending requests
// take a decision. The ids of decisions that no longer apply are returned so
// they can be forgotten: those whose request the backend now reports in
// another status, and those whose request is no longer listed at all.
func Overlay(list []Request, decisions map[string]Decision) ([]Request, []string) {
	out := make([]Request, len(list))
	copy(out, list)
	var superseded []string
	listed := make(map[string]struct{}, len(out))
	for i := range out {
		listed[out[i].ID] = struct{}{}
		d, ok := decisions[out[i].ID]
		if !ok {
			continue
		}
		if out[i].Status != StatusPending {
			superseded = append(superseded, out[i].ID)
			continue
		}
		out[i].Status = d.Status
		out[i].ApprovedBy = d.DecidedBy
		out[i].ApprovedDate = d.DecidedOn
	}

	var orphaned []string
	for id := range decisions {
		if _, ok := listed[id]; !ok {
			orphaned = append(orphaned, id)
		}
	}
	slices.Sort(orphaned)
	return out, append(superseded, orphaned...)
}
