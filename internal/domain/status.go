package domain

import "strings"

// RequestStatus is the lifecycle state of a production request
type RequestStatus string

const (
	RequestPending              RequestStatus = "pending"
	RequestApprovedByProduction RequestStatus = "approved_by_production"
	RequestCompletedProduction  RequestStatus = "completed_production"
	RequestApprovedByWarehouse  RequestStatus = "approved_by_warehouse"
	RequestRejected             RequestStatus = "rejected"
)

var requestStatusLabels = map[RequestStatus]string{
	RequestPending:              "Menunggu Produksi",
	RequestApprovedByProduction: "Disetujui Produksi",
	RequestCompletedProduction:  "Produksi Selesai",
	RequestApprovedByWarehouse:  "Diterima Gudang",
	RequestRejected:             "Ditolak",
}

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:              {RequestApprovedByProduction, RequestRejected},
	RequestApprovedByProduction: {RequestCompletedProduction},
	RequestCompletedProduction:  {RequestApprovedByWarehouse},
}

// RequestStatusLabel returns a human-readable label for a request status.
func RequestStatusLabel(status RequestStatus) string {
	if label, ok := requestStatusLabels[status]; ok {
		return label
	}

	return "Tidak Diketahui"
}

// ParseRequestStatus returns the status for a given value (case-insensitive).
func ParseRequestStatus(value string) (RequestStatus, bool) {
	status := RequestStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := requestStatusLabels[status]

	return status, ok
}

// CanTransitionTo reports whether next directly follows s
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s RequestStatus) IsTerminal() bool {
	return len(requestTransitions[s]) == 0
}

// AdjustmentStatus is the review state of a stock adjustment
type AdjustmentStatus string

const (
	AdjustmentPending  AdjustmentStatus = "pending"
	AdjustmentApproved AdjustmentStatus = "approved"
	AdjustmentRejected AdjustmentStatus = "rejected"
)

// ParseAdjustmentStatus returns the status for a given value (case-insensitive).
func ParseAdjustmentStatus(value string) (AdjustmentStatus, bool) {
	switch status := AdjustmentStatus(strings.ToLower(strings.TrimSpace(value))); status {
	case AdjustmentPending, AdjustmentApproved, AdjustmentRejected:
		return status, true
	}
	return "", false
}

// ReviewDecision is the reviewer's verdict on an adjustment
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

// Target returns the terminal status a decision leads to
func (d ReviewDecision) Target() (AdjustmentStatus, bool) {
	switch d {
	case DecisionApprove:
		return AdjustmentApproved, true
	case DecisionReject:
		return AdjustmentRejected, true
	}
	return "", false
}
