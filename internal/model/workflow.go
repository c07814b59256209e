package model

// workflow.go — the PR status state machine.
//
// The set of statuses a PR may take depends on its mode of procurement:
// negotiated/direct modes follow the small-value branch, competitive modes
// follow the public-bidding branch, and a PR with no mode yet is restricted
// to the five pre-approval statuses.

// PreApprovalStatuses are selectable regardless of mode.
var PreApprovalStatuses = []string{
	StatusDraft,
	StatusSubmitted,
	StatusVerified,
	StatusEndorsed,
	StatusApproved,
}

// SmallValueBranch is the post-approval lifecycle for negotiated/direct modes.
var SmallValueBranch = []string{
	StatusForMOP,
	StatusForRFQ,
	StatusForAward,
	StatusForPO,
	StatusPOIssued,
	StatusDelivered,
	StatusInspected,
	StatusClosed,
}

// PublicBiddingBranch is the post-approval lifecycle for competitive modes.
var PublicBiddingBranch = []string{
	StatusForPB,
	StatusPreBid,
	StatusBiddingOpen,
	StatusBidEvaluation,
	StatusPostQualification,
	StatusBACResolution,
	StatusNoticeOfAward,
	StatusContractPreparation,
	StatusContractSigned,
	StatusNoticeToProceed,
	StatusDeliveryCompleted,
	StatusPaymentProcessing,
}

// ExceptionStatuses are reachable from the bidding branch.
var ExceptionStatuses = []string{
	StatusCancelled,
	StatusFailedBidding,
	StatusDisqualified,
}

var statusLabels = map[string]string{
	StatusDraft:               "Draft",
	StatusSubmitted:           "Submitted for Verification",
	StatusVerified:            "Verified",
	StatusEndorsed:            "Endorsed for Approval",
	StatusApproved:            "Approved",
	StatusForMOP:              "For BACRes. MOP",
	StatusForRFQ:              "For RFQ Preparation",
	StatusForAward:            "For BACRes. Award",
	StatusForPO:               "For PO Preparation",
	StatusPOIssued:            "PO Issued",
	StatusDelivered:           "Items Delivered",
	StatusInspected:           "Inspected",
	StatusClosed:              "Closed",
	StatusForPB:               "For Public Bidding",
	StatusPreBid:              "Pre-Bid Conference",
	StatusBiddingOpen:         "Bidding Open",
	StatusBidEvaluation:       "Bid Evaluation",
	StatusPostQualification:   "Post-Qualification",
	StatusBACResolution:       "BAC Resolution Issued",
	StatusNoticeOfAward:       "Notice of Award Issued",
	StatusContractPreparation: "Contract Preparation",
	StatusContractSigned:      "Contract Signed",
	StatusNoticeToProceed:     "Notice to Proceed Issued",
	StatusDeliveryCompleted:   "Delivery Completed",
	StatusPaymentProcessing:   "Payment Processing",
	StatusCancelled:           "Cancelled",
	StatusFailedBidding:       "Failed Bidding",
	StatusDisqualified:        "Disqualified Bidder",
}

// StatusLabel returns the display name of a status, or the raw code when
// unknown.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// ValidStatus reports whether the code is one of the defined statuses.
func ValidStatus(status string) bool {
	_, ok := statusLabels[status]
	return ok
}

// Branch classification per mode of procurement.
type ProcurementBranch int

const (
	BranchNone ProcurementBranch = iota // mode unset or unclassified
	BranchSmallValue
	BranchPublicBidding
)

var smallValueModes = map[string]bool{
	ModeDirectContracting: true,
	ModeDirectAcquisition: true,
	ModeRepeatOrder:       true,
	ModeSmallValue:        true,
	ModeNegotiated:        true,
	ModeDirectSales:       true,
	ModeDirectSTI:         true,
}

var publicBiddingModes = map[string]bool{
	ModeCompetitiveBidding:   true,
	ModeLimitedSourceBidding: true,
	ModeCompetitiveDialogue:  true,
	ModeUnsolicitedOffer:     true,
}

// ModeBranch classifies a mode of procurement into a lifecycle branch.
func ModeBranch(mode *string) ProcurementBranch {
	if mode == nil || *mode == "" {
		return BranchNone
	}
	switch {
	case smallValueModes[*mode]:
		return BranchSmallValue
	case publicBiddingModes[*mode]:
		return BranchPublicBidding
	default:
		return BranchNone
	}
}

// AllowedStatuses returns the set of statuses a PR with the given mode may be
// moved to. The pre-approval statuses are always included; the post-approval
// branch depends on the mode, and the exception states ride along with the
// bidding branch.
func AllowedStatuses(mode *string) []string {
	out := make([]string, 0, len(PreApprovalStatuses)+len(PublicBiddingBranch)+len(ExceptionStatuses))
	out = append(out, PreApprovalStatuses...)
	switch ModeBranch(mode) {
	case BranchSmallValue:
		out = append(out, SmallValueBranch...)
	case BranchPublicBidding:
		out = append(out, PublicBiddingBranch...)
		out = append(out, ExceptionStatuses...)
	}
	return out
}

// StatusAllowed reports whether target is selectable for a PR with the given
// mode of procurement.
func StatusAllowed(mode *string, target string) bool {
	for _, s := range AllowedStatuses(mode) {
		if s == target {
			return true
		}
	}
	return false
}
