package domain

// ActionType identifies a kind of action requested against an event.
type ActionType string

const (
	ActionCreate           ActionType = "CREATE"
	ActionNotify           ActionType = "NOTIFY"
	ActionDeclare          ActionType = "DECLARE"
	ActionValidate         ActionType = "VALIDATE"
	ActionRegister         ActionType = "REGISTER"
	ActionReject           ActionType = "REJECT"
	ActionArchive          ActionType = "ARCHIVE"
	ActionPrintCertificate ActionType = "PRINT_CERTIFICATE"
	ActionRequestCorrection ActionType = "REQUEST_CORRECTION"
	ActionApproveCorrection ActionType = "APPROVE_CORRECTION"
	ActionRejectCorrection  ActionType = "REJECT_CORRECTION"
	ActionMarkDuplicate    ActionType = "MARK_DUPLICATE"
	ActionDismissDuplicate ActionType = "DISMISS_DUPLICATE"
	ActionRead             ActionType = "READ"
	ActionDelete           ActionType = "DELETE"
	ActionAssign           ActionType = "ASSIGN"
	ActionUnassign         ActionType = "UNASSIGN"
)

// AllActionTypes lists every known action type, used for input validation.
var AllActionTypes = []ActionType{
	ActionCreate, ActionNotify, ActionDeclare, ActionValidate,
	ActionRegister, ActionReject, ActionArchive, ActionPrintCertificate,
	ActionRequestCorrection, ActionApproveCorrection, ActionRejectCorrection,
	ActionMarkDuplicate, ActionDismissDuplicate,
	ActionRead, ActionDelete, ActionAssign, ActionUnassign,
}

// IsValidActionType reports whether s names a known action type.
func IsValidActionType(s string) bool {
	for _, t := range AllActionTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// ActionStatus is the lifecycle state of a single action record.
type ActionStatus string

const (
	ActionStatusRequested ActionStatus = "Requested"
	ActionStatusAccepted  ActionStatus = "Accepted"
	ActionStatusRejected  ActionStatus = "Rejected"
)

// EventStatus is the logical status of an event, computed by folding its
// accepted actions. It is never stored; the action log is the source of truth.
type EventStatus string

const (
	StatusCreated    EventStatus = "CREATED"
	StatusNotified   EventStatus = "NOTIFIED"
	StatusDeclared   EventStatus = "DECLARED"
	StatusValidated  EventStatus = "VALIDATED"
	StatusRegistered EventStatus = "REGISTERED"
	StatusCertified  EventStatus = "CERTIFIED"
	StatusRejected   EventStatus = "REJECTED"
	StatusArchived   EventStatus = "ARCHIVED"
)

// Flag is a sticky marker influencing allowed transitions independently of
// the primary status.
type Flag string

const (
	FlagDuplicate           Flag = "DUPLICATE"
	FlagCorrectionRequested Flag = "CORRECTION_REQUESTED"
)

// LocationType classifies a location record.
type LocationType string

const (
	LocationTypeAdminStructure LocationType = "ADMIN_STRUCTURE"
	LocationTypeFacility       LocationType = "HEALTH_FACILITY"
	LocationTypeOffice         LocationType = "CRVS_OFFICE"
)

// Scope names a capability carried by a caller's token.
type Scope string

const (
	// ScopeDataSeeding gates reference-data seeding endpoints.
	ScopeDataSeeding Scope = "USER_DATA_SEEDING"
)
