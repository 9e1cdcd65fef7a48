package model

// Status is the lifecycle state of a reservation.
type Status string

const (
    StatusPending   Status = "Pending"
    StatusAccepted  Status = "Accepted"
    StatusRejected  Status = "Rejected"
    StatusCancelled Status = "Cancelled"
)

// HoldingStatuses are the statuses whose reservations occupy their tables.
var HoldingStatuses = []Status{StatusPending, StatusAccepted}

// ParseStatus matches s exactly against the known statuses; "accepted"
// is not a status.
func ParseStatus(s string) (Status, bool) {
    switch st := Status(s); st {
    case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
        return st, true
    }
    return "", false
}

// HoldsTables reports whether a reservation in this status keeps its
// tables booked for its slot.
func (s Status) HoldsTables() bool {
    return s == StatusPending || s == StatusAccepted
}

// CanTransition reports whether a reservation may move from s to target.
// Rejected and Cancelled are terminal.  Accepted may still be cancelled
// or, by staff, rejected.
func (s Status) CanTransition(target Status) bool {
    switch s {
    case StatusPending:
        return target == StatusAccepted || target == StatusRejected || target == StatusCancelled
    case StatusAccepted:
        return target == StatusCancelled || target == StatusRejected
    }
    return false
}
