package model

import "time"

// Date and time layouts used on the wire and as canonical slot values.
const (
    DateLayout = "2006-01-02"
    TimeLayout = "15:04"
)

// Slot identifies one seating opportunity.  Date is YYYY-MM-DD and Time
// is HH:MM on a 24-hour clock; both are kept in canonical string form so
// they compare the same way in MySQL and SQLite.
type Slot struct {
    Date string
    Time string
}

// DBTime returns the slot time in the HH:MM:SS form stored in TIME columns.
func (s Slot) DBTime() string { return s.Time + ":00" }

func (s Slot) String() string { return s.Date + " " + s.Time }

// Reservation records a request to occupy one or more tables at one
// slot.  Status is only changed through the lifecycle rules in
// status.go.
//
// Fields:
//  ID           – primary key identifier.
//  CustomerName – name given at booking time.
//  ContactInfo  – phone or email given at booking time.
//  Date, Time   – the slot, see Slot.
//  Status       – lifecycle state.
//  UserID       – owning user; nil for anonymous bookings.
//  Tables       – associated tables ordered by id.
//  CreatedAt    – creation timestamp.
type Reservation struct {
    ID           uint64        `json:"id"`
    CustomerName string        `json:"customer_name"`
    ContactInfo  string        `json:"contact_info"`
    Date         string        `json:"reservation_date"`
    Time         string        `json:"reservation_time"`
    Status       Status        `json:"status"`
    UserID       *uint64       `json:"user_id,omitempty"`
    Tables       []DiningTable `json:"booked_tables"`
    CreatedAt    time.Time     `json:"-"`
}

// Slot returns the reservation's slot.
func (r Reservation) Slot() Slot { return Slot{Date: r.Date, Time: r.Time} }

// TableIDs returns the ids of the associated tables in their stored order.
func (r Reservation) TableIDs() []uint64 {
    ids := make([]uint64, 0, len(r.Tables))
    for _, t := range r.Tables {
        ids = append(ids, t.ID)
    }
    return ids
}
