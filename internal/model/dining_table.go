package model

// DiningTable describes a physical table in the restaurant.  Tables are
// reference data shared by every reservation; a table that is still
// referenced by a reservation cannot be deleted.
//
// Fields:
//  ID          – primary key identifier.
//  TableNumber – unique human facing label (e.g. "T1").
//  Capacity    – number of seats, always positive.
type DiningTable struct {
    ID          uint64 `json:"id"`           // dining_tables.id
    TableNumber string `json:"table_number"` // dining_tables.table_number
    Capacity    uint32 `json:"capacity"`     // dining_tables.capacity
}

// TableStatus pairs a table with its occupancy for one slot.
type TableStatus struct {
    DiningTable
    IsBooked bool `json:"is_booked"`
}
