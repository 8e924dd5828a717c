package model

import "time"

// Space types stored in spaces.space_type.
const (
	SpaceTemple = "TEMPLE"
	SpaceRoom   = "ROOM"
	SpaceHall   = "HALL"
	SpaceStudio = "STUDIO"
)

// Space is a bookable physical location.  RequiresApproval is the policy
// switch that decides whether new reservations start PENDING or are
// approved immediately.  Inactive spaces do not accept new reservations.
//
// Fields:
//  ID               – primary key identifier.
//  Name             – display name of the space.
//  SpaceType        – kind of location (TEMPLE, ROOM, HALL, STUDIO).
//  Capacity         – seating capacity, when known.
//  Description      – free-text description.
//  RequiresApproval – whether bookings need secretary approval.
//  IsActive         – whether the space accepts new reservations.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Space struct {
	ID               uint64    // spaces.id
	Name             string    // spaces.name
	SpaceType        string    // spaces.space_type
	Capacity         *uint32   // spaces.capacity (nullable)
	Description      *string   // spaces.description (nullable)
	RequiresApproval bool      // spaces.requires_approval
	IsActive         bool      // spaces.is_active
	CreatedAt        time.Time // spaces.created_at
	UpdatedAt        time.Time // spaces.updated_at
}
