package models

import "time"

type EntityType string

const (
	EntityBrand       EntityType = "brand"
	EntityTerm        EntityType = "term"
	EntityUser        EntityType = "user"
	EntityMarketplace EntityType = "marketplace"
	EntityListing     EntityType = "listing"
	EntityAlert       EntityType = "alert"
)

type ActivityLog struct {
	ID         int64      `json:"id"`
	EntityType EntityType `json:"entity_type"`
	EntityID   int64      `json:"entity_id"`
	Action     string     `json:"action"`
	Details    *string    `json:"details"`
	UserID     *int64     `json:"user_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (a *ActivityLog) ScanTargets() []any {
	return []any{&a.ID, &a.EntityType, &a.EntityID, &a.Action, &a.Details, &a.UserID, &a.CreatedAt}
}
