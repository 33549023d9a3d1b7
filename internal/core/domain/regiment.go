package domain

import "time"

// Regiment is static descriptive data about a sub-group of the organisation.
type Regiment struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	RobloxGroupID  *string   `json:"roblox_group_id"`
	RobloxGroupURL *string   `json:"roblox_group_url"`
	LogoURL        *string   `json:"logo_url"`
	Motto          *string   `json:"motto"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
