package handler

import "github.com/ironbrigade/recruitment-portal/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// --- Request / Response types ---

type submitApplicationRequest struct {
	RobloxUsername   string `json:"roblox_username"   validate:"required"`
	DiscordUsername  string `json:"discord_username"`
	Age              int    `json:"age"               validate:"required,min=13,max=100"`
	Experience       string `json:"experience"        validate:"required"`
	WhyJoin          string `json:"why_join"          validate:"required"`
	Availability     string `json:"availability"      validate:"required"`
	PreviousMilitary string `json:"previous_military"`
}

type submitApplicationResponse struct {
	ID      int64 `json:"id"`
	Success bool  `json:"success"`
}

type setStatusRequest struct {
	Status     string  `json:"status"      validate:"required,oneof=approved rejected"`
	AdminNotes *string `json:"admin_notes"`
}

// applicationList keeps empty results encoded as [] rather than null.
func applicationList(apps []*domain.Application) []*domain.Application {
	if apps == nil {
		return []*domain.Application{}
	}
	return apps
}
