package api

import (
	"time"

	"github.com/yebin817/passvault/internal/server/services"
)

// entryResponse is the wire shape of a stored credential. It deliberately has
// no password field; passwords travel only through the edit and reveal
// endpoints.
type entryResponse struct {
	ID          string    `json:"id"`
	ServiceName string    `json:"service_name"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type editResponse struct {
	entryResponse
	Password      string `json:"password"`
	Undecryptable bool   `json:"undecryptable,omitempty"`
}

func viewToResponse(v services.EntryView) entryResponse {
	return entryResponse{
		ID:          v.ID,
		ServiceName: v.ServiceName,
		Username:    v.Username,
		Email:       v.Email,
		Notes:       v.Notes,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
