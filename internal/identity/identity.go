// Package identity defines the durable user profile shared by the client
// flow, the hybrid store, and the server-side nickname service.
package identity

import "time"

// Identity is the authenticated user's durable profile.
//
// Address is an opaque key derived from the user's credential; its format is
// owned by the credential provider and never interpreted here. Nickname is
// globally unique and change-limited; DisplayName is free-form and
// independently editable.
type Identity struct {
	Address         string    `json:"address"`
	Nickname        string    `json:"nickname,omitempty"`
	DisplayName     string    `json:"displayName,omitempty"`
	Avatar          *Avatar   `json:"avatar,omitempty"`
	NicknameChanges int       `json:"nicknameChanges,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// Complete reports whether onboarding finished for this profile: both a
// nickname and a usable avatar are present. The auth flow's returning-user
// fast path keys off this.
func (i *Identity) Complete() bool {
	return i != nil && i.Nickname != "" && i.Avatar.Valid()
}

// CanChangeNickname reports whether the profile may still change its handle.
// A nickname may be changed at most once after the initial claim.
func (i *Identity) CanChangeNickname() bool {
	return i.NicknameChanges < NicknameChangeLimit
}
