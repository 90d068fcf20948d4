package identity

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// AvatarKind discriminates the two avatar representations.
type AvatarKind string

const (
	AvatarGenerated AvatarKind = "generated"
	AvatarCustom    AvatarKind = "custom"
)

// Avatar is either a generated descriptor (Style/Seed/Variant) or a custom
// image (DataURL plus an integrity hash).
type Avatar struct {
	Kind AvatarKind `json:"kind"`

	Style   string `json:"style,omitempty"`
	Seed    string `json:"seed,omitempty"`
	Variant int    `json:"variant,omitempty"`

	DataURL    string    `json:"dataUrl,omitempty"`
	Hash       string    `json:"hash,omitempty"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
}

// NewGeneratedAvatar builds a generated-avatar descriptor.
func NewGeneratedAvatar(style, seed string, variant int) *Avatar {
	return &Avatar{Kind: AvatarGenerated, Style: style, Seed: seed, Variant: variant}
}

// NewCustomAvatar builds a custom avatar from an image data URL, stamping the
// upload time and a BLAKE2b-256 integrity hash of the payload.
func NewCustomAvatar(dataURL string) *Avatar {
	sum := blake2b.Sum256([]byte(dataURL))
	return &Avatar{
		Kind:       AvatarCustom,
		DataURL:    dataURL,
		Hash:       hex.EncodeToString(sum[:]),
		UploadedAt: time.Now().UTC(),
	}
}

// Valid reports whether the avatar carries enough data to render.
func (a *Avatar) Valid() bool {
	if a == nil {
		return false
	}
	switch a.Kind {
	case AvatarGenerated:
		return a.Seed != ""
	case AvatarCustom:
		return a.DataURL != ""
	default:
		return false
	}
}

// VerifyIntegrity recomputes the custom avatar hash and reports whether it
// matches the stored one. Generated avatars always pass.
func (a *Avatar) VerifyIntegrity() bool {
	if a == nil {
		return false
	}
	if a.Kind != AvatarCustom {
		return true
	}
	sum := blake2b.Sum256([]byte(a.DataURL))
	return hex.EncodeToString(sum[:]) == a.Hash
}
