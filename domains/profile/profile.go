package profile

import "context"

// Platform discriminates which social network a record belongs to.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
)

func (p Platform) Valid() bool {
	return p == PlatformInstagram || p == PlatformFacebook || p == PlatformTikTok
}

// Profile is one captured browser session: a cookie export plus an optional
// egress proxy. Profiles are immutable once created; editing is modeled as
// delete + re-add.
type Profile struct {
	ID       string   `json:"id"`
	UserID   string   `json:"-"`
	Platform Platform `json:"platform"`
	Name     string   `json:"name"`
	Cookie   string   `json:"cookie,omitempty"`
	Proxy    string   `json:"proxy,omitempty"`
}

type CreateProfileRequest struct {
	Platform Platform `json:"platform"`
	Name     string   `json:"name"`
	Cookie   string   `json:"cookie"`
	Proxy    string   `json:"proxy"`
}

type IProfileUsecase interface {
	Create(ctx context.Context, userID string, req CreateProfileRequest) (Profile, error)
	List(ctx context.Context, userID string, platform Platform) ([]Profile, error)
	GetByIDs(ctx context.Context, userID string, ids []string) ([]Profile, error)
	Delete(ctx context.Context, userID, id string) error
}
