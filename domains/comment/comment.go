package comment

import (
	"context"

	"github.com/commentify/commentify/domains/profile"
)

// Comment is one canned comment text. Never edited in place; edit is
// modeled as remove + add.
type Comment struct {
	ID       string           `json:"id"`
	UserID   string           `json:"-"`
	Platform profile.Platform `json:"platform"`
	Text     string           `json:"text"`
}

type CreateCommentRequest struct {
	Platform profile.Platform `json:"platform"`
	Text     string           `json:"text"`
}

type ICommentUsecase interface {
	Create(ctx context.Context, userID string, req CreateCommentRequest) (Comment, error)
	List(ctx context.Context, userID string, platform profile.Platform) ([]Comment, error)
	GetByIDs(ctx context.Context, userID string, ids []string) ([]Comment, error)
	Delete(ctx context.Context, userID, id string) error
}
