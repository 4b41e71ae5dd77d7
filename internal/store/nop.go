package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/calebmills/redlead/internal/model"
)

// NopStore is a no-op store used in dry-run mode. Nothing is persisted, so
// every author looks like a new lead and no post is ever a duplicate.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

var _ model.LeadStore = (*NopStore)(nil)

func (s *NopStore) GetOrCreateLead(username string) (model.Lead, bool, error) {
	now := time.Now().UTC()
	return model.Lead{
		ID:             uuid.NewString(),
		RedditUsername: username,
		Status:         model.StatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, true, nil
}

func (s *NopStore) CreatePost(post model.Post) (model.Post, error) {
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now().UTC()
	return post, nil
}
