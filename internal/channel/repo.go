package channel

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// ListAll returns every channel, general channel first, then by name.
func (r *Repo) ListAll(ctx context.Context) ([]Channel, error) {
	var chans []Channel
	if err := r.db.WithContext(ctx).
		Order("is_general DESC").
		Order("name ASC").
		Find(&chans).Error; err != nil {
		return nil, err
	}
	return chans, nil
}

func (r *Repo) Create(ctx context.Context, ch *Channel) error {
	return r.db.WithContext(ctx).Create(ch).Error
}

func (r *Repo) GetByID(ctx context.Context, id uint64) (*Channel, error) {
	var ch Channel
	if err := r.db.WithContext(ctx).First(&ch, id).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

// ChannelExists is the existence probe used by the message store.
func (r *Repo) ChannelExists(ctx context.Context, id uint64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&Channel{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// EnsureGeneral creates the default landing channel if it does not exist.
// Run once at startup so exactly one channel carries is_general.
func (r *Repo) EnsureGeneral(ctx context.Context, name string) error {
	desc := "Default channel"
	return r.db.WithContext(ctx).
		Where(Channel{Name: name}).
		Attrs(Channel{Description: &desc, IsGeneral: true}).
		FirstOrCreate(&Channel{}).Error
}
