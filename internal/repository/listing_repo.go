package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
)

// ListingRepo is the read-only repository for listing lookups. Listings are
// owned by the listings subsystem; the conversation directory only checks
// existence and host ownership.
type ListingRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewListingRepo creates a new ListingRepo
func NewListingRepo(db *gorm.DB, rdb *redis.Client) *ListingRepo {
	return &ListingRepo{db: db, rdb: rdb}
}

// GetById gets a listing by id. Returns nil when absent.
func (r *ListingRepo) GetById(ctx context.Context, id string) (*entity.Listing, error) {
	var listing entity.Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// GetByIds gets listings for a set of ids, keyed by id
func (r *ListingRepo) GetByIds(ctx context.Context, ids []string) (map[string]*entity.Listing, error) {
	if len(ids) == 0 {
		return map[string]*entity.Listing{}, nil
	}

	var listings []*entity.Listing
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]*entity.Listing, len(listings))
	for _, l := range listings {
		result[l.Id] = l
	}
	return result, nil
}
