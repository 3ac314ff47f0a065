package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/constant"
)

const profileCacheTTL = 5 * time.Minute

// ProfileRepo is the read-only repository for profile lookups. Profiles are
// owned by the account system; this repo only hydrates display attributes,
// with a Redis cache in front of single-row lookups.
type ProfileRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewProfileRepo creates a new ProfileRepo
func NewProfileRepo(db *gorm.DB, rdb *redis.Client) *ProfileRepo {
	return &ProfileRepo{db: db, rdb: rdb}
}

// GetById gets a profile by id, cache-aside. Returns nil when absent.
func (r *ProfileRepo) GetById(ctx context.Context, id string) (*entity.Profile, error) {
	if cached := r.fromCache(ctx, id); cached != nil {
		return cached, nil
	}

	var profile entity.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	r.toCache(ctx, &profile)
	return &profile, nil
}

// GetByIds gets profiles for a set of ids, keyed by id. Batched by the
// caller (distinct sender ids) so hydration is one query per history load,
// not one per message.
func (r *ProfileRepo) GetByIds(ctx context.Context, ids []string) (map[string]*entity.Profile, error) {
	if len(ids) == 0 {
		return map[string]*entity.Profile{}, nil
	}

	var profiles []*entity.Profile
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]*entity.Profile, len(profiles))
	for _, p := range profiles {
		result[p.Id] = p
	}
	return result, nil
}

func (r *ProfileRepo) cacheKey(id string) string {
	return fmt.Sprintf(constant.RedisKeyProfile(), id)
}

func (r *ProfileRepo) fromCache(ctx context.Context, id string) *entity.Profile {
	if r.rdb == nil {
		return nil
	}
	data, err := r.rdb.Get(ctx, r.cacheKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var profile entity.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil
	}
	return &profile
}

func (r *ProfileRepo) toCache(ctx context.Context, profile *entity.Profile) {
	if r.rdb == nil {
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	r.rdb.Set(ctx, r.cacheKey(profile.Id), data, profileCacheTTL)
}
