package repository

import (
	"concert_connect_backend/internal/model"
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type FriendshipRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewFriendshipRepository(db *gorm.DB, rdb *redis.Client) *FriendshipRepository {
	return &FriendshipRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func friendCacheKey(userID uint) string {
	return fmt.Sprintf("social:friends:%d", userID)
}

func (r *FriendshipRepository) Create(f *model.Friendship) error {
	return r.DB.Create(f).Error
}

func (r *FriendshipRepository) FindByID(id uint) (*model.Friendship, error) {
	var f model.Friendship
	err := r.DB.Preload("Requester").First(&f, id).Error
	return &f, err
}

// FindBetween 任一方向、任意状态的边，发起申请前双向查重用
func (r *FriendshipRepository) FindBetween(a, b uint) (*model.Friendship, error) {
	var f model.Friendship
	err := r.DB.
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)", a, b, b, a).
		First(&f).Error
	return &f, err
}

func (r *FriendshipRepository) UpdateStatus(id uint, status model.FriendshipStatus) error {
	err := r.DB.Model(&model.Friendship{}).Where("id = ?", id).Update("status", status).Error
	return err
}

func (r *FriendshipRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Friendship{}, id).Error
}

// PendingForAddressee 用户收到的待处理申请，最新在前
func (r *FriendshipRepository) PendingForAddressee(userID uint) ([]model.Friendship, error) {
	var rows []model.Friendship
	err := r.DB.
		Preload("Requester").
		Where("addressee_id = ? AND status = ?", userID, model.FriendshipPending).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// AcceptedForUser 用户作为任一端点的 accepted 边
func (r *FriendshipRepository) AcceptedForUser(userID uint) ([]model.Friendship, error) {
	var rows []model.Friendship
	err := r.DB.
		Preload("Requester").Preload("Addressee").
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, model.FriendshipAccepted).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// DeleteAcceptedBetween 双向删除 accepted 边，返回删除行数
func (r *FriendshipRepository) DeleteAcceptedBetween(a, b uint) (int64, error) {
	result := r.DB.
		Where("((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)) AND status = ?",
			a, b, b, a, model.FriendshipAccepted).
		Delete(&model.Friendship{})

	if result.Error == nil && result.RowsAffected > 0 {
		r.InvalidateFriendCache(a, b)
	}
	return result.RowsAffected, result.Error
}

// FriendIDs accepted 边上另一端的 id 列表
func (r *FriendshipRepository) FriendIDs(userID uint) ([]uint, error) {
	rows, err := r.AcceptedForUser(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, f := range rows {
		ids = append(ids, f.OtherParty(userID))
	}
	return ids, nil
}

// FriendIDsCached 获取好友 ID 列表 (带缓存)
func (r *FriendshipRepository) FriendIDsCached(userID uint) ([]uint, error) {
	if r.Redis == nil {
		return r.FriendIDs(userID)
	}

	key := friendCacheKey(userID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		var ids []uint
		for _, s := range cached {
			var id uint
			fmt.Sscanf(s, "%d", &id)
			if id > 0 {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	// 缓存失效，回源数据库
	ids, err := r.FriendIDs(userID)
	if err == nil && len(ids) > 0 {
		pipe := r.Redis.Pipeline()
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
		pipe.Exec(r.ctx)
	} else if err == nil {
		// 防止缓存穿透：存哨兵值并设置短过期时间
		r.Redis.SAdd(r.ctx, key, 0)
		r.Redis.Expire(r.ctx, key, 5*time.Minute)
	}
	return ids, err
}

func (r *FriendshipRepository) InvalidateFriendCache(userIDs ...uint) {
	if r.Redis == nil {
		return
	}
	for _, id := range userIDs {
		r.Redis.Del(r.ctx, friendCacheKey(id))
	}
}
