package repository

import (
	"concert_connect_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(post *model.SocialPost) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id string) (*model.SocialPost, error) {
	var post model.SocialPost
	err := r.DB.Preload("Author").Preload("Event").Where("id = ?", id).First(&post).Error
	return &post, err
}

// FeedPage 指定作者集合的动态分页，最新在前
func (r *PostRepository) FeedPage(authorIDs []uint, page, limit int) ([]model.SocialPost, int64, error) {
	var posts []model.SocialPost
	var total int64

	query := r.DB.Model(&model.SocialPost{}).Where("author_id IN ?", authorIDs)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Author").Preload("Event").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

// LikeCounts 批量统计点赞数
func (r *PostRepository) LikeCounts(postIDs []string) (map[string]int64, error) {
	type row struct {
		PostID string
		Count  int64
	}
	var rows []row
	err := r.DB.Model(&model.SocialLike{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.PostID] = rw.Count
	}
	return counts, nil
}

// LikedSet 当前用户在这批动态中点过赞的集合
func (r *PostRepository) LikedSet(userID uint, postIDs []string) (map[string]bool, error) {
	var ids []string
	err := r.DB.Model(&model.SocialLike{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	liked := make(map[string]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// ToggleLike 点赞/取消点赞，返回操作后是否为点赞状态
func (r *PostRepository) ToggleLike(postID string, userID uint) (bool, error) {
	result := r.DB.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.SocialLike{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	err := r.DB.Create(&model.SocialLike{PostID: postID, UserID: userID}).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发重复点赞视为成功
		return true, nil
	}
	return err == nil, err
}

func (r *PostRepository) CountLikes(postID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SocialLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *PostRepository) CreateComment(comment *model.SocialComment) error {
	return r.DB.Create(comment).Error
}

// CommentsForPost 动态的评论列表，时间正序
func (r *PostRepository) CommentsForPost(postID string) ([]model.SocialComment, error) {
	var comments []model.SocialComment
	err := r.DB.
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// CommentCounts 批量统计评论数
func (r *PostRepository) CommentCounts(postIDs []string) (map[string]int64, error) {
	type row struct {
		PostID string
		Count  int64
	}
	var rows []row
	err := r.DB.Model(&model.SocialComment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.PostID] = rw.Count
	}
	return counts, nil
}
