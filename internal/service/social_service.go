package service

import (
	"concert_connect_backend/internal/model"
	"concert_connect_backend/internal/repository"
	"concert_connect_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

const maxPostContentLength = 1000

type SocialService struct {
	PostRepo      *repository.PostRepository
	EventRepo     *repository.EventRepository
	FriendshipSvc *FriendshipService
}

func NewSocialService(postRepo *repository.PostRepository, eventRepo *repository.EventRepository, friendshipSvc *FriendshipService) *SocialService {
	return &SocialService{
		PostRepo:      postRepo,
		EventRepo:     eventRepo,
		FriendshipSvc: friendshipSvc,
	}
}

type CreatePostInput struct {
	Content  string `json:"content"`
	EventID  *uint  `json:"eventId"`
	ImageURL string `json:"imageUrl"`
}

// FeedPost 动态加点赞/评论注解
type FeedPost struct {
	model.SocialPost
	IsLiked      bool  `json:"isLiked"`
	LikeCount    int64 `json:"likeCount"`
	CommentCount int64 `json:"commentCount"`
}

func (s *SocialService) CreatePost(authorID uint, input CreatePostInput) (*FeedPost, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, util.Validationf("content cannot be empty")
	}
	if len(content) > maxPostContentLength {
		return nil, util.Validationf("content exceeds %d characters", maxPostContentLength)
	}

	if input.EventID != nil {
		if _, err := s.EventRepo.FindByID(*input.EventID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrEventNotFound
			}
			return nil, err
		}
	}

	post := &model.SocialPost{
		AuthorID: authorID,
		EventID:  input.EventID,
		Content:  content,
		ImageURL: input.ImageURL,
	}
	if err := s.PostRepo.Create(post); err != nil {
		return nil, err
	}

	created, err := s.PostRepo.FindByID(post.ID)
	if err != nil {
		return nil, err
	}
	return &FeedPost{SocialPost: *created}, nil
}

// Feed 好友圈动态：作者集合 = accepted 好友 ∪ 自己，最新在前
func (s *SocialService) Feed(userID uint, page, limit int) ([]FeedPost, int64, error) {
	friendIDs, err := s.FriendshipSvc.FriendIDs(userID)
	if err != nil {
		return nil, 0, err
	}
	authorIDs := append(friendIDs, userID)

	posts, total, err := s.PostRepo.FeedPage(authorIDs, page, limit)
	if err != nil {
		return nil, 0, err
	}
	if len(posts) == 0 {
		return []FeedPost{}, total, nil
	}

	postIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	likeCounts, err := s.PostRepo.LikeCounts(postIDs)
	if err != nil {
		return nil, 0, err
	}
	commentCounts, err := s.PostRepo.CommentCounts(postIDs)
	if err != nil {
		return nil, 0, err
	}
	liked, err := s.PostRepo.LikedSet(userID, postIDs)
	if err != nil {
		return nil, 0, err
	}

	feed := make([]FeedPost, 0, len(posts))
	for _, p := range posts {
		feed = append(feed, FeedPost{
			SocialPost:   p,
			IsLiked:      liked[p.ID],
			LikeCount:    likeCounts[p.ID],
			CommentCount: commentCounts[p.ID],
		})
	}
	return feed, total, nil
}

// LikeResult toggle 后的状态快照
type LikeResult struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

func (s *SocialService) ToggleLike(userID uint, postID string) (*LikeResult, error) {
	if _, err := s.PostRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}

	liked, err := s.PostRepo.ToggleLike(postID, userID)
	if err != nil {
		return nil, err
	}

	likes, err := s.PostRepo.CountLikes(postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, Likes: likes}, nil
}

func (s *SocialService) AddComment(userID uint, postID, content string) (*model.SocialComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, util.Validationf("content cannot be empty")
	}
	if len(content) > maxPostContentLength {
		return nil, util.Validationf("content exceeds %d characters", maxPostContentLength)
	}

	if _, err := s.PostRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}

	comment := &model.SocialComment{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}
	if err := s.PostRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *SocialService) Comments(postID string) ([]model.SocialComment, error) {
	if _, err := s.PostRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}
	return s.PostRepo.CommentsForPost(postID)
}
