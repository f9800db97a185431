package service

import (
	"concert_connect_backend/internal/model"
	"concert_connect_backend/internal/repository"
	"concert_connect_backend/internal/util"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSocialService(t *testing.T) (*SocialService, *gorm.DB) {
	db := newTestDB(t)
	friendshipSvc := newFriendshipService(db)
	svc := NewSocialService(repository.NewPostRepository(db), repository.NewEventRepository(db), friendshipSvc)
	return svc, db
}

func makeFriends(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()
	svc := newFriendshipService(db)
	request, err := svc.SendRequest(a, b)
	require.NoError(t, err)
	_, err = svc.RespondRequest(b, request.ID, "accept")
	require.NoError(t, err)
}

func TestCreatePostValidation(t *testing.T) {
	svc, db := newSocialService(t)
	user := createUser(t, db, "fan@example.com")

	_, err := svc.CreatePost(user.ID, CreatePostInput{Content: "   "})
	assert.True(t, errors.Is(err, util.ErrValidation))

	_, err = svc.CreatePost(user.ID, CreatePostInput{Content: strings.Repeat("x", 1001)})
	assert.True(t, errors.Is(err, util.ErrValidation))

	missing := uint(9999)
	_, err = svc.CreatePost(user.ID, CreatePostInput{Content: "going!", EventID: &missing})
	assert.True(t, errors.Is(err, util.ErrNotFound))

	event := createEvent(t, db, "tm-1", time.Now().Add(24*time.Hour))
	post, err := svc.CreatePost(user.ID, CreatePostInput{Content: "  going! ", EventID: &event.ID})
	require.NoError(t, err)
	assert.Equal(t, "going!", post.Content)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, user.ID, post.Author.ID)
	require.NotNil(t, post.Event)
	assert.Equal(t, event.ID, post.Event.ID)
	assert.False(t, post.IsLiked)
	assert.Zero(t, post.LikeCount)
}

func TestFeedMembershipAndOrder(t *testing.T) {
	svc, db := newSocialService(t)

	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	mallory := createUser(t, db, "mallory@example.com")
	makeFriends(t, db, alice.ID, bob.ID)

	mine, err := svc.CreatePost(alice.ID, CreatePostInput{Content: "my post"})
	require.NoError(t, err)
	friends, err := svc.CreatePost(bob.ID, CreatePostInput{Content: "friend post"})
	require.NoError(t, err)
	_, err = svc.CreatePost(mallory.ID, CreatePostInput{Content: "stranger post"})
	require.NoError(t, err)

	// 拨早自己那条，验证 newest first
	require.NoError(t, db.Model(&model.SocialPost{}).Where("id = ?", mine.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	feed, total, err := svc.Feed(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, feed, 2)
	assert.Equal(t, friends.ID, feed[0].ID)
	assert.Equal(t, mine.ID, feed[1].ID)
}

func TestToggleLikeAndCounts(t *testing.T) {
	svc, db := newSocialService(t)

	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	makeFriends(t, db, alice.ID, bob.ID)

	post, err := svc.CreatePost(alice.ID, CreatePostInput{Content: "hello"})
	require.NoError(t, err)

	_, err = svc.ToggleLike(bob.ID, "missing-post")
	assert.True(t, errors.Is(err, util.ErrNotFound))

	liked, err := svc.ToggleLike(bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.EqualValues(t, 1, liked.Likes)

	likedAgain, err := svc.ToggleLike(alice.ID, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, likedAgain.Likes)

	// feed 注解反映各自的点赞状态
	feed, _, err := svc.Feed(bob.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.True(t, feed[0].IsLiked)
	assert.EqualValues(t, 2, feed[0].LikeCount)

	// 再点一次取消
	unliked, err := svc.ToggleLike(bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.EqualValues(t, 1, unliked.Likes)

	feed, _, err = svc.Feed(bob.ID, 1, 20)
	require.NoError(t, err)
	assert.False(t, feed[0].IsLiked)
}

func TestComments(t *testing.T) {
	svc, db := newSocialService(t)

	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	makeFriends(t, db, alice.ID, bob.ID)

	post, err := svc.CreatePost(alice.ID, CreatePostInput{Content: "hello"})
	require.NoError(t, err)

	_, err = svc.AddComment(bob.ID, post.ID, "  ")
	assert.True(t, errors.Is(err, util.ErrValidation))
	_, err = svc.AddComment(bob.ID, "missing-post", "nice")
	assert.True(t, errors.Is(err, util.ErrNotFound))

	first, err := svc.AddComment(bob.ID, post.ID, "first!")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	_, err = svc.AddComment(alice.ID, post.ID, "thanks")
	require.NoError(t, err)

	comments, err := svc.Comments(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first!", comments[0].Content)
	assert.Equal(t, bob.ID, comments[0].Author.ID)

	feed, _, err := svc.Feed(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, feed[0].CommentCount)
}
