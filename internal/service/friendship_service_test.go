package service

import (
	"concert_connect_backend/internal/model"
	"concert_connect_backend/internal/util"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRequestLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newFriendshipService(db)

	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	// 自己和不存在的用户
	_, err := svc.SendRequest(alice.ID, alice.ID)
	assert.True(t, errors.Is(err, util.ErrValidation))
	_, err = svc.SendRequest(alice.ID, 9999)
	assert.True(t, errors.Is(err, util.ErrNotFound))

	request, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FriendshipPending, request.Status)

	// 同方向和反方向都拒绝重复
	_, err = svc.SendRequest(alice.ID, bob.ID)
	assert.True(t, errors.Is(err, util.ErrValidation))
	_, err = svc.SendRequest(bob.ID, alice.ID)
	assert.True(t, errors.Is(err, util.ErrValidation))

	// 只有被申请人能处理
	_, err = svc.RespondRequest(alice.ID, request.ID, "accept")
	assert.True(t, errors.Is(err, util.ErrForbidden))

	accepted, err := svc.RespondRequest(bob.ID, request.ID, "accept")
	require.NoError(t, err)
	assert.Equal(t, model.FriendshipAccepted, accepted.Status)

	// 已处理的申请不能再处理
	_, err = svc.RespondRequest(bob.ID, request.ID, "accept")
	assert.True(t, errors.Is(err, util.ErrValidation))

	// 双方都能在好友列表里看到对方
	friendsOfAlice, err := svc.ListFriends(alice.ID)
	require.NoError(t, err)
	require.Len(t, friendsOfAlice, 1)
	assert.Equal(t, bob.ID, friendsOfAlice[0].User.ID)

	friendsOfBob, err := svc.ListFriends(bob.ID)
	require.NoError(t, err)
	require.Len(t, friendsOfBob, 1)
	assert.Equal(t, alice.ID, friendsOfBob[0].User.ID)

	// 已是好友后不能再发申请
	_, err = svc.SendRequest(alice.ID, bob.ID)
	assert.True(t, errors.Is(err, util.ErrValidation))

	// 任一方都可解除，之后再删报 404
	require.NoError(t, svc.RemoveFriend(bob.ID, alice.ID))
	assert.True(t, errors.Is(svc.RemoveFriend(alice.ID, bob.ID), util.ErrNotFound))

	// 解除后可重新发起
	_, err = svc.SendRequest(bob.ID, alice.ID)
	assert.NoError(t, err)
}

func TestDeclineDeletesRequest(t *testing.T) {
	db := newTestDB(t)
	svc := newFriendshipService(db)

	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	request, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	result, err := svc.RespondRequest(bob.ID, request.ID, "decline")
	require.NoError(t, err)
	assert.Nil(t, result)

	var count int64
	require.NoError(t, db.Model(&model.Friendship{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// 拒绝后可以重新申请
	_, err = svc.SendRequest(alice.ID, bob.ID)
	assert.NoError(t, err)
}

func TestBlockStopsNewRequests(t *testing.T) {
	db := newTestDB(t)
	svc := newFriendshipService(db)

	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	request, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)

	blocked, err := svc.RespondRequest(bob.ID, request.ID, "block")
	require.NoError(t, err)
	assert.Equal(t, model.FriendshipBlocked, blocked.Status)

	// 拉黑的边挡住双向的新申请
	_, err = svc.SendRequest(alice.ID, bob.ID)
	assert.True(t, errors.Is(err, util.ErrValidation))
	_, err = svc.SendRequest(bob.ID, alice.ID)
	assert.True(t, errors.Is(err, util.ErrValidation))

	// blocked 边不算好友
	friends, err := svc.ListFriends(bob.ID)
	require.NoError(t, err)
	assert.Len(t, friends, 0)
}

func TestPendingRequestsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newFriendshipService(db)

	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	carol := createUser(t, db, "carol@example.com")

	first, err := svc.SendRequest(alice.ID, carol.ID)
	require.NoError(t, err)
	second, err := svc.SendRequest(bob.ID, carol.ID)
	require.NoError(t, err)

	// 把第一条申请时间拨早，保证排序可断言
	require.NoError(t, db.Model(&model.Friendship{}).Where("id = ?", first.ID).
		Update("created_at", first.CreatedAt.Add(-time.Hour)).Error)

	pending, err := svc.PendingRequests(carol.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, second.ID, pending[0].ID)
	assert.Equal(t, bob.ID, pending[0].Requester.ID)
	assert.Equal(t, first.ID, pending[1].ID)

	// 发起方看不到这些申请
	none, err := svc.PendingRequests(alice.ID)
	require.NoError(t, err)
	assert.Len(t, none, 0)
}

func TestFriendIDs(t *testing.T) {
	db := newTestDB(t)
	svc := newFriendshipService(db)

	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	carol := createUser(t, db, "carol@example.com")

	reqBob, err := svc.SendRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.RespondRequest(bob.ID, reqBob.ID, "accept")
	require.NoError(t, err)

	reqCarol, err := svc.SendRequest(carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.RespondRequest(alice.ID, reqCarol.ID, "accept")
	require.NoError(t, err)

	ids, err := svc.FriendIDs(alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{bob.ID, carol.ID}, ids)
}
