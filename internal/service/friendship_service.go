package service

import (
	"concert_connect_backend/internal/model"
	"concert_connect_backend/internal/repository"
	"concert_connect_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type FriendshipService struct {
	FriendshipRepo *repository.FriendshipRepository
	UserRepo       *repository.UserRepository
}

func NewFriendshipService(friendshipRepo *repository.FriendshipRepository, userRepo *repository.UserRepository) *FriendshipService {
	return &FriendshipService{
		FriendshipRepo: friendshipRepo,
		UserRepo:       userRepo,
	}
}

// SendRequest 发起好友申请。任一方向已有边（pending/accepted/blocked）都拒绝
func (s *FriendshipService) SendRequest(requesterID, addresseeID uint) (*model.Friendship, error) {
	if requesterID == addresseeID {
		return nil, util.Validationf("cannot send a friend request to yourself")
	}

	if _, err := s.UserRepo.FindByID(addresseeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	existing, err := s.FriendshipRepo.FindBetween(requesterID, addresseeID)
	if err == nil {
		switch existing.Status {
		case model.FriendshipAccepted:
			return nil, util.Validationf("already friends")
		case model.FriendshipBlocked:
			return nil, util.Validationf("friend request not allowed")
		default:
			return nil, util.Validationf("friend request already exists")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	friendship := &model.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      model.FriendshipPending,
	}
	if err := s.FriendshipRepo.Create(friendship); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.Validationf("friend request already exists")
		}
		return nil, err
	}
	return friendship, nil
}

// RespondRequest 处理收到的申请。只有被申请人能操作，只能处理 pending 状态。
// accept → accepted；decline → 删除；block → blocked
func (s *FriendshipService) RespondRequest(userID, requestID uint, action string) (*model.Friendship, error) {
	friendship, err := s.FriendshipRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRequestNotFound
		}
		return nil, err
	}

	if friendship.AddresseeID != userID {
		return nil, util.ErrForbidden
	}
	if friendship.Status != model.FriendshipPending {
		return nil, util.Validationf("request already handled")
	}

	switch action {
	case "accept":
		if err := s.FriendshipRepo.UpdateStatus(requestID, model.FriendshipAccepted); err != nil {
			return nil, err
		}
		friendship.Status = model.FriendshipAccepted
		s.FriendshipRepo.InvalidateFriendCache(friendship.RequesterID, friendship.AddresseeID)
	case "decline":
		if err := s.FriendshipRepo.Delete(requestID); err != nil {
			return nil, err
		}
		return nil, nil
	case "block":
		if err := s.FriendshipRepo.UpdateStatus(requestID, model.FriendshipBlocked); err != nil {
			return nil, err
		}
		friendship.Status = model.FriendshipBlocked
	default:
		return nil, util.Validationf("invalid action: %s", action)
	}
	return friendship, nil
}

// PendingRequest 待处理申请的投影，带申请人档案
type PendingRequest struct {
	ID        uint        `json:"id"`
	Requester *model.User `json:"requester"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (s *FriendshipService) PendingRequests(userID uint) ([]PendingRequest, error) {
	rows, err := s.FriendshipRepo.PendingForAddressee(userID)
	if err != nil {
		return nil, err
	}

	requests := make([]PendingRequest, 0, len(rows))
	for i := range rows {
		requests = append(requests, PendingRequest{
			ID:        rows[i].ID,
			Requester: &rows[i].Requester,
			CreatedAt: rows[i].CreatedAt,
		})
	}
	return requests, nil
}

// Friend 好友列表条目，投影边上的另一端
type Friend struct {
	User   *model.User `json:"user"`
	Since  time.Time   `json:"since"`
	EdgeID uint        `json:"-"`
}

func (s *FriendshipService) ListFriends(userID uint) ([]Friend, error) {
	rows, err := s.FriendshipRepo.AcceptedForUser(userID)
	if err != nil {
		return nil, err
	}

	friends := make([]Friend, 0, len(rows))
	for i := range rows {
		other := &rows[i].Requester
		if rows[i].RequesterID == userID {
			other = &rows[i].Addressee
		}
		friends = append(friends, Friend{
			User:   other,
			Since:  rows[i].UpdatedAt,
			EdgeID: rows[i].ID,
		})
	}
	return friends, nil
}

// RemoveFriend 双向删除 accepted 边
func (s *FriendshipService) RemoveFriend(userID, friendID uint) error {
	affected, err := s.FriendshipRepo.DeleteAcceptedBetween(userID, friendID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return util.ErrFriendNotFound
	}
	return nil
}

// FriendIDs 当前用户的好友 id 集合（含缓存），feed 作者范围用
func (s *FriendshipService) FriendIDs(userID uint) ([]uint, error) {
	return s.FriendshipRepo.FriendIDsCached(userID)
}
