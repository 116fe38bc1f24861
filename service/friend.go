package service

import (
	"errors"
	"fmt"

	"sportlink-service/apperr"
	"sportlink-service/model"

	"gorm.io/gorm"
)

type FriendService struct {
	db    *gorm.DB
	users *UserService
}

func NewFriendService(db *gorm.DB, users *UserService) *FriendService {
	return &FriendService{db: db, users: users}
}

// Request creates a pending relationship request toward username.
func (s *FriendService) Request(fromID uint, username string) (*model.FriendRequest, error) {
	to, err := s.users.ByUsername(username)
	if err != nil {
		return nil, err
	}
	if to.ID == fromID {
		return nil, apperr.New(apperr.CodeInvalidOperation, "cannot send a friend request to yourself")
	}

	existing := new(model.FriendRequest)
	err = s.db.
		Where("(from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)", fromID, to.ID, to.ID, fromID).
		Order("id DESC").
		First(existing).Error
	if err == nil {
		switch existing.Status {
		case model.FriendRequestPending:
			return nil, apperr.New(apperr.CodeValidation, "a request between these users is already pending")
		case model.FriendRequestAccepted:
			return nil, apperr.New(apperr.CodeAlreadyHandled, "request already handled")
		}
		// A rejected request does not block a new one.
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	request := &model.FriendRequest{
		FromID: fromID,
		ToID:   to.ID,
		Status: model.FriendRequestPending,
	}
	if err := s.db.Create(request).Error; err != nil {
		return nil, err
	}

	from, err := s.users.ByID(fromID)
	if err != nil {
		return nil, err
	}
	s.db.Create(&model.Notification{
		Type:        model.NotificationFriendRequest,
		ActorID:     fromID,
		RecipientID: to.ID,
		TargetID:    request.ID,
		Message:     fmt.Sprintf("%s sent you a friend request", from.Username),
	})

	request.From = *from
	request.To = *to
	return request, nil
}

// Respond accepts or rejects a pending request. ACCEPTED and REJECTED are
// terminal: a second response yields ALREADY_HANDLED. Accepting creates the
// follow edge in both directions.
func (s *FriendService) Respond(requestID, userID uint, accept bool) (*model.FriendRequest, error) {
	request := new(model.FriendRequest)
	if err := s.db.Preload("From").Preload("To").First(request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeRequestNotFound, "friend request not found")
		}
		return nil, err
	}

	if request.ToID != userID {
		return nil, apperr.New(apperr.CodeForbidden, "only the addressee can respond to a request")
	}
	if request.Status != model.FriendRequestPending {
		return nil, apperr.New(apperr.CodeAlreadyHandled, "request already handled")
	}

	status := model.FriendRequestRejected
	if accept {
		status = model.FriendRequestAccepted
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(request).Update("status", status).Error; err != nil {
			return err
		}
		if !accept {
			return nil
		}

		edges := []model.Follow{
			{FollowerID: request.FromID, FolloweeID: request.ToID},
			{FollowerID: request.ToID, FolloweeID: request.FromID},
		}
		for _, edge := range edges {
			var count int64
			if err := tx.Model(&model.Follow{}).
				Where("follower_id = ? AND followee_id = ?", edge.FollowerID, edge.FolloweeID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				if err := tx.Create(&edge).Error; err != nil {
					return err
				}
			}
		}

		return tx.Create(&model.Notification{
			Type:        model.NotificationFriendAccept,
			ActorID:     request.ToID,
			RecipientID: request.FromID,
			TargetID:    request.ID,
			Message:     fmt.Sprintf("%s accepted your friend request", request.To.Username),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	request.Status = status
	return request, nil
}

// List returns the caller's mutual-relationship list.
func (s *FriendService) List(userID uint) ([]UserPublic, error) {
	var following []model.Follow
	if err := s.db.Where("follower_id = ?", userID).Find(&following).Error; err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []UserPublic{}, nil
	}

	ids := make([]uint, 0, len(following))
	for _, edge := range following {
		ids = append(ids, edge.FolloweeID)
	}

	var back []model.Follow
	if err := s.db.
		Where("follower_id IN ? AND followee_id = ?", ids, userID).
		Find(&back).Error; err != nil {
		return nil, err
	}
	if len(back) == 0 {
		return []UserPublic{}, nil
	}

	mutualIDs := make([]uint, 0, len(back))
	for _, edge := range back {
		mutualIDs = append(mutualIDs, edge.FollowerID)
	}

	var users []model.User
	if err := s.db.Where("id IN ?", mutualIDs).Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	friends := make([]UserPublic, 0, len(users))
	for _, u := range users {
		friends = append(friends, publicUser(u))
	}
	return friends, nil
}
