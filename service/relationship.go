package service

import (
	"errors"
	"fmt"

	"sportlink-service/apperr"
	"sportlink-service/model"

	"gorm.io/gorm"
)

// RelationshipService owns the follow graph and the direct-message gate.
type RelationshipService struct {
	db    *gorm.DB
	users *UserService
}

func NewRelationshipService(db *gorm.DB, users *UserService) *RelationshipService {
	return &RelationshipService{db: db, users: users}
}

func (s *RelationshipService) Follow(followerID uint, username string) (*model.User, error) {
	followee, err := s.users.ByUsername(username)
	if err != nil {
		return nil, err
	}
	if followee.ID == followerID {
		return nil, apperr.New(apperr.CodeInvalidOperation, "cannot follow yourself")
	}

	existing := new(model.Follow)
	err = s.db.Where("follower_id = ? AND followee_id = ?", followerID, followee.ID).First(existing).Error
	if err == nil {
		return followee, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	edge := &model.Follow{FollowerID: followerID, FolloweeID: followee.ID}
	if err := s.db.Create(edge).Error; err != nil {
		return nil, err
	}

	follower, err := s.users.ByID(followerID)
	if err != nil {
		return nil, err
	}
	s.db.Create(&model.Notification{
		Type:        model.NotificationFollow,
		ActorID:     followerID,
		RecipientID: followee.ID,
		TargetID:    followerID,
		Message:     fmt.Sprintf("%s started following you", follower.Username),
	})

	return followee, nil
}

func (s *RelationshipService) Unfollow(followerID uint, username string) error {
	followee, err := s.users.ByUsername(username)
	if err != nil {
		return err
	}
	return s.db.
		Where("follower_id = ? AND followee_id = ?", followerID, followee.ID).
		Delete(&model.Follow{}).Error
}

func (s *RelationshipService) IsFollowing(followerID, followeeID uint) (bool, error) {
	var count int64
	err := s.db.Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

// Mutual reports whether the follow edge exists in both directions.
func (s *RelationshipService) Mutual(a, b uint) (bool, error) {
	var count int64
	err := s.db.Model(&model.Follow{}).
		Where("(follower_id = ? AND followee_id = ?) OR (follower_id = ? AND followee_id = ?)", a, b, b, a).
		Count(&count).Error
	return count == 2, err
}

// CanMessage decides whether sender may open a direct thread with receiver:
// mutual follow, or an already-existing conversation between the pair
// (existing threads stay writable after the relationship breaks). Pure read.
func (s *RelationshipService) CanMessage(senderID, receiverID uint) error {
	if senderID == receiverID {
		return apperr.New(apperr.CodeInvalidOperation, "cannot message yourself")
	}

	mutual, err := s.Mutual(senderID, receiverID)
	if err != nil {
		return err
	}
	if mutual {
		return nil
	}

	var count int64
	key := model.PairKey(senderID, receiverID)
	if err := s.db.Model(&model.Conversation{}).Where("pair_key = ?", key).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return apperr.New(apperr.CodeForbidden, "users must follow each other to message")
}
