package service

import (
	"errors"
	"strings"

	"sportlink-service/apperr"
	"sportlink-service/model"
	"sportlink-service/pagination"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) ByID(id uint) (*model.User, error) {
	user := new(model.User)
	if err := s.db.First(user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeUserNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ByUsername(username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	user := new(model.User)
	if err := s.db.Where(&model.User{Username: username}).First(user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeUserNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

// ProfileUpdate applies only the fields that are set.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Bio         *string `json:"bio"`
	Sport       *string `json:"sport"`
	Position    *string `json:"position"`
	TeamName    *string `json:"team_name"`
}

func (s *UserService) UpdateProfile(id uint, in ProfileUpdate) (*model.User, error) {
	user, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		user.DisplayName = *in.DisplayName
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Sport != nil {
		user.Sport = *in.Sport
	}
	if in.Position != nil {
		user.Position = *in.Position
	}
	if in.TeamName != nil {
		user.TeamName = *in.TeamName
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetBanned(id uint, banned bool) (*model.User, error) {
	user, err := s.ByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("banned", banned).Error; err != nil {
		return nil, err
	}
	user.Banned = banned
	return user, nil
}

func (s *UserService) List(p pagination.Params) (pagination.Page[model.User], error) {
	p = p.Clamp()

	var users []model.User
	q := s.db.Order("id DESC").Limit(p.Limit + 1)
	if p.Cursor != 0 {
		q = q.Where("id < ?", p.Cursor)
	}
	if err := q.Find(&users).Error; err != nil {
		return pagination.Page[model.User]{}, err
	}

	return pagination.Slice(users, p.Limit, func(u model.User) uint { return u.ID }), nil
}
