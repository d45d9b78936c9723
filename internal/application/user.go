package app

import (
	"context"
	"errors"

	"pothole-tracker/internal/domain/entity"
	"pothole-tracker/internal/domain/port"
)

// ErrBusy снимок пользователя ещё обрабатывается
var ErrBusy = errors.New("previous photo is still processing")

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// SetState переводит пользователя в состояние; главное меню сбрасывает черновик
func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	if _, err := s.repo.Get(ctx, userID, chatID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateState(ctx, userID, state); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, chatID)
}

// BeginReport начинает диалог /report с пустым черновиком
func (s *UserService) BeginReport(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) error {
		if u.State == entity.StateProcessing {
			return ErrBusy
		}
		u.ResetDraft()
		u.SetState(entity.StateAwaitingLocation)
		return nil
	})
}

// SetLocation запоминает место и спрашивает степень опасности
func (s *UserService) SetLocation(ctx context.Context, userID, chatID int64, location string) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) error {
		u.Location = entity.NormalizeLocation(location)
		u.SetState(entity.StateAwaitingSeverity)
		return nil
	})
}

// SetSeverity запоминает степень опасности и ждёт фото.
// При неизвестном значении состояние не меняется.
func (s *UserService) SetSeverity(ctx context.Context, userID, chatID int64, severity string) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) error {
		sev, err := entity.ParseSeverity(severity)
		if err != nil {
			return err
		}
		u.Severity = sev
		u.SetState(entity.StateAwaitingPhoto)
		return nil
	})
}

// BeginProcessing помечает, что фото пользователя принято в работу
func (s *UserService) BeginProcessing(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) error {
		if u.State == entity.StateProcessing {
			return ErrBusy
		}
		u.SetState(entity.StateProcessing)
		return nil
	})
}

// Cancel возвращает в главное меню и сообщает, был ли активный диалог
func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, bool, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, false, err
	}
	active := user.State != entity.StateMainMenu

	user, err = s.Reset(ctx, userID, chatID)
	return user, active, err
}

// Reset возвращает в главное меню и очищает черновик
func (s *UserService) Reset(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

func (s *UserService) update(ctx context.Context, userID, chatID int64, fn func(u *entity.User) error) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if err := fn(user); err != nil {
		return user, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
