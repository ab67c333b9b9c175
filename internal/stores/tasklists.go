package stores

import (
	"errors"

	"github.com/listkeep-dev/listkeep/internal/apperrors"
	"github.com/listkeep-dev/listkeep/internal/models"
	"gorm.io/gorm"
)

type TaskListStore struct {
	db *gorm.DB
}

func NewTaskListStore(db *gorm.DB) *TaskListStore {
	return &TaskListStore{db: db}
}

// Create makes ownerID the list's owner and its first Admin participant in
// one transaction: two facts, one action.
func (s *TaskListStore) Create(name string, ownerID uint) (*models.TaskList, error) {
	list := models.TaskList{
		Name:    name,
		OwnerID: ownerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&list).Error; err != nil {
			return err
		}

		participant := models.Participant{
			UserID:     ownerID,
			TaskListID: list.ID,
			Role:       models.RoleAdmin,
		}

		return tx.Create(&participant).Error
	})

	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create task list", err)
	}

	return s.FindByID(list.ID)
}

// FindByID loads a list with its owner and participant roster.
func (s *TaskListStore) FindByID(id uint) (*models.TaskList, error) {
	var list models.TaskList

	err := s.db.Preload("Owner").Preload("Participants.User").First(&list, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "Task list not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to fetch task list", err)
	}

	return &list, nil
}

// ListForUser returns every list where the user appears in the participant
// roster, owned or not.
func (s *TaskListStore) ListForUser(userID uint) ([]models.TaskList, error) {
	var lists []models.TaskList

	err := s.db.
		Joins("JOIN participants ON participants.task_list_id = task_lists.id AND participants.deleted_at IS NULL").
		Where("participants.user_id = ?", userID).
		Preload("Owner").
		Preload("Participants.User").
		Find(&lists).Error

	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list task lists", err)
	}

	return lists, nil
}

// AddParticipant puts userID on the roster with the given role. Concurrent
// adds of the same user serialize on the (user, list) unique index: exactly
// one insert wins and the loser surfaces as Conflict.
func (s *TaskListStore) AddParticipant(listID, userID uint, role models.Role) (*models.TaskList, error) {
	if !role.Valid() {
		return nil, apperrors.New(apperrors.KindValidation, "Role must be Admin or Viewer")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var list models.TaskList

		if err := tx.First(&list, listID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.KindNotFound, "Task list not found")
			}
			return apperrors.Wrap(apperrors.KindInternal, "failed to fetch task list", err)
		}

		var existing models.Participant

		err := tx.Where("task_list_id = ? AND user_id = ?", listID, userID).First(&existing).Error

		if err == nil {
			return apperrors.New(apperrors.KindConflict, "User is already a participant")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.KindInternal, "failed to check participants", err)
		}

		participant := models.Participant{
			UserID:     userID,
			TaskListID: listID,
			Role:       role,
		}

		if err := tx.Create(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.New(apperrors.KindConflict, "User is already a participant")
			}
			return apperrors.Wrap(apperrors.KindInternal, "failed to add participant", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return s.FindByID(listID)
}

// RoleOf returns the role recorded for userID on listID. The second return
// is false both when the list does not exist and when the user is not on
// its roster.
func (s *TaskListStore) RoleOf(userID, listID uint) (models.Role, bool, error) {
	var participant models.Participant

	err := s.db.Where("task_list_id = ? AND user_id = ?", listID, userID).First(&participant).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, apperrors.Wrap(apperrors.KindInternal, "failed to fetch participant", err)
	}

	return participant.Role, true, nil
}

// Delete removes a list together with its tasks and participants in one
// transaction. No task outlives its list.
func (s *TaskListStore) Delete(listID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var list models.TaskList

		if err := tx.First(&list, listID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.KindNotFound, "Task list not found")
			}
			return apperrors.Wrap(apperrors.KindInternal, "failed to fetch task list", err)
		}

		if err := tx.Where("task_list_id = ?", listID).Delete(&models.Task{}).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to delete tasks", err)
		}

		if err := tx.Where("task_list_id = ?", listID).Delete(&models.Participant{}).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to delete participants", err)
		}

		if err := tx.Delete(&list).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to delete task list", err)
		}

		return nil
	})
}
