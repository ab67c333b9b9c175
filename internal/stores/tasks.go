package stores

import (
	"errors"

	"github.com/listkeep-dev/listkeep/internal/apperrors"
	"github.com/listkeep-dev/listkeep/internal/models"
	"gorm.io/gorm"
)

type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) Create(listID uint, title, description string) (*models.Task, error) {
	task := models.Task{
		Title:       title,
		Description: description,
		TaskListID:  listID,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create task", err)
	}

	return &task, nil
}

func (s *TaskStore) FindByID(id uint) (*models.Task, error) {
	var task models.Task

	err := s.db.First(&task, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "Task not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to fetch task", err)
	}

	return &task, nil
}

func (s *TaskStore) ListByList(listID uint) ([]models.Task, error) {
	var tasks []models.Task

	if err := s.db.Where("task_list_id = ?", listID).Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list tasks", err)
	}

	return tasks, nil
}

func (s *TaskStore) Save(task *models.Task) error {
	if err := s.db.Save(task).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to update task", err)
	}
	return nil
}

func (s *TaskStore) Delete(id uint) error {
	result := s.db.Delete(&models.Task{}, id)

	if result.Error != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to delete task", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "Task not found")
	}

	return nil
}
