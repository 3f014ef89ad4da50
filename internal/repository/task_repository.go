package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-management/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit("Persona").Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", translate(err))
	}
	return nil
}

// Update writes the mutable columns of a task. creation_date is never touched.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	res := r.db.WithContext(ctx).Model(&model.Task{ID: task.ID}).Updates(map[string]interface{}{
		"description": task.Description,
		"due_date":    task.DueDate,
		"done":        task.Done,
		"persona_id":  task.PersonaID,
	})
	if res.Error != nil {
		return fmt.Errorf("update task: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update task %d: %w", task.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Persona").First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListPage returns one page ordered by creation date, newest first when
// descending is set. Task id breaks ties so equal timestamps page stably.
func (r *TaskRepository) ListPage(ctx context.Context, page model.PageRequest, descending bool) ([]model.Task, error) {
	order := "creation_date ASC, task_id ASC"
	if descending {
		order = "creation_date DESC, task_id DESC"
	}

	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Persona").Order(order).
		Offset(page.Offset()).Limit(page.Size).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListPending returns every task not yet done, earliest due date first.
func (r *TaskRepository) ListPending(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Persona").Where("done = ?", false).
		Order("due_date NULLS LAST, creation_date DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) CountByPersona(ctx context.Context, personaID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("persona_id = ?", personaID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a task by id. A missing id yields gorm.ErrRecordNotFound.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete task %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
