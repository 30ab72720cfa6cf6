package repo

import (
	"context"

	"taskmanager/backend/app/models"

	"gorm.io/gorm"
)

type TaskRepository struct{ db *gorm.DB }

func NewTaskRepository(db *gorm.DB) *TaskRepository { return &TaskRepository{db: db} }

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TaskRepository) List(ctx context.Context, assignedTo string, limit int) ([]models.Task, error) {
	q := r.db.WithContext(ctx)
	if assignedTo != "" {
		q = q.Where("assigned_to = ?", assignedTo)
	}
	var tasks []models.Task
	if err := q.Limit(limit).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, fields Fields) error {
	res := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(map[string]any(fields))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) CountByStatus(ctx context.Context, assignedTo string) (models.StatusCounts, error) {
	type row struct {
		Status string
		N      int64
	}
	q := r.db.WithContext(ctx).Model(&models.Task{}).Select("status, COUNT(*) AS n").Group("status")
	if assignedTo != "" {
		q = q.Where("assigned_to = ?", assignedTo)
	}
	var rows []row
	var counts models.StatusCounts
	if err := q.Scan(&rows).Error; err != nil {
		return counts, err
	}
	for _, r := range rows {
		tally(&counts, r.Status, r.N)
	}
	return counts, nil
}
