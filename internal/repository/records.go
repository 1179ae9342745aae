package repository

import (
	"fmt"
	"time"

	"task-manager/internal/model"
)

// taskRecord is the SQL row shape of model.Task. Enums are stored by name.
// Timestamps are owned by the domain, so gorm's automatic tracking is off.
type taskRecord struct {
	ID          string     `gorm:"primaryKey;size:36"`
	Title       string     `gorm:"not null"`
	Description string     `gorm:"not null"`
	Priority    string     `gorm:"size:16;not null"`
	Status      string     `gorm:"size:16;not null;index"`
	CategoryID  *string    `gorm:"size:36;index"`
	DueDate     *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime:false"`
}

func (taskRecord) TableName() string {
	return "tasks"
}

// categoryRecord is the SQL row shape of model.Category.
type categoryRecord struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:100;not null;index"`
	Description string `gorm:"not null"`
	Color       string `gorm:"size:16;not null"`
}

func (categoryRecord) TableName() string {
	return "categories"
}

func newTaskRecord(t model.Task) taskRecord {
	return taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority.String(),
		Status:      t.Status.String(),
		CategoryID:  t.CategoryID,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r taskRecord) toModel() (model.Task, error) {
	priority, err := model.ParsePriority(r.Priority)
	if err != nil {
		return model.Task{}, fmt.Errorf("%w: task %q: %w", model.ErrPersistence, r.ID, err)
	}
	status, err := model.ParseStatus(r.Status)
	if err != nil {
		return model.Task{}, fmt.Errorf("%w: task %q: %w", model.ErrPersistence, r.ID, err)
	}
	return model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    priority,
		Status:      status,
		CategoryID:  r.CategoryID,
		DueDate:     r.DueDate,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func newCategoryRecord(c model.Category) categoryRecord {
	return categoryRecord{ID: c.ID, Name: c.Name, Description: c.Description, Color: c.Color}
}

func (r categoryRecord) toModel() model.Category {
	return model.Category{ID: r.ID, Name: r.Name, Description: r.Description, Color: r.Color}
}
