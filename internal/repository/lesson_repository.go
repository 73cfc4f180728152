package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Resources").First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) ListByModule(moduleID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("module_id = ?", moduleID).Order("`order` asc").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) CountByModule(moduleID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("module_id = ?", moduleID).Count(&count).Error
	return count, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// Delete 级联删除课时及其资源、评估，并在同一事务内重排剩余兄弟的序号
func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lesson model.Lesson
		if err := tx.First(&lesson, id).Error; err != nil {
			return err
		}
		if err := deleteLessonTree(tx, id); err != nil {
			return err
		}
		return renumberLessons(tx, lesson.ModuleID)
	})
}

func renumberLessons(tx *gorm.DB, moduleID uint) error {
	var siblings []model.Lesson
	if err := tx.Where("module_id = ?", moduleID).Order("`order` asc").Find(&siblings).Error; err != nil {
		return err
	}
	for i, sib := range siblings {
		if sib.Order != i+1 {
			if err := tx.Model(&model.Lesson{}).Where("id = ?", sib.ID).Update("order", i+1).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *LessonRepository) UpdateOrder(id uint, order int) error {
	return r.DB.Model(&model.Lesson{}).Where("id = ?", id).Update("order", order).Error
}

func (r *LessonRepository) CreateResource(res *model.LessonResource) error {
	return r.DB.Create(res).Error
}

func (r *LessonRepository) DeleteResource(id uint) error {
	return r.DB.Delete(&model.LessonResource{}, id).Error
}

func (r *LessonRepository) ReplaceResources(lessonID uint, resources []model.LessonResource) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lessonID).Delete(&model.LessonResource{}).Error; err != nil {
			return err
		}
		for i := range resources {
			resources[i].LessonID = lessonID
			if err := tx.Create(&resources[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
