package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

// FindByIDWithTree 预加载完整课程树，各层按 order 排序
func (r *CourseRepository) FindByIDWithTree(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.order asc")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.order asc")
		}).
		Preload("Modules.Lessons.Resources").
		Preload("Modules.Lessons.Assessments", func(db *gorm.DB) *gorm.DB {
			return db.Order("assessments.order asc")
		}).
		Preload("Modules.Lessons.Assessments.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("assessment_questions.order asc")
		}).
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List(page, limit int, instructorID uint) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{})
	if instructorID > 0 {
		query = query.Where("instructor_id = ?", instructorID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// Delete 级联删除整棵课程树
func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&model.Module{}).Where("course_id = ?", id).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		for _, mid := range moduleIDs {
			if err := deleteModuleTree(tx, mid); err != nil {
				return err
			}
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

// Module related methods

func (r *CourseRepository) CreateModule(m *model.Module) error {
	return r.DB.Create(m).Error
}

func (r *CourseRepository) FindModuleByID(id uint) (*model.Module, error) {
	var m model.Module
	err := r.DB.First(&m, id).Error
	return &m, err
}

func (r *CourseRepository) ListModules(courseID uint) ([]model.Module, error) {
	var ms []model.Module
	err := r.DB.Where("course_id = ?", courseID).Order("`order` asc").Find(&ms).Error
	return ms, err
}

func (r *CourseRepository) CountModules(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Module{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *CourseRepository) UpdateModule(m *model.Module) error {
	return r.DB.Save(m).Error
}

// UpdateModuleOrder 只更新 order 字段，用于章节重排
func (r *CourseRepository) UpdateModuleOrder(id uint, order int) error {
	return r.DB.Model(&model.Module{}).Where("id = ?", id).Update("order", order).Error
}

// DeleteModule 级联删除章节及其下所有课时、资源、评估，
// 并在同一事务内把剩余兄弟重排为连续的 1 起序号
func (r *CourseRepository) DeleteModule(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var m model.Module
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		if err := deleteModuleTree(tx, id); err != nil {
			return err
		}
		return renumberModules(tx, m.CourseID)
	})
}

func renumberModules(tx *gorm.DB, courseID uint) error {
	var siblings []model.Module
	if err := tx.Where("course_id = ?", courseID).Order("`order` asc").Find(&siblings).Error; err != nil {
		return err
	}
	for i, sib := range siblings {
		if sib.Order != i+1 {
			if err := tx.Model(&model.Module{}).Where("id = ?", sib.ID).Update("order", i+1).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func deleteModuleTree(tx *gorm.DB, moduleID uint) error {
	var lessonIDs []uint
	if err := tx.Model(&model.Lesson{}).Where("module_id = ?", moduleID).Pluck("id", &lessonIDs).Error; err != nil {
		return err
	}
	for _, lid := range lessonIDs {
		if err := deleteLessonTree(tx, lid); err != nil {
			return err
		}
	}
	return tx.Delete(&model.Module{}, moduleID).Error
}

func deleteLessonTree(tx *gorm.DB, lessonID uint) error {
	var assessmentIDs []uint
	if err := tx.Model(&model.Assessment{}).Where("lesson_id = ?", lessonID).Pluck("id", &assessmentIDs).Error; err != nil {
		return err
	}
	for _, aid := range assessmentIDs {
		if err := deleteAssessmentTree(tx, aid); err != nil {
			return err
		}
	}
	if err := tx.Where("lesson_id = ?", lessonID).Delete(&model.LessonResource{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Lesson{}, lessonID).Error
}

func deleteAssessmentTree(tx *gorm.DB, assessmentID uint) error {
	var attemptIDs []string
	if err := tx.Model(&model.AssessmentAttempt{}).Where("assessment_id = ?", assessmentID).Pluck("id", &attemptIDs).Error; err != nil {
		return err
	}
	if len(attemptIDs) > 0 {
		if err := tx.Where("attempt_id IN ?", attemptIDs).Delete(&model.AttemptAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", attemptIDs).Delete(&model.AssessmentAttempt{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("assessment_id = ?", assessmentID).Delete(&model.AssessmentQuestion{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Assessment{}, assessmentID).Error
}
