package repository

import (
	"elearn_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(a *model.Assessment) error {
	return r.DB.Create(a).Error
}

func (r *AssessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.First(&a, id).Error
	return &a, err
}

// FindByIDWithQuestions 加载评估及其按 order 排序的题目
func (r *AssessmentRepository) FindByIDWithQuestions(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("assessment_questions.order asc")
	}).First(&a, id).Error
	return &a, err
}

func (r *AssessmentRepository) ListByLesson(lessonID uint) ([]model.Assessment, error) {
	var as []model.Assessment
	err := r.DB.Where("lesson_id = ?", lessonID).Order("`order` asc").Find(&as).Error
	return as, err
}

func (r *AssessmentRepository) CountByLesson(lessonID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Assessment{}).Where("lesson_id = ?", lessonID).Count(&count).Error
	return count, err
}

func (r *AssessmentRepository) Update(a *model.Assessment) error {
	return r.DB.Save(a).Error
}

// Delete 级联删除评估及其题目、作答记录，并在同一事务内重排剩余兄弟的序号
func (r *AssessmentRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var a model.Assessment
		if err := tx.First(&a, id).Error; err != nil {
			return err
		}
		if err := deleteAssessmentTree(tx, id); err != nil {
			return err
		}
		return renumberAssessments(tx, a.LessonID)
	})
}

func renumberAssessments(tx *gorm.DB, lessonID uint) error {
	var siblings []model.Assessment
	if err := tx.Where("lesson_id = ?", lessonID).Order("`order` asc").Find(&siblings).Error; err != nil {
		return err
	}
	for i, sib := range siblings {
		if sib.Order != i+1 {
			if err := tx.Model(&model.Assessment{}).Where("id = ?", sib.ID).Update("order", i+1).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// FindDueScheduled 查找已到排期时间但尚未发布的评估
func (r *AssessmentRepository) FindDueScheduled(now time.Time) ([]model.Assessment, error) {
	var as []model.Assessment
	err := r.DB.Where("is_published = ? AND publish_at IS NOT NULL AND publish_at <= ?", false, now).Find(&as).Error
	return as, err
}

// Question related methods

func (r *AssessmentRepository) CreateQuestion(q *model.AssessmentQuestion) error {
	return r.DB.Create(q).Error
}

func (r *AssessmentRepository) FindQuestionByID(id uint) (*model.AssessmentQuestion, error) {
	var q model.AssessmentQuestion
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *AssessmentRepository) ListQuestions(assessmentID uint) ([]model.AssessmentQuestion, error) {
	var qs []model.AssessmentQuestion
	err := r.DB.Where("assessment_id = ?", assessmentID).Order("`order` asc, created_at desc").Find(&qs).Error
	return qs, err
}

func (r *AssessmentRepository) CountQuestions(assessmentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AssessmentQuestion{}).Where("assessment_id = ?", assessmentID).Count(&count).Error
	return count, err
}

func (r *AssessmentRepository) UpdateQuestion(q *model.AssessmentQuestion) error {
	return r.DB.Save(q).Error
}

func (r *AssessmentRepository) UpdateQuestionOrder(id uint, order int) error {
	return r.DB.Model(&model.AssessmentQuestion{}).Where("id = ?", id).Update("order", order).Error
}

// DeleteQuestion 删除题目及其作答记录，并在同一事务内重排剩余兄弟的序号
func (r *AssessmentRepository) DeleteQuestion(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var q model.AssessmentQuestion
		if err := tx.First(&q, id).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.AttemptAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.AssessmentQuestion{}, id).Error; err != nil {
			return err
		}
		return renumberQuestions(tx, q.AssessmentID)
	})
}

func renumberQuestions(tx *gorm.DB, assessmentID uint) error {
	var siblings []model.AssessmentQuestion
	if err := tx.Where("assessment_id = ?", assessmentID).Order("`order` asc").Find(&siblings).Error; err != nil {
		return err
	}
	for i, sib := range siblings {
		if sib.Order != i+1 {
			if err := tx.Model(&model.AssessmentQuestion{}).Where("id = ?", sib.ID).Update("order", i+1).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
