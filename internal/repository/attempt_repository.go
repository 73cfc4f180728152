package repository

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.AssessmentAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.AssessmentAttempt, error) {
	var a model.AssessmentAttempt
	err := r.DB.Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindLatest 返回用户在某评估上最近的一次作答（按开始时间倒序）
func (r *AttemptRepository) FindLatest(userID, assessmentID uint) (*model.AssessmentAttempt, error) {
	var a model.AssessmentAttempt
	err := r.DB.Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Order("started_at desc").First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) FindInProgress(userID, assessmentID uint) (*model.AssessmentAttempt, error) {
	var a model.AssessmentAttempt
	err := r.DB.Where("user_id = ? AND assessment_id = ? AND status = ?",
		userID, assessmentID, model.AttemptInProgress).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) Update(attempt *model.AssessmentAttempt) error {
	return r.DB.Save(attempt).Error
}

// CompleteWithAnswers 在单个事务内落库判分结果：覆盖全部答题记录并更新答卷状态。
// 状态翻转带 in_progress 条件，主动提交与超时巡检并发交卷时只有一方能写入，
// 输掉的一方收到 ErrAttemptAlreadySubmitted。
func (r *AttemptRepository) CompleteWithAnswers(attempt *model.AssessmentAttempt, answers []model.AttemptAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.AssessmentAttempt{}).
			Where("id = ? AND status = ?", attempt.ID, model.AttemptInProgress).
			Update("status", model.AttemptCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrAttemptAlreadySubmitted
		}

		if err := tx.Where("attempt_id = ?", attempt.ID).Delete(&model.AttemptAnswer{}).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].AttemptID = attempt.ID
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		return tx.Save(attempt).Error
	})
}

// SaveGrading 人工给分落库：答卷已完成，在单个事务内覆盖答题得分并更新总分
func (r *AttemptRepository) SaveGrading(attempt *model.AssessmentAttempt, answers []model.AttemptAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			if err := tx.Save(&answers[i]).Error; err != nil {
				return err
			}
		}
		return tx.Save(attempt).Error
	})
}

// UpsertAnswer 写入或覆盖单题作答（write-behind 队列的落库端）
func (r *AttemptRepository) UpsertAnswer(attemptID string, questionID uint, answer string) error {
	var existing model.AttemptAnswer
	err := r.DB.Where("attempt_id = ? AND question_id = ?", attemptID, questionID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(&model.AttemptAnswer{
			AttemptID:  attemptID,
			QuestionID: questionID,
			Answer:     answer,
		}).Error
	}
	if err != nil {
		return err
	}
	existing.Answer = answer
	return r.DB.Save(&existing).Error
}

func (r *AttemptRepository) ListAnswers(attemptID string) ([]model.AttemptAnswer, error) {
	var answers []model.AttemptAnswer
	err := r.DB.Where("attempt_id = ?", attemptID).Find(&answers).Error
	return answers, err
}

// ListExpiredInProgress 找出限时已耗尽但仍处于 in_progress 的答卷
func (r *AttemptRepository) ListExpiredInProgress(now time.Time) ([]model.AssessmentAttempt, error) {
	var attempts []model.AssessmentAttempt
	err := r.DB.
		Joins("JOIN assessments ON assessments.id = assessment_attempts.assessment_id").
		Where("assessment_attempts.status = ?", model.AttemptInProgress).
		Where("assessments.time_limit > 0").
		Where("assessment_attempts.started_at < ?", now.Add(-time.Minute)). // 粗筛，精确判断在服务层
		Find(&attempts).Error
	return attempts, err
}

// ListPendingGrading 待人工批改的答卷（含主观题或项目提交）
func (r *AttemptRepository) ListPendingGrading(assessmentID uint, page, limit int) ([]model.AssessmentAttempt, int64, error) {
	var attempts []model.AssessmentAttempt
	var total int64

	query := r.DB.Model(&model.AssessmentAttempt{}).
		Where("status = ? AND needs_grading = ?", model.AttemptCompleted, true)
	if assessmentID > 0 {
		query = query.Where("assessment_id = ?", assessmentID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("User").Order("submitted_at asc").Offset(offset).Limit(limit).Find(&attempts).Error
	return attempts, total, err
}

func (r *AttemptRepository) ListByUser(userID uint, page, limit int) ([]model.AssessmentAttempt, int64, error) {
	var attempts []model.AssessmentAttempt
	var total int64

	query := r.DB.Model(&model.AssessmentAttempt{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("started_at desc").Offset(offset).Limit(limit).Find(&attempts).Error
	return attempts, total, err
}
