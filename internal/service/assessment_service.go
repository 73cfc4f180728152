package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssessmentService 维护评估与题目。选项收缩时级联清理正确答案，
// 题型变更不清空已有答案。
type AssessmentService struct {
	AssessmentRepo *repository.AssessmentRepository
	CourseService  *CourseService
}

func NewAssessmentService(assessmentRepo *repository.AssessmentRepository, courseService *CourseService) *AssessmentService {
	return &AssessmentService{AssessmentRepo: assessmentRepo, CourseService: courseService}
}

type CreateAssessmentReq struct {
	Title        string               `json:"title" binding:"required"`
	Description  string               `json:"description"`
	Type         model.AssessmentType `json:"type"`
	PassingScore *int                 `json:"passingScore"`
	TimeLimit    *int                 `json:"timeLimit"`
	FileRequired bool                 `json:"fileRequired"`
	PublishAt    *time.Time           `json:"publishAt"`
}

type UpdateAssessmentReq struct {
	Title        *string               `json:"title"`
	Description  *string               `json:"description"`
	Type         *model.AssessmentType `json:"type"`
	PassingScore *int                  `json:"passingScore"`
	TimeLimit    *int                  `json:"timeLimit"`
	FileRequired *bool                 `json:"fileRequired"`
	IsPublished  *bool                 `json:"isPublished"`
	PublishAt    *time.Time            `json:"publishAt"`
}

type CreateQuestionReq struct {
	QuestionType  model.QuestionType `json:"questionType" binding:"required"`
	Content       string             `json:"content" binding:"required"`
	Options       []string           `json:"options"`
	CorrectAnswer string             `json:"correctAnswer"`
	Points        *int               `json:"points"`
	Explanation   string             `json:"explanation"`
}

type UpdateQuestionReq struct {
	QuestionType  *model.QuestionType `json:"questionType"`
	Content       *string             `json:"content"`
	Options       []string            `json:"options"`
	CorrectAnswer *string             `json:"correctAnswer"`
	Points        *int                `json:"points"`
	Explanation   *string             `json:"explanation"`
}

func (s *AssessmentService) CreateAssessment(lessonID uint, actorID uint, isAdmin bool, req *CreateAssessmentReq) (*model.Assessment, error) {
	if _, err := s.CourseService.ownedLesson(lessonID, actorID, isAdmin); err != nil {
		return nil, err
	}

	count, err := s.AssessmentRepo.CountByLesson(lessonID)
	if err != nil {
		return nil, err
	}

	a := &model.Assessment{
		LessonID:     lessonID,
		Title:        req.Title,
		Description:  req.Description,
		Type:         model.AssessmentQuiz,
		PassingScore: 70,
		FileRequired: req.FileRequired,
		PublishAt:    req.PublishAt,
		Order:        int(count) + 1,
	}
	if req.Type != "" {
		a.Type = req.Type
	}
	if req.PassingScore != nil {
		a.PassingScore = *req.PassingScore
	}
	if req.TimeLimit != nil {
		a.TimeLimit = *req.TimeLimit
	}

	if err := s.AssessmentRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) GetAssessment(id uint) (*model.Assessment, error) {
	a, err := s.AssessmentRepo.FindByIDWithQuestions(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	return a, err
}

func (s *AssessmentService) ListByLesson(lessonID uint) ([]model.Assessment, error) {
	return s.AssessmentRepo.ListByLesson(lessonID)
}

func (s *AssessmentService) UpdateAssessment(id uint, actorID uint, isAdmin bool, req *UpdateAssessmentReq) (*model.Assessment, error) {
	a, err := s.ownedAssessment(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Type != nil {
		a.Type = *req.Type
	}
	if req.PassingScore != nil {
		a.PassingScore = *req.PassingScore
	}
	if req.TimeLimit != nil {
		a.TimeLimit = *req.TimeLimit
	}
	if req.FileRequired != nil {
		a.FileRequired = *req.FileRequired
	}
	if req.IsPublished != nil {
		a.IsPublished = *req.IsPublished
	}
	if req.PublishAt != nil {
		a.PublishAt = req.PublishAt
	}

	if err := s.AssessmentRepo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAssessment 删除评估，剩余兄弟在删除事务内重新编号
func (s *AssessmentService) DeleteAssessment(id uint, actorID uint, isAdmin bool) error {
	if _, err := s.ownedAssessment(id, actorID, isAdmin); err != nil {
		return err
	}
	return s.AssessmentRepo.Delete(id)
}

func (s *AssessmentService) AddQuestion(assessmentID uint, actorID uint, isAdmin bool, req *CreateQuestionReq) (*model.AssessmentQuestion, error) {
	if _, err := s.ownedAssessment(assessmentID, actorID, isAdmin); err != nil {
		return nil, err
	}

	count, err := s.AssessmentRepo.CountQuestions(assessmentID)
	if err != nil {
		return nil, err
	}

	options, err := json.Marshal(req.Options)
	if err != nil {
		return nil, err
	}

	q := &model.AssessmentQuestion{
		AssessmentID:  assessmentID,
		QuestionType:  req.QuestionType,
		Content:       req.Content,
		Options:       options,
		CorrectAnswer: req.CorrectAnswer,
		Points:        1,
		Order:         int(count) + 1,
		Explanation:   req.Explanation,
	}
	if req.Points != nil {
		q.Points = *req.Points
	}

	if err := s.AssessmentRepo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

// UpdateQuestion 部分更新题目。传入新选项列表时，已从列表中移除的
// 正确答案会被同步剔除；题型变更本身不影响既有答案。
func (s *AssessmentService) UpdateQuestion(questionID uint, actorID uint, isAdmin bool, req *UpdateQuestionReq) (*model.AssessmentQuestion, error) {
	q, err := s.AssessmentRepo.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedAssessment(q.AssessmentID, actorID, isAdmin); err != nil {
		return nil, err
	}

	if req.QuestionType != nil {
		q.QuestionType = *req.QuestionType
	}
	if req.Content != nil {
		q.Content = *req.Content
	}
	if req.CorrectAnswer != nil {
		q.CorrectAnswer = *req.CorrectAnswer
	}
	if req.Options != nil {
		options, err := json.Marshal(req.Options)
		if err != nil {
			return nil, err
		}
		q.Options = options
		q.CorrectAnswer = model.PruneCorrectAnswer(q.CorrectAnswer, req.Options)
	}
	if req.Points != nil {
		q.Points = *req.Points
	}
	if req.Explanation != nil {
		q.Explanation = *req.Explanation
	}

	if err := s.AssessmentRepo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

// DeleteQuestion 删除题目，剩余兄弟在删除事务内重新编号
func (s *AssessmentService) DeleteQuestion(questionID uint, actorID uint, isAdmin bool) error {
	q, err := s.AssessmentRepo.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrQuestionNotFound
	}
	if err != nil {
		return err
	}
	if _, err := s.ownedAssessment(q.AssessmentID, actorID, isAdmin); err != nil {
		return err
	}
	return s.AssessmentRepo.DeleteQuestion(questionID)
}

func (s *AssessmentService) ReorderQuestions(assessmentID uint, actorID uint, isAdmin bool, requested []uint) error {
	if _, err := s.ownedAssessment(assessmentID, actorID, isAdmin); err != nil {
		return err
	}

	questions, err := s.AssessmentRepo.ListQuestions(assessmentID)
	if err != nil {
		return err
	}
	current := make([]uint, len(questions))
	for i, q := range questions {
		current[i] = q.ID
	}

	orders, err := PermutationOrders(current, requested)
	if err != nil {
		return err
	}
	for id, order := range orders {
		if err := s.AssessmentRepo.UpdateQuestionOrder(id, order); err != nil {
			return err
		}
	}
	return nil
}

// ProcessScheduledPublishes 将已到排期时间的评估置为已发布，由后台定时任务驱动
func (s *AssessmentService) ProcessScheduledPublishes(now time.Time) {
	due, err := s.AssessmentRepo.FindDueScheduled(now)
	if err != nil {
		logger.Log.Error("scan scheduled assessments failed", zap.Error(err))
		return
	}
	for i := range due {
		due[i].IsPublished = true
		if err := s.AssessmentRepo.Update(&due[i]); err != nil {
			logger.Log.Error("publish scheduled assessment failed",
				zap.Uint("assessmentId", due[i].ID), zap.Error(err))
			continue
		}
		logger.Log.Info("assessment published on schedule", zap.Uint("assessmentId", due[i].ID))
	}
}

func (s *AssessmentService) ownedAssessment(id uint, actorID uint, isAdmin bool) (*model.Assessment, error) {
	a, err := s.AssessmentRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.CourseService.ownedLesson(a.LessonID, actorID, isAdmin); err != nil {
		return nil, err
	}
	return a, nil
}
