package service

import (
	"context"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"elearn_backend/pkg/monitoring"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptService 评估引擎：答卷从开始到提交的完整生命周期。
// 计时一律以服务端 StartedAt 换算，客户端时钟不可信。
// 作答走 Redis 缓存 + 异步落库，提交/超时自动交卷时整卷判分。
type AttemptService struct {
	AttemptRepo    *repository.AttemptRepository
	AssessmentRepo *repository.AssessmentRepository
	Writer         *AnswerWriter
	Redis          *redis.Client
}

func NewAttemptService(attemptRepo *repository.AttemptRepository, assessmentRepo *repository.AssessmentRepository, writer *AnswerWriter, rdb *redis.Client) *AttemptService {
	return &AttemptService{
		AttemptRepo:    attemptRepo,
		AssessmentRepo: assessmentRepo,
		Writer:         writer,
		Redis:          rdb,
	}
}

const answerCacheKeyPrefix = "attempt:answers:"

// QuestionView 作答期间下发的题目视图，不含正确答案与解析
type QuestionView struct {
	ID           uint               `json:"id"`
	QuestionType model.QuestionType `json:"questionType"`
	Content      string             `json:"content"`
	Options      []string           `json:"options,omitempty"`
	Points       int                `json:"points"`
	Order        int                `json:"order"`
}

type AttemptView struct {
	Attempt          *model.AssessmentAttempt `json:"attempt"`
	Questions        []QuestionView           `json:"questions,omitempty"`
	Answers          map[uint]string          `json:"answers,omitempty"`          // 已保存的作答，恢复答卷用
	RemainingSeconds *int                     `json:"remainingSeconds,omitempty"` // nil 表示不限时
	Review           *ReviewView              `json:"review,omitempty"`           // 最近一次答卷已完成时返回回顾
}

type ReviewAnswer struct {
	QuestionID    uint               `json:"questionId"`
	QuestionType  model.QuestionType `json:"questionType"`
	Content       string             `json:"content"`
	Options       []string           `json:"options,omitempty"`
	Answer        string             `json:"answer"`
	CorrectAnswer string             `json:"correctAnswer"`
	IsCorrect     bool               `json:"isCorrect"`
	Points        int                `json:"points"`
	PointsAwarded int                `json:"pointsAwarded"`
	Explanation   string             `json:"explanation,omitempty"`
}

type ReviewView struct {
	Attempt *model.AssessmentAttempt `json:"attempt"`
	Answers []ReviewAnswer           `json:"answers"`
}

type SubmitReq struct {
	Answers map[uint]string `json:"answers"` // questionId -> answer，与已缓存作答合并
	FileURL string          `json:"fileUrl"` // project 类评估的提交文件
}

type GradeReq struct {
	Awards map[uint]int `json:"awards" binding:"required"` // questionId -> 给分
}

// Start 开始作答。进行中的答卷直接恢复（超时则先自动交卷）；
// 最近一次已完成则返回其回顾，重新作答走 Retake。
func (s *AttemptService) Start(ctx context.Context, userID, assessmentID uint) (*AttemptView, error) {
	assessment, err := s.publishedAssessment(assessmentID)
	if err != nil {
		return nil, err
	}

	inProgress, err := s.AttemptRepo.FindInProgress(userID, assessmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if inProgress != nil {
		if expired, _ := attemptExpired(assessment, inProgress, time.Now()); expired {
			if err := s.autoSubmit(ctx, assessment, inProgress); err != nil {
				return nil, err
			}
		} else {
			return s.buildAttemptView(ctx, assessment, inProgress)
		}
	}

	latest, err := s.AttemptRepo.FindLatest(userID, assessmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if latest != nil && latest.Status == model.AttemptCompleted {
		review, err := s.Review(ctx, userID, latest.ID)
		if err != nil {
			return nil, err
		}
		return &AttemptView{Attempt: latest, Review: review}, nil
	}

	return s.newAttempt(ctx, assessment, userID)
}

// Retake 重新作答。仅在最近一次答卷未通过时放行，历史答卷保留。
func (s *AttemptService) Retake(ctx context.Context, userID, assessmentID uint) (*AttemptView, error) {
	assessment, err := s.publishedAssessment(assessmentID)
	if err != nil {
		return nil, err
	}

	inProgress, err := s.AttemptRepo.FindInProgress(userID, assessmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if inProgress != nil {
		if expired, _ := attemptExpired(assessment, inProgress, time.Now()); !expired {
			return s.buildAttemptView(ctx, assessment, inProgress)
		}
		if err := s.autoSubmit(ctx, assessment, inProgress); err != nil {
			return nil, err
		}
	}

	latest, err := s.AttemptRepo.FindLatest(userID, assessmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if latest != nil && latest.Status == model.AttemptCompleted && latest.Passed {
		return nil, util.ErrRetakeNotAllowed
	}

	return s.newAttempt(ctx, assessment, userID)
}

func (s *AttemptService) newAttempt(ctx context.Context, assessment *model.Assessment, userID uint) (*AttemptView, error) {
	attempt := &model.AssessmentAttempt{
		AssessmentID: assessment.ID,
		UserID:       userID,
		Status:       model.AttemptInProgress,
		StartedAt:    time.Now(),
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	monitoring.AttemptsStarted.Inc()
	logger.Log.Info("attempt started",
		zap.String("attemptId", attempt.ID),
		zap.Uint("userId", userID),
		zap.Uint("assessmentId", assessment.ID))

	return s.buildAttemptView(ctx, assessment, attempt)
}

func (s *AttemptService) publishedAssessment(assessmentID uint) (*model.Assessment, error) {
	assessment, err := s.AssessmentRepo.FindByIDWithQuestions(assessmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if !assessment.IsPublished {
		return nil, util.ErrAssessmentNotPublished
	}
	return assessment, nil
}

// SaveAnswer 保存单题作答。写 Redis 哈希并异步落库，两路都失败也不阻塞作答。
func (s *AttemptService) SaveAnswer(ctx context.Context, userID uint, attemptID string, questionID uint, answer string) error {
	attempt, assessment, err := s.ownedInProgress(ctx, userID, attemptID)
	if err != nil {
		return err
	}

	found := false
	for _, q := range assessment.Questions {
		if q.ID == questionID {
			found = true
			break
		}
	}
	if !found {
		return util.ErrQuestionNotFound
	}

	key := answerCacheKeyPrefix + attempt.ID
	if err := s.Redis.HSet(ctx, key, strconv.FormatUint(uint64(questionID), 10), answer).Err(); err != nil {
		logger.Log.Warn("cache answer failed", zap.String("attemptId", attempt.ID), zap.Error(err))
	}
	s.Redis.Expire(ctx, key, answerCacheTTL(assessment))

	s.Writer.Enqueue(attempt.ID, questionID, answer)
	return nil
}

// Submit 交卷判分。请求中携带的答案覆盖已缓存作答后整卷判分，重复提交直接拒绝。
func (s *AttemptService) Submit(ctx context.Context, userID uint, attemptID string, req *SubmitReq) (*ReviewView, error) {
	attempt, assessment, err := s.ownedInProgress(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	if expired, _ := attemptExpired(assessment, attempt, time.Now()); expired {
		if err := s.autoSubmit(ctx, assessment, attempt); err != nil {
			return nil, err
		}
		return s.Review(ctx, userID, attemptID)
	}

	if assessment.Type == model.AssessmentProject && assessment.FileRequired && req.FileURL == "" {
		return nil, util.ErrSubmissionFileRequired
	}

	given, err := s.collectAnswers(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}
	for qid, answer := range req.Answers {
		given[qid] = answer
	}

	if err := s.finalize(ctx, assessment, attempt, given, req.FileURL, false); err != nil {
		return nil, err
	}
	return s.Review(ctx, userID, attemptID)
}

// Review 查看已完成答卷：逐题作答、正确答案与解析
func (s *AttemptService) Review(ctx context.Context, userID uint, attemptID string) (*ReviewView, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.Status != model.AttemptCompleted {
		return nil, util.ErrAttemptNotCompleted
	}

	assessment, err := s.AssessmentRepo.FindByIDWithQuestions(attempt.AssessmentID)
	if err != nil {
		return nil, err
	}
	answers, err := s.AttemptRepo.ListAnswers(attemptID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[uint]model.AttemptAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	review := make([]ReviewAnswer, 0, len(assessment.Questions))
	for _, q := range assessment.Questions {
		a := byQuestion[q.ID]
		review = append(review, ReviewAnswer{
			QuestionID:    q.ID,
			QuestionType:  q.QuestionType,
			Content:       q.Content,
			Options:       q.OptionList(),
			Answer:        a.Answer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     a.IsCorrect,
			Points:        q.Points,
			PointsAwarded: a.PointsAwarded,
			Explanation:   q.Explanation,
		})
	}
	return &ReviewView{Attempt: attempt, Answers: review}, nil
}

// GradeAttempt 教师人工给分：覆盖指定题目的得分并重算总分
func (s *AttemptService) GradeAttempt(attemptID string, req *GradeReq) (*model.AssessmentAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptCompleted {
		return nil, util.ErrAttemptNotCompleted
	}

	assessment, err := s.AssessmentRepo.FindByIDWithQuestions(attempt.AssessmentID)
	if err != nil {
		return nil, err
	}
	answers, err := s.AttemptRepo.ListAnswers(attemptID)
	if err != nil {
		return nil, err
	}

	points := make(map[uint]int, len(assessment.Questions))
	for _, q := range assessment.Questions {
		points[q.ID] = q.Points
	}

	earned := 0
	for i := range answers {
		if award, ok := req.Awards[answers[i].QuestionID]; ok {
			max := points[answers[i].QuestionID]
			if award < 0 || award > max {
				return nil, fmt.Errorf("award %d out of range for question %d", award, answers[i].QuestionID)
			}
			answers[i].PointsAwarded = award
			answers[i].IsCorrect = award == max
		}
		earned += answers[i].PointsAwarded
	}

	attempt.Score = percentScore(earned, assessment.TotalPoints())
	attempt.Passed = attempt.Score >= assessment.PassingScore
	attempt.NeedsGrading = false

	if err := s.AttemptRepo.SaveGrading(attempt, answers); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) ListPendingGrading(assessmentID uint, page, limit int) ([]model.AssessmentAttempt, int64, error) {
	return s.AttemptRepo.ListPendingGrading(assessmentID, page, limit)
}

func (s *AttemptService) ListByUser(userID uint, page, limit int) ([]model.AssessmentAttempt, int64, error) {
	return s.AttemptRepo.ListByUser(userID, page, limit)
}

// ProcessExpiredAttempts 后台巡检：超时的进行中答卷按已缓存作答自动交卷
func (s *AttemptService) ProcessExpiredAttempts(ctx context.Context, now time.Time) {
	candidates, err := s.AttemptRepo.ListExpiredInProgress(now)
	if err != nil {
		logger.Log.Error("scan expired attempts failed", zap.Error(err))
		return
	}
	for i := range candidates {
		attempt := &candidates[i]
		assessment, err := s.AssessmentRepo.FindByIDWithQuestions(attempt.AssessmentID)
		if err != nil {
			logger.Log.Error("load assessment for expired attempt failed",
				zap.String("attemptId", attempt.ID), zap.Error(err))
			continue
		}
		if expired, _ := attemptExpired(assessment, attempt, now); !expired {
			continue
		}
		if err := s.autoSubmit(ctx, assessment, attempt); err != nil {
			logger.Log.Error("auto submit failed", zap.String("attemptId", attempt.ID), zap.Error(err))
		}
	}
}

// autoSubmit 超时自动交卷，判分口径与主动提交一致
func (s *AttemptService) autoSubmit(ctx context.Context, assessment *model.Assessment, attempt *model.AssessmentAttempt) error {
	// 快速路径：别处已交的卷不再判分。真正的唯一性由
	// CompleteWithAnswers 里带状态条件的翻转保证。
	fresh, err := s.AttemptRepo.FindByID(attempt.ID)
	if err != nil {
		return err
	}
	if fresh.Status != model.AttemptInProgress {
		*attempt = *fresh
		return nil
	}

	given, err := s.collectAnswers(ctx, attempt.ID)
	if err != nil {
		return err
	}
	if err := s.finalize(ctx, assessment, attempt, given, attempt.FileURL, true); err != nil {
		// 状态翻转竞争输给了并发的主动提交，以对方落库的结果为准
		if errors.Is(err, util.ErrAttemptAlreadySubmitted) {
			if fresh, ferr := s.AttemptRepo.FindByID(attempt.ID); ferr == nil {
				*attempt = *fresh
			}
			return nil
		}
		return err
	}
	logger.Log.Info("attempt auto-submitted on expiry", zap.String("attemptId", attempt.ID))
	return nil
}

// finalize 判分并在单个事务内落库，随后清理答案缓存
func (s *AttemptService) finalize(ctx context.Context, assessment *model.Assessment, attempt *model.AssessmentAttempt, given map[uint]string, fileURL string, auto bool) error {
	result := gradeAttempt(assessment, given)

	now := time.Now()
	attempt.Status = model.AttemptCompleted
	attempt.Score = result.Score
	attempt.Passed = result.Score >= assessment.PassingScore
	attempt.NeedsGrading = result.NeedsGrading
	if assessment.Type == model.AssessmentProject {
		// 项目提交始终需要人工评分
		attempt.NeedsGrading = true
	}
	attempt.AutoSubmitted = auto
	attempt.FileURL = fileURL
	attempt.SubmittedAt = &now

	if err := s.AttemptRepo.CompleteWithAnswers(attempt, result.Answers); err != nil {
		return err
	}

	if err := s.Redis.Del(ctx, answerCacheKeyPrefix+attempt.ID).Err(); err != nil {
		logger.Log.Warn("clear answer cache failed", zap.String("attemptId", attempt.ID), zap.Error(err))
	}

	monitoring.AttemptsSubmitted.WithLabelValues(strconv.FormatBool(auto)).Inc()
	return nil
}

// collectAnswers 汇总已保存作答：优先 Redis 缓存，缓存缺失回退数据库
func (s *AttemptService) collectAnswers(ctx context.Context, attemptID string) (map[uint]string, error) {
	given := make(map[uint]string)

	rows, err := s.AttemptRepo.ListAnswers(attemptID)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		given[row.QuestionID] = row.Answer
	}

	cached, err := s.Redis.HGetAll(ctx, answerCacheKeyPrefix+attemptID).Result()
	if err != nil {
		logger.Log.Warn("read answer cache failed", zap.String("attemptId", attemptID), zap.Error(err))
		return given, nil
	}
	for field, answer := range cached {
		qid, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		given[uint(qid)] = answer
	}
	return given, nil
}

func (s *AttemptService) buildAttemptView(ctx context.Context, assessment *model.Assessment, attempt *model.AssessmentAttempt) (*AttemptView, error) {
	answers, err := s.collectAnswers(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}

	questions := make([]QuestionView, 0, len(assessment.Questions))
	for _, q := range assessment.Questions {
		questions = append(questions, QuestionView{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			Content:      q.Content,
			Options:      q.OptionList(),
			Points:       q.Points,
			Order:        q.Order,
		})
	}

	view := &AttemptView{Attempt: attempt, Questions: questions, Answers: answers}
	if _, remaining := attemptExpired(assessment, attempt, time.Now()); remaining >= 0 {
		view.RemainingSeconds = &remaining
	}
	return view, nil
}

func (s *AttemptService) ownedInProgress(ctx context.Context, userID uint, attemptID string) (*model.AssessmentAttempt, *model.Assessment, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrAttemptNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if attempt.UserID != userID {
		return nil, nil, util.ErrPermissionDenied
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, nil, util.ErrAttemptAlreadySubmitted
	}

	assessment, err := s.AssessmentRepo.FindByIDWithQuestions(attempt.AssessmentID)
	if err != nil {
		return nil, nil, err
	}
	return attempt, assessment, nil
}

func answerCacheTTL(assessment *model.Assessment) time.Duration {
	if assessment.TimeLimit > 0 {
		// 限时之外再留巡检窗口
		return time.Duration(assessment.TimeLimit)*time.Minute + 10*time.Minute
	}
	return 24 * time.Hour
}

// attemptExpired 判定答卷是否超时并给出剩余秒数。
// 不限时评估永不超时，remaining 返回 -1。
func attemptExpired(assessment *model.Assessment, attempt *model.AssessmentAttempt, now time.Time) (bool, int) {
	if assessment.TimeLimit <= 0 {
		return false, -1
	}
	deadline := attempt.StartedAt.Add(time.Duration(assessment.TimeLimit) * time.Minute)
	remaining := int(deadline.Sub(now) / time.Second)
	if remaining <= 0 {
		return true, 0
	}
	return false, remaining
}

type gradeOutcome struct {
	Answers      []model.AttemptAnswer
	Score        int // 百分比 0-100
	NeedsGrading bool
}

// gradeAttempt 整卷判分。仅判断题与单选题按精确匹配自动判分；
// 简答、论述与多选计入总分母但不自动得分，留待人工给分。
func gradeAttempt(assessment *model.Assessment, given map[uint]string) gradeOutcome {
	outcome := gradeOutcome{Answers: make([]model.AttemptAnswer, 0, len(assessment.Questions))}

	earned := 0
	for _, q := range assessment.Questions {
		answer := given[q.ID]
		row := model.AttemptAnswer{QuestionID: q.ID, Answer: answer}

		switch q.QuestionType {
		case model.TrueFalse, model.MultipleChoice:
			if answer != "" && answer == q.CorrectAnswer {
				row.IsCorrect = true
				row.PointsAwarded = q.Points
				earned += q.Points
			}
		default:
			outcome.NeedsGrading = true
		}
		outcome.Answers = append(outcome.Answers, row)
	}

	outcome.Score = percentScore(earned, assessment.TotalPoints())
	return outcome
}

// percentScore 四舍五入到整数百分比，空卷得 0 分
func percentScore(earned, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(earned) * 100 / float64(total)))
}
