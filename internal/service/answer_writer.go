package service

import (
	"elearn_backend/internal/repository"
	"elearn_backend/pkg/logger"
	"sync"

	"go.uber.org/zap"
)

type answerWrite struct {
	AttemptID  string
	QuestionID uint
	Answer     string
}

// AnswerWriter 答案落库队列。保存答案的请求路径只写 Redis 和本队列，
// 数据库写入由后台 worker 异步消化，落库失败不影响作答（提交时会整卷覆盖）。
type AnswerWriter struct {
	AttemptRepo *repository.AttemptRepository
	queue       chan answerWrite
	wg          sync.WaitGroup
}

func NewAnswerWriter(attemptRepo *repository.AttemptRepository, queueSize int) *AnswerWriter {
	return &AnswerWriter{
		AttemptRepo: attemptRepo,
		queue:       make(chan answerWrite, queueSize),
	}
}

func (w *AnswerWriter) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for write := range w.queue {
			if err := w.AttemptRepo.UpsertAnswer(write.AttemptID, write.QuestionID, write.Answer); err != nil {
				logger.Log.Warn("persist answer failed",
					zap.String("attemptId", write.AttemptID),
					zap.Uint("questionId", write.QuestionID),
					zap.Error(err))
			}
		}
	}()
}

// Enqueue 非阻塞入队，队列满时丢弃并记录（Redis 缓存仍持有最新值）
func (w *AnswerWriter) Enqueue(attemptID string, questionID uint, answer string) {
	select {
	case w.queue <- answerWrite{AttemptID: attemptID, QuestionID: questionID, Answer: answer}:
	default:
		logger.Log.Warn("answer queue full, write dropped",
			zap.String("attemptId", attemptID),
			zap.Uint("questionId", questionID))
	}
}

// Stop 关闭队列并等待 worker 排空存量写入
func (w *AnswerWriter) Stop() {
	close(w.queue)
	w.wg.Wait()
}
