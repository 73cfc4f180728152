package repository

import (
	"errors"
	"testing"
	"time"

	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
)

func seedAttempt(t *testing.T, repo *AttemptRepository) *model.AssessmentAttempt {
	t.Helper()
	attempt := &model.AssessmentAttempt{
		AssessmentID: 1,
		UserID:       1,
		Status:       model.AttemptInProgress,
		StartedAt:    time.Now(),
	}
	if err := repo.Create(attempt); err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	return attempt
}

// 主动提交与超时巡检同时读到 in_progress 时，只有先落库的一方生效
func TestCompleteWithAnswersFlipsStatusOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	attempt := seedAttempt(t, repo)

	manual := *attempt
	manual.Status = model.AttemptCompleted
	manual.Score = 80
	sweeper := *attempt
	sweeper.Status = model.AttemptCompleted
	sweeper.AutoSubmitted = true

	rows := []model.AttemptAnswer{{QuestionID: 1, Answer: "true", IsCorrect: true, PointsAwarded: 1}}
	if err := repo.CompleteWithAnswers(&manual, rows); err != nil {
		t.Fatalf("first completion: %v", err)
	}

	err := repo.CompleteWithAnswers(&sweeper, nil)
	if !errors.Is(err, util.ErrAttemptAlreadySubmitted) {
		t.Fatalf("second completion error = %v, want ErrAttemptAlreadySubmitted", err)
	}

	stored, err := repo.FindByID(attempt.ID)
	if err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if stored.AutoSubmitted {
		t.Error("losing auto-submit overwrote the manual submission")
	}
	if stored.Score != 80 {
		t.Errorf("score = %d, want 80", stored.Score)
	}

	answers, err := repo.ListAnswers(attempt.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 1 {
		t.Errorf("got %d answer rows, want 1", len(answers))
	}
}

func TestSaveGradingUpdatesCompletedAttempt(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	attempt := seedAttempt(t, repo)

	attempt.Status = model.AttemptCompleted
	attempt.NeedsGrading = true
	rows := []model.AttemptAnswer{{QuestionID: 1, Answer: "我的论述"}}
	if err := repo.CompleteWithAnswers(attempt, rows); err != nil {
		t.Fatalf("complete: %v", err)
	}

	answers, err := repo.ListAnswers(attempt.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	answers[0].PointsAwarded = 5
	answers[0].IsCorrect = true
	attempt.Score = 100
	attempt.NeedsGrading = false

	if err := repo.SaveGrading(attempt, answers); err != nil {
		t.Fatalf("save grading: %v", err)
	}

	stored, err := repo.FindByID(attempt.ID)
	if err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if stored.Status != model.AttemptCompleted {
		t.Errorf("status = %s, want completed", stored.Status)
	}
	if stored.Score != 100 || stored.NeedsGrading {
		t.Errorf("score = %d needsGrading = %v, want 100/false", stored.Score, stored.NeedsGrading)
	}

	graded, _ := repo.ListAnswers(attempt.ID)
	if len(graded) != 1 || graded[0].PointsAwarded != 5 || !graded[0].IsCorrect {
		t.Errorf("graded answer not persisted: %+v", graded)
	}
}

func TestUpsertAnswerOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	attempt := seedAttempt(t, repo)

	if err := repo.UpsertAnswer(attempt.ID, 1, "first"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertAnswer(attempt.ID, 1, "second"); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	answers, err := repo.ListAnswers(attempt.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("got %d rows, want 1", len(answers))
	}
	if answers[0].Answer != "second" {
		t.Errorf("answer = %q, want %q", answers[0].Answer, "second")
	}
}
