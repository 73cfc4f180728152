package service

import (
	"elearn_backend/internal/model"
	"testing"
	"time"
)

func quizWith(questions ...model.AssessmentQuestion) *model.Assessment {
	return &model.Assessment{
		Type:         model.AssessmentQuiz,
		PassingScore: 70,
		Questions:    questions,
	}
}

func TestGradeAttemptHalfCorrect(t *testing.T) {
	a := quizWith(
		model.AssessmentQuestion{BaseModel: model.BaseModel{ID: 1}, QuestionType: model.MultipleChoice, CorrectAnswer: "B", Points: 10},
		model.AssessmentQuestion{BaseModel: model.BaseModel{ID: 2}, QuestionType: model.MultipleChoice, CorrectAnswer: "A", Points: 10},
	)

	outcome := gradeAttempt(a, map[uint]string{1: "B", 2: "C"})
	if outcome.Score != 50 {
		t.Fatalf("expected score 50, got %d", outcome.Score)
	}
	if outcome.NeedsGrading {
		t.Error("pure choice quiz must not need manual grading")
	}
	if !outcome.Answers[0].IsCorrect || outcome.Answers[0].PointsAwarded != 10 {
		t.Errorf("first answer should earn full points: %+v", outcome.Answers[0])
	}
	if outcome.Answers[1].IsCorrect || outcome.Answers[1].PointsAwarded != 0 {
		t.Errorf("second answer should earn nothing: %+v", outcome.Answers[1])
	}
}

func TestGradeAttemptAllCorrect(t *testing.T) {
	a := quizWith(
		model.AssessmentQuestion{BaseModel: model.BaseModel{ID: 1}, QuestionType: model.TrueFalse, CorrectAnswer: "true", Points: 10},
		model.AssessmentQuestion{BaseModel: model.BaseModel{ID: 2}, QuestionType: model.MultipleChoice, CorrectAnswer: "A", Points: 10},
	)

	outcome := gradeAttempt(a, map[uint]string{1: "true", 2: "A"})
	if outcome.Score != 100 {
		t.Fatalf("expected score 100, got %d", outcome.Score)
	}
}

func TestGradeAttemptManualTypesCountInDenominator(t *testing.T) {
	// 论述题不自动得分，但分值计入总分母
	a := quizWith(
		model.AssessmentQuestion{BaseModel: model.BaseModel{ID: 1}, QuestionType: model.MultipleChoice, CorrectAnswer: "A", Points: 10},
		model.AssessmentQuestion{BaseModel: model.BaseModel{ID: 2}, QuestionType: model.Essay, Points: 10},
	)

	outcome := gradeAttempt(a, map[uint]string{1: "A", 2: "long essay text"})
	if outcome.Score != 50 {
		t.Fatalf("expected score 50 with essay in denominator, got %d", outcome.Score)
	}
	if !outcome.NeedsGrading {
		t.Error("essay question must flag the attempt for manual grading")
	}
	if outcome.Answers[1].IsCorrect || outcome.Answers[1].PointsAwarded != 0 {
		t.Errorf("essay must not be auto-scored: %+v", outcome.Answers[1])
	}
}

func TestGradeAttemptCheckboxNotAutoScored(t *testing.T) {
	a := quizWith(
		model.AssessmentQuestion{BaseModel: model.BaseModel{ID: 1}, QuestionType: model.Checkbox, CorrectAnswer: "A,C", Points: 10},
	)

	// 即使作答与正确答案完全一致，多选题也留待人工给分
	outcome := gradeAttempt(a, map[uint]string{1: "A,C"})
	if outcome.Answers[0].IsCorrect || outcome.Answers[0].PointsAwarded != 0 {
		t.Fatalf("checkbox must not be auto-scored: %+v", outcome.Answers[0])
	}
	if !outcome.NeedsGrading {
		t.Error("checkbox question must flag the attempt for manual grading")
	}
}

func TestGradeAttemptEmptyAnswerNeverCorrect(t *testing.T) {
	a := quizWith(
		model.AssessmentQuestion{BaseModel: model.BaseModel{ID: 1}, QuestionType: model.MultipleChoice, CorrectAnswer: "", Points: 10},
	)

	outcome := gradeAttempt(a, map[uint]string{})
	if outcome.Answers[0].IsCorrect {
		t.Fatal("unanswered question must not match an empty correct answer")
	}
}

func TestGradeAttemptUnansweredRecorded(t *testing.T) {
	a := quizWith(
		model.AssessmentQuestion{BaseModel: model.BaseModel{ID: 1}, QuestionType: model.MultipleChoice, CorrectAnswer: "A", Points: 10},
		model.AssessmentQuestion{BaseModel: model.BaseModel{ID: 2}, QuestionType: model.MultipleChoice, CorrectAnswer: "B", Points: 10},
	)

	outcome := gradeAttempt(a, map[uint]string{1: "A"})
	if len(outcome.Answers) != 2 {
		t.Fatalf("every question must get an answer row, got %d", len(outcome.Answers))
	}
	if outcome.Answers[1].Answer != "" {
		t.Errorf("unanswered row should carry empty answer, got %q", outcome.Answers[1].Answer)
	}
}

func TestPercentScoreRounding(t *testing.T) {
	cases := []struct {
		earned, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{3, 3, 100},
	}
	for _, c := range cases {
		if got := percentScore(c.earned, c.total); got != c.want {
			t.Errorf("percentScore(%d, %d) = %d, want %d", c.earned, c.total, got, c.want)
		}
	}
}

func TestAttemptExpiredUntimed(t *testing.T) {
	a := &model.Assessment{TimeLimit: 0}
	attempt := &model.AssessmentAttempt{StartedAt: time.Now().Add(-48 * time.Hour)}

	expired, remaining := attemptExpired(a, attempt, time.Now())
	if expired {
		t.Fatal("untimed assessment must never expire")
	}
	if remaining != -1 {
		t.Errorf("expected remaining -1 for untimed, got %d", remaining)
	}
}

func TestAttemptExpiredWithinLimit(t *testing.T) {
	a := &model.Assessment{TimeLimit: 30}
	start := time.Now()
	attempt := &model.AssessmentAttempt{StartedAt: start}

	expired, remaining := attemptExpired(a, attempt, start.Add(10*time.Minute))
	if expired {
		t.Fatal("attempt must not be expired inside the limit")
	}
	if remaining != 20*60 {
		t.Errorf("expected 1200 seconds remaining, got %d", remaining)
	}
}

func TestAttemptExpiredPastDeadline(t *testing.T) {
	a := &model.Assessment{TimeLimit: 30}
	start := time.Now()
	attempt := &model.AssessmentAttempt{StartedAt: start}

	expired, remaining := attemptExpired(a, attempt, start.Add(31*time.Minute))
	if !expired {
		t.Fatal("attempt past the deadline must be expired")
	}
	if remaining != 0 {
		t.Errorf("expected 0 seconds remaining, got %d", remaining)
	}
}

func TestAttemptExpiredExactDeadline(t *testing.T) {
	a := &model.Assessment{TimeLimit: 30}
	start := time.Now()
	attempt := &model.AssessmentAttempt{StartedAt: start}

	expired, _ := attemptExpired(a, attempt, start.Add(30*time.Minute))
	if !expired {
		t.Fatal("attempt exactly at the deadline counts as expired")
	}
}
