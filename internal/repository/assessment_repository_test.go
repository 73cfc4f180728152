package repository

import (
	"testing"

	"elearn_backend/internal/model"
)

func TestDeleteAssessmentRenumbersSiblings(t *testing.T) {
	db := newTestDB(t)
	repo := NewAssessmentRepository(db)

	as := make([]*model.Assessment, 3)
	for i := 0; i < 3; i++ {
		a := &model.Assessment{LessonID: 1, Title: "小测", Order: i + 1}
		if err := repo.Create(a); err != nil {
			t.Fatalf("create assessment: %v", err)
		}
		as[i] = a
	}

	if err := repo.Delete(as[1].ID); err != nil {
		t.Fatalf("delete assessment: %v", err)
	}

	rest, err := repo.ListByLesson(1)
	if err != nil {
		t.Fatalf("list assessments: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("got %d assessments, want 2", len(rest))
	}
	for i, a := range rest {
		if a.Order != i+1 {
			t.Errorf("assessment %d: order = %d, want %d", a.ID, a.Order, i+1)
		}
	}
}

func TestDeleteQuestionRenumbersSiblingsAndDropsAnswers(t *testing.T) {
	db := newTestDB(t)
	repo := NewAssessmentRepository(db)

	a := &model.Assessment{LessonID: 1, Title: "小测", Order: 1}
	if err := repo.Create(a); err != nil {
		t.Fatalf("create assessment: %v", err)
	}
	qs := make([]*model.AssessmentQuestion, 3)
	for i := 0; i < 3; i++ {
		q := &model.AssessmentQuestion{AssessmentID: a.ID, QuestionType: model.TrueFalse, Content: "题干", Points: 1, Order: i + 1}
		if err := repo.CreateQuestion(q); err != nil {
			t.Fatalf("create question: %v", err)
		}
		qs[i] = q
	}
	attempt := &model.AssessmentAttempt{AssessmentID: a.ID, UserID: 1, Status: model.AttemptCompleted}
	if err := db.Create(attempt).Error; err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	if err := db.Create(&model.AttemptAnswer{AttemptID: attempt.ID, QuestionID: qs[1].ID, Answer: "true"}).Error; err != nil {
		t.Fatalf("create answer: %v", err)
	}

	if err := repo.DeleteQuestion(qs[1].ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}

	rest, err := repo.ListQuestions(a.ID)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("got %d questions, want 2", len(rest))
	}
	wantIDs := []uint{qs[0].ID, qs[2].ID}
	for i, q := range rest {
		if q.ID != wantIDs[i] {
			t.Errorf("position %d: id = %d, want %d", i, q.ID, wantIDs[i])
		}
		if q.Order != i+1 {
			t.Errorf("question %d: order = %d, want %d", q.ID, q.Order, i+1)
		}
	}

	var answers int64
	db.Model(&model.AttemptAnswer{}).Where("question_id = ?", qs[1].ID).Count(&answers)
	if answers != 0 {
		t.Errorf("answers for the deleted question survived: %d", answers)
	}
}
