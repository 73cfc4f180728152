package repository

import (
	"testing"

	"elearn_backend/internal/model"
)

func TestDeleteLessonRenumbersSiblings(t *testing.T) {
	db := newTestDB(t)
	repo := NewLessonRepository(db)

	lessons := make([]*model.Lesson, 3)
	for i := 0; i < 3; i++ {
		l := &model.Lesson{ModuleID: 1, Title: "课时", Order: i + 1}
		if err := repo.Create(l); err != nil {
			t.Fatalf("create lesson: %v", err)
		}
		lessons[i] = l
	}

	if err := repo.Delete(lessons[1].ID); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}

	rest, err := repo.ListByModule(1)
	if err != nil {
		t.Fatalf("list lessons: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("got %d lessons, want 2", len(rest))
	}
	wantIDs := []uint{lessons[0].ID, lessons[2].ID}
	for i, l := range rest {
		if l.ID != wantIDs[i] {
			t.Errorf("position %d: id = %d, want %d", i, l.ID, wantIDs[i])
		}
		if l.Order != i+1 {
			t.Errorf("lesson %d: order = %d, want %d", l.ID, l.Order, i+1)
		}
	}
}

func TestDeleteLessonCascadesResourcesAndAssessments(t *testing.T) {
	db := newTestDB(t)
	repo := NewLessonRepository(db)

	lesson := &model.Lesson{ModuleID: 1, Title: "课时", Order: 1}
	if err := repo.Create(lesson); err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	if err := repo.CreateResource(&model.LessonResource{LessonID: lesson.ID, Title: "讲义", URL: "https://example.com/a.pdf"}); err != nil {
		t.Fatalf("create resource: %v", err)
	}
	if err := db.Create(&model.Assessment{LessonID: lesson.ID, Title: "小测", Order: 1}).Error; err != nil {
		t.Fatalf("create assessment: %v", err)
	}

	if err := repo.Delete(lesson.ID); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}

	var resources, assessments int64
	db.Model(&model.LessonResource{}).Where("lesson_id = ?", lesson.ID).Count(&resources)
	db.Model(&model.Assessment{}).Where("lesson_id = ?", lesson.ID).Count(&assessments)
	if resources != 0 || assessments != 0 {
		t.Errorf("cascade left %d resources and %d assessments", resources, assessments)
	}
}
