package repository

import (
	"testing"

	"elearn_backend/internal/model"
)

func seedModules(t *testing.T, repo *CourseRepository, courseID uint, n int) []*model.Module {
	t.Helper()
	mods := make([]*model.Module, n)
	for i := 0; i < n; i++ {
		m := &model.Module{CourseID: courseID, Title: "章节", Order: i + 1}
		if err := repo.CreateModule(m); err != nil {
			t.Fatalf("create module: %v", err)
		}
		mods[i] = m
	}
	return mods
}

func TestDeleteModuleRenumbersSiblings(t *testing.T) {
	db := newTestDB(t)
	repo := NewCourseRepository(db)

	course := &model.Course{Title: "Go 入门", InstructorID: 1}
	if err := repo.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	mods := seedModules(t, repo, course.ID, 3)

	if err := repo.DeleteModule(mods[1].ID); err != nil {
		t.Fatalf("delete module: %v", err)
	}

	rest, err := repo.ListModules(course.ID)
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("got %d modules, want 2", len(rest))
	}
	wantIDs := []uint{mods[0].ID, mods[2].ID}
	for i, m := range rest {
		if m.ID != wantIDs[i] {
			t.Errorf("position %d: id = %d, want %d", i, m.ID, wantIDs[i])
		}
		if m.Order != i+1 {
			t.Errorf("module %d: order = %d, want %d", m.ID, m.Order, i+1)
		}
	}
}

func TestDeleteFirstModuleShiftsAllSiblings(t *testing.T) {
	db := newTestDB(t)
	repo := NewCourseRepository(db)

	course := &model.Course{Title: "数据结构", InstructorID: 1}
	if err := repo.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	mods := seedModules(t, repo, course.ID, 3)

	if err := repo.DeleteModule(mods[0].ID); err != nil {
		t.Fatalf("delete module: %v", err)
	}

	rest, err := repo.ListModules(course.ID)
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(rest) != 2 || rest[0].Order != 1 || rest[1].Order != 2 {
		t.Fatalf("orders not contiguous after deleting head: %+v", rest)
	}
}

func TestDeleteCourseCascadesWholeTree(t *testing.T) {
	db := newTestDB(t)
	repo := NewCourseRepository(db)

	course := &model.Course{Title: "操作系统", InstructorID: 1}
	if err := repo.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	m := &model.Module{CourseID: course.ID, Title: "章节", Order: 1}
	if err := repo.CreateModule(m); err != nil {
		t.Fatalf("create module: %v", err)
	}
	lesson := &model.Lesson{ModuleID: m.ID, Title: "课时", Order: 1}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	assessment := &model.Assessment{LessonID: lesson.ID, Title: "小测", Order: 1}
	if err := db.Create(assessment).Error; err != nil {
		t.Fatalf("create assessment: %v", err)
	}
	question := &model.AssessmentQuestion{AssessmentID: assessment.ID, QuestionType: model.TrueFalse, Content: "题干", Points: 1, Order: 1}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	attempt := &model.AssessmentAttempt{AssessmentID: assessment.ID, UserID: 1, Status: model.AttemptCompleted}
	if err := db.Create(attempt).Error; err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	if err := db.Create(&model.AttemptAnswer{AttemptID: attempt.ID, QuestionID: question.ID, Answer: "true"}).Error; err != nil {
		t.Fatalf("create answer: %v", err)
	}

	if err := repo.Delete(course.ID); err != nil {
		t.Fatalf("delete course: %v", err)
	}

	for name, m := range map[string]interface{}{
		"courses":     &model.Course{},
		"modules":     &model.Module{},
		"lessons":     &model.Lesson{},
		"assessments": &model.Assessment{},
		"questions":   &model.AssessmentQuestion{},
		"attempts":    &model.AssessmentAttempt{},
		"answers":     &model.AttemptAnswer{},
	} {
		var count int64
		if err := db.Model(m).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if count != 0 {
			t.Errorf("%s: %d rows survived the cascade", name, count)
		}
	}
}
