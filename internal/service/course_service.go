package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseService 维护课程树：课程 → 章节 → 课时。
// 所有兄弟集合的 order 在每次增删/重排后保持从 1 起连续。
type CourseService struct {
	CourseRepo *repository.CourseRepository
	LessonRepo *repository.LessonRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, lessonRepo *repository.LessonRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo, LessonRepo: lessonRepo}
}

type CreateCourseReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

type UpdateCourseReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
	IsPublished *bool   `json:"isPublished"`
}

type UpdateModuleReq struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	Duration          *int    `json:"duration"`
	FinalAssessmentID *uint   `json:"finalAssessmentId"`
}

type CreateLessonReq struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content"`
	VideoURL   string `json:"videoUrl"`
	Duration   int    `json:"duration"`
	IsProject  bool   `json:"isProject"`
	IsExercise bool   `json:"isExercise"`
}

type UpdateLessonReq struct {
	Title      *string                `json:"title"`
	Content    *string                `json:"content"`
	VideoURL   *string                `json:"videoUrl"`
	Duration   *int                   `json:"duration"`
	IsProject  *bool                  `json:"isProject"`
	IsExercise *bool                  `json:"isExercise"`
	Resources  []model.LessonResource `json:"resources"`
}

func (s *CourseService) CreateCourse(instructorID uint, req *CreateCourseReq) (*model.Course, error) {
	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		Thumbnail:    req.Thumbnail,
		InstructorID: instructorID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

// GetCourseTree 返回完整课程树，课时内容懒迁移为规范化格式
func (s *CourseService) GetCourseTree(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithTree(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	for mi := range course.Modules {
		for li := range course.Modules[mi].Lessons {
			s.normalizeLessonContent(&course.Modules[mi].Lessons[li])
		}
	}
	return course, nil
}

func (s *CourseService) ListCourses(page, limit int, instructorID uint) ([]model.Course, int64, error) {
	return s.CourseRepo.List(page, limit, instructorID)
}

func (s *CourseService) UpdateCourse(id uint, actorID uint, isAdmin bool, req *UpdateCourseReq) (*model.Course, error) {
	course, err := s.ownedCourse(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Thumbnail != nil {
		course.Thumbnail = *req.Thumbnail
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(id uint, actorID uint, isAdmin bool) error {
	if _, err := s.ownedCourse(id, actorID, isAdmin); err != nil {
		return err
	}
	return s.CourseRepo.Delete(id)
}

// AddModule 在课程末尾追加章节，缺省标题为占位名
func (s *CourseService) AddModule(courseID uint, actorID uint, isAdmin bool, title string) (*model.Module, error) {
	if _, err := s.ownedCourse(courseID, actorID, isAdmin); err != nil {
		return nil, err
	}

	count, err := s.CourseRepo.CountModules(courseID)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = model.DefaultModuleTitle
	}
	m := &model.Module{
		CourseID: courseID,
		Title:    title,
		Order:    int(count) + 1,
	}
	if err := s.CourseRepo.CreateModule(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CourseService) UpdateModule(moduleID uint, actorID uint, isAdmin bool, req *UpdateModuleReq) (*model.Module, error) {
	m, err := s.ownedModule(moduleID, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Duration != nil {
		m.Duration = *req.Duration
	}
	if req.FinalAssessmentID != nil {
		m.FinalAssessmentID = req.FinalAssessmentID
	}

	if err := s.CourseRepo.UpdateModule(m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteModule 删除章节，剩余兄弟在删除事务内重新编号
func (s *CourseService) DeleteModule(moduleID uint, actorID uint, isAdmin bool) error {
	if _, err := s.ownedModule(moduleID, actorID, isAdmin); err != nil {
		return err
	}
	return s.CourseRepo.DeleteModule(moduleID)
}

// ReorderModules 按给定 id 顺序重排课程章节，requested 必须是现有章节的一个排列
func (s *CourseService) ReorderModules(courseID uint, actorID uint, isAdmin bool, requested []uint) error {
	if _, err := s.ownedCourse(courseID, actorID, isAdmin); err != nil {
		return err
	}

	modules, err := s.CourseRepo.ListModules(courseID)
	if err != nil {
		return err
	}
	current := make([]uint, len(modules))
	for i, m := range modules {
		current[i] = m.ID
	}

	orders, err := PermutationOrders(current, requested)
	if err != nil {
		return err
	}
	for id, order := range orders {
		if err := s.CourseRepo.UpdateModuleOrder(id, order); err != nil {
			return err
		}
	}
	return nil
}

func (s *CourseService) AddLesson(moduleID uint, actorID uint, isAdmin bool, req *CreateLessonReq) (*model.Lesson, error) {
	if _, err := s.ownedModule(moduleID, actorID, isAdmin); err != nil {
		return nil, err
	}

	count, err := s.LessonRepo.CountByModule(moduleID)
	if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		ModuleID:   moduleID,
		Title:      req.Title,
		Content:    model.EncodeLessonContent(model.ParseLessonContent(req.Content)),
		VideoURL:   req.VideoURL,
		Duration:   req.Duration,
		Order:      int(count) + 1,
		IsProject:  req.IsProject,
		IsExercise: req.IsExercise,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) GetLesson(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	s.normalizeLessonContent(lesson)
	return lesson, nil
}

func (s *CourseService) UpdateLesson(lessonID uint, actorID uint, isAdmin bool, req *UpdateLessonReq) (*model.Lesson, error) {
	lesson, err := s.ownedLesson(lessonID, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Content != nil {
		lesson.Content = model.EncodeLessonContent(model.ParseLessonContent(*req.Content))
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}
	if req.IsProject != nil {
		lesson.IsProject = *req.IsProject
	}
	if req.IsExercise != nil {
		lesson.IsExercise = *req.IsExercise
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}

	if req.Resources != nil {
		if err := s.LessonRepo.ReplaceResources(lessonID, req.Resources); err != nil {
			return nil, err
		}
		lesson.Resources = req.Resources
	}
	return lesson, nil
}

// DeleteLesson 删除课时，剩余兄弟在删除事务内重新编号
func (s *CourseService) DeleteLesson(lessonID uint, actorID uint, isAdmin bool) error {
	if _, err := s.ownedLesson(lessonID, actorID, isAdmin); err != nil {
		return err
	}
	return s.LessonRepo.Delete(lessonID)
}

func (s *CourseService) ReorderLessons(moduleID uint, actorID uint, isAdmin bool, requested []uint) error {
	if _, err := s.ownedModule(moduleID, actorID, isAdmin); err != nil {
		return err
	}

	lessons, err := s.LessonRepo.ListByModule(moduleID)
	if err != nil {
		return err
	}
	current := make([]uint, len(lessons))
	for i, l := range lessons {
		current[i] = l.ID
	}

	orders, err := PermutationOrders(current, requested)
	if err != nil {
		return err
	}
	for id, order := range orders {
		if err := s.LessonRepo.UpdateOrder(id, order); err != nil {
			return err
		}
	}
	return nil
}

// PermutationOrders 校验 requested 是 current 的一个排列，返回 id 到新序号（1 起）的映射
func PermutationOrders(current, requested []uint) (map[uint]int, error) {
	if len(current) != len(requested) {
		return nil, fmt.Errorf("reorder list has %d ids, expected %d", len(requested), len(current))
	}

	existing := make(map[uint]bool, len(current))
	for _, id := range current {
		existing[id] = true
	}

	orders := make(map[uint]int, len(requested))
	for i, id := range requested {
		if !existing[id] {
			return nil, fmt.Errorf("unknown id %d in reorder list", id)
		}
		if _, dup := orders[id]; dup {
			return nil, fmt.Errorf("duplicate id %d in reorder list", id)
		}
		orders[id] = i + 1
	}
	return orders, nil
}

// normalizeLessonContent 将存量旧格式内容懒迁移为规范化 JSON
func (s *CourseService) normalizeLessonContent(lesson *model.Lesson) {
	normalized := model.EncodeLessonContent(model.ParseLessonContent(lesson.Content))
	if normalized != lesson.Content {
		lesson.Content = normalized
		if err := s.LessonRepo.Update(lesson); err != nil {
			logger.Log.Warn("persist normalized content failed",
				zap.Uint("lessonId", lesson.ID), zap.Error(err))
		}
	}
}

func (s *CourseService) ownedCourse(courseID, actorID uint, isAdmin bool) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	if !isAdmin && course.InstructorID != actorID {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

func (s *CourseService) ownedModule(moduleID, actorID uint, isAdmin bool) (*model.Module, error) {
	m, err := s.CourseRepo.FindModuleByID(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCourse(m.CourseID, actorID, isAdmin); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CourseService) ownedLesson(lessonID, actorID uint, isAdmin bool) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedModule(lesson.ModuleID, actorID, isAdmin); err != nil {
		return nil, err
	}
	return lesson, nil
}
