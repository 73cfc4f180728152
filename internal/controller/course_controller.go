package controller

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// ReorderRequest 重排请求，ids 按期望顺序给出现有全部子节点
type ReorderRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 课程模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateCourseReq true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateCourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(user.UserID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// ListCourses godoc
// @Summary 课程列表
// @Tags 课程模块
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param instructorId query int false "按讲师过滤"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, limit := util.PageParams(ctx)
	instructorID := util.MustParseUint(ctx.Query("instructorId"))

	courses, total, err := c.CourseService.ListCourses(page, limit, instructorID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// GetCourse godoc
// @Summary 课程详情（完整课程树）
// @Tags 课程模块
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CourseService.GetCourseTree(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 课程模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param body body service.UpdateCourseReq true "课程字段"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateCourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程（级联删除整棵课程树）
// @Tags 课程模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CourseService.DeleteCourse(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AddModuleRequest 新建章节请求，标题可省略
type AddModuleRequest struct {
	Title string `json:"title"`
}

// AddModule godoc
// @Summary 在课程末尾新建章节
// @Tags 课程模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param body body AddModuleRequest true "章节信息"
// @Success 201 {object} util.Response{data=model.Module}
// @Router /api/courses/{id}/modules [post]
func (c *CourseController) AddModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AddModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.CourseService.AddModule(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, req.Title)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// UpdateModule godoc
// @Summary 更新章节
// @Tags 课程模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "章节ID"
// @Param body body service.UpdateModuleReq true "章节字段"
// @Success 200 {object} util.Response{data=model.Module}
// @Router /api/modules/{id} [put]
func (c *CourseController) UpdateModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateModuleReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.CourseService.UpdateModule(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// DeleteModule godoc
// @Summary 删除章节并重排兄弟
// @Tags 课程模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/modules/{id} [delete]
func (c *CourseController) DeleteModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CourseService.DeleteModule(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ReorderModules godoc
// @Summary 重排课程章节
// @Tags 课程模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param body body ReorderRequest true "章节ID排列"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/modules/reorder [put]
func (c *CourseController) ReorderModules(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CourseService.ReorderModules(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, req.IDs); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AddLesson godoc
// @Summary 在章节末尾新建课时
// @Tags 课程模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "章节ID"
// @Param body body service.CreateLessonReq true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/modules/{id}/lessons [post]
func (c *CourseController) AddLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateLessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.AddLesson(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// GetLesson godoc
// @Summary 课时详情（内容为规范化块 JSON）
// @Tags 课程模块
// @Produce json
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *CourseController) GetLesson(ctx *gin.Context) {
	lesson, err := c.CourseService.GetLesson(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 更新课时
// @Tags 课程模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Param body body service.UpdateLessonReq true "课时字段"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id} [put]
func (c *CourseController) UpdateLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateLessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.UpdateLesson(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary 删除课时并重排兄弟
// @Tags 课程模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [delete]
func (c *CourseController) DeleteLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CourseService.DeleteLesson(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ReorderLessons godoc
// @Summary 重排章节课时
// @Tags 课程模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "章节ID"
// @Param body body ReorderRequest true "课时ID排列"
// @Success 200 {object} util.Response
// @Router /api/modules/{id}/lessons/reorder [put]
func (c *CourseController) ReorderLessons(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CourseService.ReorderLessons(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, req.IDs); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
