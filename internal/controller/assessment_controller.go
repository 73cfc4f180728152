package controller

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
}

func NewAssessmentController(assessmentService *service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

// CreateAssessment godoc
// @Summary 在课时下创建评估
// @Tags 评估模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Param body body service.CreateAssessmentReq true "评估信息"
// @Success 201 {object} util.Response{data=model.Assessment}
// @Router /api/lessons/{id}/assessments [post]
func (c *AssessmentController) CreateAssessment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateAssessmentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AssessmentService.CreateAssessment(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// ListAssessments godoc
// @Summary 课时下的评估列表
// @Tags 评估模块
// @Produce json
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response{data=[]model.Assessment}
// @Router /api/lessons/{id}/assessments [get]
func (c *AssessmentController) ListAssessments(ctx *gin.Context) {
	as, err := c.AssessmentService.ListByLesson(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, as)
}

// GetAssessment godoc
// @Summary 评估详情（含按序题目）
// @Tags 评估模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Failure 404 {object} util.Response
// @Router /api/assessments/{id} [get]
func (c *AssessmentController) GetAssessment(ctx *gin.Context) {
	a, err := c.AssessmentService.GetAssessment(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// UpdateAssessment godoc
// @Summary 更新评估
// @Tags 评估模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Param body body service.UpdateAssessmentReq true "评估字段"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Router /api/assessments/{id} [put]
func (c *AssessmentController) UpdateAssessment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateAssessmentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AssessmentService.UpdateAssessment(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// DeleteAssessment godoc
// @Summary 删除评估并重排兄弟
// @Tags 评估模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id} [delete]
func (c *AssessmentController) DeleteAssessment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AssessmentService.DeleteAssessment(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AddQuestion godoc
// @Summary 在评估末尾新增题目
// @Tags 评估模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Param body body service.CreateQuestionReq true "题目信息"
// @Success 201 {object} util.Response{data=model.AssessmentQuestion}
// @Router /api/assessments/{id}/questions [post]
func (c *AssessmentController) AddQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateQuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.AssessmentService.AddQuestion(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// UpdateQuestion godoc
// @Summary 更新题目，选项收缩会同步剔除失效的正确答案
// @Tags 评估模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Param body body service.UpdateQuestionReq true "题目字段"
// @Success 200 {object} util.Response{data=model.AssessmentQuestion}
// @Router /api/questions/{id} [put]
func (c *AssessmentController) UpdateQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateQuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.AssessmentService.UpdateQuestion(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary 删除题目并重排兄弟
// @Tags 评估模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [delete]
func (c *AssessmentController) DeleteQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AssessmentService.DeleteQuestion(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ReorderQuestions godoc
// @Summary 重排评估题目
// @Tags 评估模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Param body body ReorderRequest true "题目ID排列"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/questions/reorder [put]
func (c *AssessmentController) ReorderQuestions(ctx *gin.Context) {
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

	if err := c.AssessmentService.ReorderQuestions(util.MustParseUint(ctx.Param("id")), user.UserID, user.Role == model.Admin, req.IDs); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
