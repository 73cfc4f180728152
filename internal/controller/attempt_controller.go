package controller

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// SaveAnswerRequest 保存单题作答。多选题可传 answers 数组，服务端合并存储
type SaveAnswerRequest struct {
	QuestionID uint     `json:"questionId" binding:"required"`
	Answer     string   `json:"answer"`
	Answers    []string `json:"answers"`
}

// Start godoc
// @Summary 开始作答（进行中答卷恢复，已完成返回回顾）
// @Tags 作答模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Success 200 {object} util.Response{data=service.AttemptView}
// @Router /api/assessments/{id}/attempts [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.AttemptService.Start(ctx.Request.Context(), user.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Retake godoc
// @Summary 重新作答（仅未通过时允许）
// @Tags 作答模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Success 200 {object} util.Response{data=service.AttemptView}
// @Failure 409 {object} util.Response "已通过，不允许重考"
// @Router /api/assessments/{id}/retake [post]
func (c *AttemptController) Retake(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.AttemptService.Retake(ctx.Request.Context(), user.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// SaveAnswer godoc
// @Summary 保存单题作答
// @Tags 作答模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "答卷ID"
// @Param body body SaveAnswerRequest true "作答"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "答卷已提交"
// @Router /api/attempts/{id}/answers [put]
func (c *AttemptController) SaveAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SaveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer := req.Answer
	if len(req.Answers) > 0 {
		answer = model.JoinAnswers(req.Answers)
	}

	if err := c.AttemptService.SaveAnswer(ctx.Request.Context(), user.UserID, ctx.Param("id"), req.QuestionID, answer); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Submit godoc
// @Summary 交卷判分
// @Tags 作答模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "答卷ID"
// @Param body body service.SubmitReq true "最终作答"
// @Success 200 {object} util.Response{data=service.ReviewView}
// @Failure 409 {object} util.Response "答卷已提交"
// @Router /api/attempts/{id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.AttemptService.Submit(ctx.Request.Context(), user.UserID, ctx.Param("id"), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// Review godoc
// @Summary 查看已完成答卷的逐题回顾
// @Tags 作答模块
// @Produce json
// @Security BearerAuth
// @Param id path string true "答卷ID"
// @Success 200 {object} util.Response{data=service.ReviewView}
// @Failure 409 {object} util.Response "答卷未完成"
// @Router /api/attempts/{id}/review [get]
func (c *AttemptController) Review(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	review, err := c.AttemptService.Review(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// ListMine godoc
// @Summary 当前用户的作答历史
// @Tags 作答模块
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/attempts [get]
func (c *AttemptController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.PageParams(ctx)

	attempts, total, err := c.AttemptService.ListByUser(user.UserID, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: attempts, Total: total, Page: page, Limit: limit})
}

// ListPendingGrading godoc
// @Summary 待人工给分的答卷列表（讲师）
// @Tags 作答模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "评估ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/assessments/{id}/grading [get]
func (c *AttemptController) ListPendingGrading(ctx *gin.Context) {
	page, limit := util.PageParams(ctx)

	attempts, total, err := c.AttemptService.ListPendingGrading(util.MustParseUint(ctx.Param("id")), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: attempts, Total: total, Page: page, Limit: limit})
}

// Grade godoc
// @Summary 人工给分（讲师）
// @Tags 作答模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "答卷ID"
// @Param body body service.GradeReq true "逐题给分"
// @Success 200 {object} util.Response{data=model.AssessmentAttempt}
// @Router /api/attempts/{id}/grade [put]
func (c *AttemptController) Grade(ctx *gin.Context) {
	var req service.GradeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.GradeAttempt(ctx.Param("id"), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}
