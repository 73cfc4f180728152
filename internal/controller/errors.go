package controller

import (
	"elearn_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError 将 service 层哨兵错误映射为 HTTP 状态码，未知错误记日志并返回 500
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUnauthorized):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrAssessmentNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrSubmissionFileRequired):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAssessmentNotPublished),
		errors.Is(err, util.ErrAttemptAlreadySubmitted),
		errors.Is(err, util.ErrAttemptNotCompleted),
		errors.Is(err, util.ErrRetakeNotAllowed):
		util.Error(ctx, http.StatusConflict, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
