package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// UploadImage godoc
// @Summary 上传课件图片
// @Tags 内容模块
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片文件"
// @Success 201 {object} util.Response{data=service.UploadResult}
// @Failure 400 {object} util.Response "文件类型不合法"
// @Router /api/content/images [post]
func (c *ContentController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	result, err := c.ContentService.UploadImage(ctx.Request.Context(), file, "images")
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, result)
}

// UploadVideo godoc
// @Summary 上传课时视频，返回探测到的时长
// @Tags 内容模块
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "视频文件"
// @Success 201 {object} util.Response{data=service.UploadResult}
// @Failure 400 {object} util.Response "文件类型不合法"
// @Router /api/content/videos [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	result, err := c.ContentService.UploadVideo(ctx.Request.Context(), file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, result)
}

// UploadSubmission godoc
// @Summary 上传项目评估提交文件
// @Tags 内容模块
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "提交文件"
// @Success 201 {object} util.Response{data=service.UploadResult}
// @Failure 400 {object} util.Response "文件类型不合法"
// @Router /api/content/submissions [post]
func (c *ContentController) UploadSubmission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	result, err := c.ContentService.UploadSubmissionFile(ctx.Request.Context(), file, user.UserID)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, result)
}
