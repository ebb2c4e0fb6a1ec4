package controller

import (
	"predict_earn_backend/internal/service"
	"predict_earn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CheckinController struct {
	CheckinService *service.CheckinService
}

func NewCheckinController(checkinService *service.CheckinService) *CheckinController {
	return &CheckinController{CheckinService: checkinService}
}

type SubmitCheckinRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

type SkipQuestionRequest struct {
	QuestionID uint `json:"questionId" binding:"required"`
}

// @Summary 获取今日签到题目
// @Description 优先返回未答过的优先题，题库耗尽后循环使用
// @Tags 签到
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/checkin/question [get]
func (c *CheckinController) GetQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	question, err := c.CheckinService.TodayQuestion(user.UserID)
	if err != nil {
		util.MapServiceError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary 提交签到答案
// @Description 答对记签到并发积分，答错可立即换题重试；每自然日只能签到一次
// @Tags 签到
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitCheckinRequest true "答案"
// @Success 200 {object} util.Response
// @Router /api/checkin/submit [post]
func (c *CheckinController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitCheckinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.CheckinService.Submit(user.UserID, req.QuestionID, req.Answer)
	if err != nil {
		util.MapServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 跳过当前题目
// @Description 每天限额，消耗一次跳过机会，题目不再出现
// @Tags 签到
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SkipQuestionRequest true "题目"
// @Success 200 {object} util.Response
// @Router /api/checkin/skip [post]
func (c *CheckinController) Skip(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SkipQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CheckinService.Skip(user.UserID, req.QuestionID); err != nil {
		util.MapServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 签到状态
// @Tags 签到
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/checkin/status [get]
func (c *CheckinController) Status(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.CheckinService.Status(user.UserID)
	if err != nil {
		util.MapServiceError(ctx, err)
		return
	}
	util.Success(ctx, status)
}
