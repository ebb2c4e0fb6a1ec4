package controller

import (
	"strconv"

	"predict_earn_backend/internal/service"
	"predict_earn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PredictionController struct {
	PredictionService *service.PredictionService
}

func NewPredictionController(predictionService *service.PredictionService) *PredictionController {
	return &PredictionController{PredictionService: predictionService}
}

type GuessRequest struct {
	Guess string `json:"guess" binding:"required"`
}

// @Summary 竞猜列表
// @Description 公共列表，走缓存，答案对所有人脱敏
// @Tags 竞猜
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/predictions [get]
func (c *PredictionController) List(ctx *gin.Context) {
	views, err := c.PredictionService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// @Summary 创建竞猜
// @Description 作者创建付费竞猜，答案加密存储
// @Tags 竞猜
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.PredictionRequest true "竞猜信息"
// @Success 201 {object} util.Response
// @Router /api/predictions [post]
func (c *PredictionController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.PredictionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	prediction, err := c.PredictionService.Create(user.UserID, &req)
	if err != nil {
		util.MapServiceError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": prediction.ID})
}

// @Summary 竞猜详情
// @Description 只有作者能看到明文答案，其他人一律脱敏
// @Tags 竞猜
// @Produce json
// @Security BearerAuth
// @Param id path int true "竞猜ID"
// @Success 200 {object} util.Response
// @Router /api/predictions/{id} [get]
func (c *PredictionController) Detail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid prediction id")
		return
	}

	view, err := c.PredictionService.Detail(uint(id), user.UserID)
	if err != nil {
		util.MapServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 编辑竞猜
// @Description 仅作者可编辑，且只能在竞猜仍进行中时编辑
// @Tags 竞猜
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "竞猜ID"
// @Param body body service.PredictionRequest true "竞猜信息"
// @Success 200 {object} util.Response
// @Router /api/predictions/{id} [put]
func (c *PredictionController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid prediction id")
		return
	}

	var req service.PredictionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	prediction, err := c.PredictionService.Update(uint(id), user.UserID, &req)
	if err != nil {
		util.MapServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": prediction.ID})
}

// @Summary 提交猜测
// @Description 无论对错都扣参与费，第一个猜对的人获胜并结束竞猜
// @Tags 竞猜
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "竞猜ID"
// @Param body body GuessRequest true "猜测"
// @Success 200 {object} util.Response
// @Router /api/predictions/{id}/guess [post]
func (c *PredictionController) Guess(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid prediction id")
		return
	}

	var req GuessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PredictionService.Guess(uint(id), user.UserID, req.Guess)
	if err != nil {
		util.MapServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
