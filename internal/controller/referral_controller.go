package controller

import (
	"predict_earn_backend/internal/service"
	"predict_earn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReferralController struct {
	ReferralService *service.ReferralService
}

func NewReferralController(referralService *service.ReferralService) *ReferralController {
	return &ReferralController{ReferralService: referralService}
}

type SetReferralCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// @Summary 设置推荐码
// @Description 每个用户只能设置一次，至少4个字符，全局唯一
// @Tags 推荐
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SetReferralCodeRequest true "推荐码"
// @Success 200 {object} util.Response
// @Router /api/referral/code [post]
func (c *ReferralController) SetCode(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SetReferralCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ReferralService.SetCode(user.UserID, req.Code); err != nil {
		util.MapServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 推荐统计
// @Tags 推荐
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/referral/stats [get]
func (c *ReferralController) Stats(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.ReferralService.Stats(user.UserID)
	if err != nil {
		util.MapServiceError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
