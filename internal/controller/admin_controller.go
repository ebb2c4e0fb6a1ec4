package controller

import (
	"strconv"

	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/service"
	"predict_earn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	UserService  *service.UserService
	OrderService *service.OrderSyncService
	Questions    QuestionCreator
}

// QuestionCreator 管理端维护题库用
type QuestionCreator interface {
	Create(question *model.Question) error
	List(page, limit int) ([]model.Question, int64, error)
}

func NewAdminController(userService *service.UserService, orderService *service.OrderSyncService, questions QuestionCreator) *AdminController {
	return &AdminController{
		UserService:  userService,
		OrderService: orderService,
		Questions:    questions,
	}
}

type GrantPointsRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Amount int    `json:"amount" binding:"required"`
	Notes  string `json:"notes"`
}

type CreateQuestionRequest struct {
	Text       string `json:"text" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
	Points     int    `json:"points"`
	IsPriority bool   `json:"isPriority"`
}

// @Summary 管理员调整积分
// @Description 经积分流水入账，记录操作管理员
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GrantPointsRequest true "调整信息"
// @Success 200 {object} util.Response
// @Router /api/admin/points/grant [post]
func (c *AdminController) GrantPoints(ctx *gin.Context) {
	admin := util.GetUserFromContext(ctx)
	if admin == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GrantPointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	txID, err := c.UserService.GrantPoints(admin.UserID, req.UserID, req.Amount, req.Notes)
	if err != nil {
		util.MapServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"transactionId": txID})
}

// @Summary 用户列表
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	users, total, err := c.UserService.ListUsers(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// @Summary 新增签到题目
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateQuestionRequest true "题目"
// @Success 201 {object} util.Response
// @Router /api/admin/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	var req CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question := &model.Question{
		Text:       req.Text,
		Answer:     req.Answer,
		Points:     req.Points,
		IsActive:   true,
		IsPriority: req.IsPriority,
	}
	if err := c.Questions.Create(question); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": question.ID})
}

// @Summary 题库列表
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/admin/questions [get]
func (c *AdminController) ListQuestions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	questions, total, err := c.Questions.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: questions, Total: total, Page: page, Limit: limit})
}

// @Summary 外部订单列表
// @Description webhook 同步来的订单及其处理状态，便于排查
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/admin/orders [get]
func (c *AdminController) ListOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	orders, total, err := c.OrderService.ListOrders(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: orders, Total: total, Page: page, Limit: limit})
}
