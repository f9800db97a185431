package controller

import (
	"concert_connect_backend/internal/service"
	"concert_connect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: paymentService}
}

// CreateIntent godoc
// @Summary 创建支付意向
// @Description 金额为最小货币单位（美分），下限 50。返回 clientSecret 供前端完成支付
// @Tags 支付
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateIntentInput true "支付信息"
// @Success 201 {object} util.Response{data=service.IntentResult}
// @Failure 400 {object} util.Response "金额非法或供应商失败"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/payments/create-intent [post]
func (c *PaymentController) CreateIntent(ctx *gin.Context) {
	var input service.CreateIntentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PaymentService.CreateIntent(ctx.Request.Context(), util.CurrentUserID(ctx), input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// Confirm godoc
// @Summary 确认支付结果
// @Description 向供应商查询意向状态并持久化，支付成功时记录购票
// @Tags 支付
// @Produce  json
// @Security BearerAuth
// @Param   paymentId path string true "支付记录 ID"
// @Success 200 {object} util.Response{data=model.Payment}
// @Failure 403 {object} util.Response "非本人支付"
// @Failure 404 {object} util.Response "支付记录不存在"
// @Router /api/payments/confirm/{paymentId} [post]
func (c *PaymentController) Confirm(ctx *gin.Context) {
	payment, err := c.PaymentService.Confirm(ctx.Request.Context(), util.CurrentUserID(ctx), ctx.Param("paymentId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, payment)
}

// Webhook godoc
// @Summary 支付回调
// @Description 校验 Stripe-Signature 签名头后对账，签名错误返回 400
// @Tags 支付
// @Accept  json
// @Produce  json
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "签名校验失败"
// @Router /api/payments/webhook [post]
func (c *PaymentController) Webhook(ctx *gin.Context) {
	payload, err := ctx.GetRawData()
	if err != nil {
		util.BadRequest(ctx, "cannot read payload")
		return
	}

	if err := c.PaymentService.HandleWebhook(payload, ctx.GetHeader("Stripe-Signature")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, nil, "received")
}

// History godoc
// @Summary 支付记录
// @Tags 支付
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "页大小"
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]model.Payment}}
// @Router /api/payments/history [get]
func (c *PaymentController) History(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"), 100)
	payments, total, err := c.PaymentService.History(util.CurrentUserID(ctx), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: payments, Total: total, Page: page, Limit: limit})
}
