package controller

import (
	"concert_connect_backend/internal/model"
	"concert_connect_backend/internal/service"
	"concert_connect_backend/internal/ticketing"
	"concert_connect_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	EventService *service.EventService
}

func NewEventController(eventService *service.EventService) *EventController {
	return &EventController{EventService: eventService}
}

// Search godoc
// @Summary 搜索活动
// @Description 调用票务平台搜索音乐活动并落库。已登录时按用户所在地隐式过滤，结果带当前用户的交互标记
// @Tags 活动
// @Produce  json
// @Param   keyword query string false "关键词"
// @Param   city query string false "城市"
// @Param   state query string false "州代码"
// @Param   genre query string false "分类"
// @Param   startDate query string false "起始日期 YYYY-MM-DD"
// @Param   endDate query string false "结束日期 YYYY-MM-DD"
// @Param   radius query int false "搜索半径（英里）"
// @Param   page query int false "页码（供应商分页）"
// @Param   size query int false "页大小，上限 50"
// @Success 200 {object} util.Response{data=[]service.AnnotatedEvent}
// @Failure 400 {object} util.Response "供应商调用失败"
// @Router /api/events/search [get]
func (c *EventController) Search(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.Query("page"))
	size, _ := strconv.Atoi(ctx.Query("size"))
	radius, _ := strconv.Atoi(ctx.Query("radius"))

	params := ticketing.SearchParams{
		Keyword:   ctx.Query("keyword"),
		City:      ctx.Query("city"),
		State:     ctx.Query("state"),
		Genre:     ctx.Query("genre"),
		StartDate: ctx.Query("startDate"),
		EndDate:   ctx.Query("endDate"),
		Sort:      ctx.Query("sort"),
		Page:      page,
		Size:      size,
		Radius:    radius,
	}

	events, err := c.EventService.Search(ctx.Request.Context(), util.CurrentUserID(ctx), params)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// Get godoc
// @Summary 活动详情
// @Tags 活动
// @Produce  json
// @Param   id path int true "活动 ID"
// @Success 200 {object} util.Response{data=service.AnnotatedEvent}
// @Failure 404 {object} util.Response
// @Router /api/events/{id} [get]
func (c *EventController) Get(ctx *gin.Context) {
	eventID := util.MustParseUint(ctx.Param("id"))
	event, err := c.EventService.GetEvent(util.CurrentUserID(ctx), eventID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, event)
}

// InterestRequest 交互标记请求
type InterestRequest struct {
	Type string `json:"type" binding:"required"`
}

// MarkInterest godoc
// @Summary 标记对活动的交互
// @Description type 取 interested、going、purchased，重复标记幂等
// @Tags 活动
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "活动 ID"
// @Param   body body InterestRequest true "交互类型"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "非法类型"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/events/{id}/interest [post]
func (c *EventController) MarkInterest(ctx *gin.Context) {
	var req InterestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	eventID := util.MustParseUint(ctx.Param("id"))
	err := c.EventService.MarkInterest(util.CurrentUserID(ctx), eventID, model.InteractionType(req.Type))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, nil, "interaction recorded")
}

// RemoveInterest godoc
// @Summary 取消对活动的交互
// @Tags 活动
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "活动 ID"
// @Param   type path string true "交互类型"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "交互不存在"
// @Router /api/events/{id}/interest/{type} [delete]
func (c *EventController) RemoveInterest(ctx *gin.Context) {
	eventID := util.MustParseUint(ctx.Param("id"))
	err := c.EventService.RemoveInterest(util.CurrentUserID(ctx), eventID, model.InteractionType(ctx.Param("type")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, nil, "interaction removed")
}

// MyEvents godoc
// @Summary 我的活动
// @Description 按交互类型分组返回用户标记过的活动，可用 type 过滤
// @Tags 活动
// @Produce  json
// @Security BearerAuth
// @Param   type query string false "交互类型过滤"
// @Success 200 {object} util.Response{data=object}
// @Router /api/events/user/my-events [get]
func (c *EventController) MyEvents(ctx *gin.Context) {
	grouped, err := c.EventService.MyEvents(util.CurrentUserID(ctx), model.InteractionType(ctx.Query("type")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, grouped)
}

// Featured godoc
// @Summary 近期精选活动
// @Tags 活动
// @Produce  json
// @Param   limit query int false "数量上限，默认 10"
// @Success 200 {object} util.Response{data=[]service.AnnotatedEvent}
// @Router /api/events/featured/upcoming [get]
func (c *EventController) Featured(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	events, err := c.EventService.FeaturedUpcoming(util.CurrentUserID(ctx), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// Genres godoc
// @Summary 活动分类列表
// @Tags 活动
// @Produce  json
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/events/meta/genres [get]
func (c *EventController) Genres(ctx *gin.Context) {
	util.Success(ctx, c.EventService.Genres())
}
