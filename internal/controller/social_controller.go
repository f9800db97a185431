package controller

import (
	"concert_connect_backend/internal/service"
	"concert_connect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SocialController struct {
	SocialService     *service.SocialService
	FriendshipService *service.FriendshipService
	StorageService    *service.StorageService
}

func NewSocialController(socialService *service.SocialService, friendshipService *service.FriendshipService, storageService *service.StorageService) *SocialController {
	return &SocialController{
		SocialService:     socialService,
		FriendshipService: friendshipService,
		StorageService:    storageService,
	}
}

// FriendRequestBody 好友申请请求
type FriendRequestBody struct {
	UserID uint `json:"userId" binding:"required"`
}

// SendFriendRequest godoc
// @Summary 发起好友申请
// @Tags 社交
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body FriendRequestBody true "对方用户 ID"
// @Success 201 {object} util.Response{data=model.Friendship}
// @Failure 400 {object} util.Response "自己/重复/已拉黑"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/social/friends/request [post]
func (c *SocialController) SendFriendRequest(ctx *gin.Context) {
	var req FriendRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	friendship, err := c.FriendshipService.SendRequest(util.CurrentUserID(ctx), req.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, friendship)
}

// RespondRequestBody 处理好友申请请求
type RespondRequestBody struct {
	Action string `json:"action" binding:"required,oneof=accept decline block"`
}

// RespondFriendRequest godoc
// @Summary 处理好友申请
// @Description accept 接受，decline 拒绝并删除，block 拉黑。仅被申请人可操作
// @Tags 社交
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "申请 ID"
// @Param   body body RespondRequestBody true "处理动作"
// @Success 200 {object} util.Response{data=model.Friendship}
// @Failure 403 {object} util.Response "非被申请人"
// @Failure 404 {object} util.Response "申请不存在"
// @Router /api/social/friends/request/{id} [patch]
func (c *SocialController) RespondFriendRequest(ctx *gin.Context) {
	var req RespondRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	requestID := util.MustParseUint(ctx.Param("id"))
	friendship, err := c.FriendshipService.RespondRequest(util.CurrentUserID(ctx), requestID, req.Action)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if friendship == nil {
		util.SuccessWithMessage(ctx, nil, "request declined")
		return
	}
	util.Success(ctx, friendship)
}

// PendingRequests godoc
// @Summary 待处理的好友申请
// @Tags 社交
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.PendingRequest}
// @Router /api/social/friends/requests [get]
func (c *SocialController) PendingRequests(ctx *gin.Context) {
	requests, err := c.FriendshipService.PendingRequests(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, requests)
}

// ListFriends godoc
// @Summary 好友列表
// @Tags 社交
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.Friend}
// @Router /api/social/friends [get]
func (c *SocialController) ListFriends(ctx *gin.Context) {
	friends, err := c.FriendshipService.ListFriends(util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, friends)
}

// RemoveFriend godoc
// @Summary 解除好友关系
// @Tags 社交
// @Produce  json
// @Security BearerAuth
// @Param   userId path int true "好友用户 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "不是好友"
// @Router /api/social/friends/{userId} [delete]
func (c *SocialController) RemoveFriend(ctx *gin.Context) {
	friendID := util.MustParseUint(ctx.Param("userId"))
	if err := c.FriendshipService.RemoveFriend(util.CurrentUserID(ctx), friendID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, nil, "friend removed")
}

// CreatePost godoc
// @Summary 发布动态
// @Description 内容 1~1000 字符，可关联活动和图片
// @Tags 社交
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreatePostInput true "动态内容"
// @Success 201 {object} util.Response{data=service.FeedPost}
// @Failure 400 {object} util.Response "内容非法"
// @Failure 404 {object} util.Response "关联活动不存在"
// @Router /api/social/posts [post]
func (c *SocialController) CreatePost(ctx *gin.Context) {
	var input service.CreatePostInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.SocialService.CreatePost(util.CurrentUserID(ctx), input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, post)
}

// Feed godoc
// @Summary 好友圈动态流
// @Description 作者范围为已接受的好友加自己，最新在前，带点赞/评论注解
// @Tags 社交
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "页大小"
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]service.FeedPost}}
// @Router /api/social/posts [get]
func (c *SocialController) Feed(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"), 50)
	posts, total, err := c.SocialService.Feed(util.CurrentUserID(ctx), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: posts, Total: total, Page: page, Limit: limit})
}

// ToggleLike godoc
// @Summary 点赞/取消点赞
// @Tags 社交
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "动态 ID"
// @Success 200 {object} util.Response{data=service.LikeResult}
// @Failure 404 {object} util.Response "动态不存在"
// @Router /api/social/posts/{id}/like [post]
func (c *SocialController) ToggleLike(ctx *gin.Context) {
	result, err := c.SocialService.ToggleLike(util.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// CommentBody 评论请求
type CommentBody struct {
	Content string `json:"content" binding:"required"`
}

// AddComment godoc
// @Summary 评论动态
// @Tags 社交
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "动态 ID"
// @Param   body body CommentBody true "评论内容"
// @Success 201 {object} util.Response{data=model.SocialComment}
// @Failure 404 {object} util.Response "动态不存在"
// @Router /api/social/posts/{id}/comments [post]
func (c *SocialController) AddComment(ctx *gin.Context) {
	var req CommentBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.SocialService.AddComment(util.CurrentUserID(ctx), ctx.Param("id"), req.Content)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, comment)
}

// Comments godoc
// @Summary 动态评论列表
// @Tags 社交
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "动态 ID"
// @Success 200 {object} util.Response{data=[]model.SocialComment}
// @Failure 404 {object} util.Response "动态不存在"
// @Router /api/social/posts/{id}/comments [get]
func (c *SocialController) Comments(ctx *gin.Context) {
	comments, err := c.SocialService.Comments(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, comments)
}

// UploadImage godoc
// @Summary 上传动态图片
// @Description 校验图片类型后写入对象存储，返回可访问 URL
// @Tags 社交
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "图片文件"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/social/posts/upload-image [post]
func (c *SocialController) UploadImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.StorageService.UploadImage(ctx.Request.Context(), util.CurrentUserID(ctx), fileHeader)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
