package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fcticket/internal/constants"
	"fcticket/internal/service"
	"fcticket/pkg/logger"
)

// MemberHandler 会员处理器
type MemberHandler struct {
	memberService *service.MemberService
	weChatService *service.WeChatService
	logger        *logger.Logger
}

// NewMemberHandler 创建会员处理器实例
func NewMemberHandler(memberService *service.MemberService, weChatService *service.WeChatService, logger *logger.Logger) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		weChatService: weChatService,
		logger:        logger,
	}
}

// bindRequest 绑定联系方式请求体
type bindRequest struct {
	MemberKey  string `json:"member_key"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	MemberName string `json:"member_name"`
}

// Bind 绑定会员联系方式
// key不存在时返回200和失败消息，维持旧接口契约
func (h *MemberHandler) Bind(c *gin.Context) {
	var req bindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": constants.ErrInvalidParams})
		return
	}

	member, err := h.memberService.Bind(c.Request.Context(), req.MemberKey, req.Phone, req.Email, req.MemberName)
	if err != nil {
		h.logger.Error("绑定用户信息失败", "member_key", req.MemberKey, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrInternalRequest})
		return
	}
	if member == nil {
		c.JSON(http.StatusOK, gin.H{"msg": constants.ErrBindFailed})
		return
	}

	c.JSON(http.StatusOK, member)
}

// saveWeChatRequest 录入微信绑定请求体
type saveWeChatRequest struct {
	UID       int64  `json:"uid"`
	AuthToken string `json:"auth_token"`
	MemberID  int64  `json:"member_id"`
	Realname  string `json:"realname"`
}

// SaveWeChat 录入或更新微信绑定信息
func (h *MemberHandler) SaveWeChat(c *gin.Context) {
	var req saveWeChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": constants.ErrInvalidParams})
		return
	}

	info, err := h.weChatService.SaveBinding(c.Request.Context(), req.UID, req.AuthToken, req.MemberID, req.Realname)
	if err != nil {
		h.logger.Error("录入微信绑定失败", "uid", req.UID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrInternalRequest})
		return
	}
	if info == nil {
		c.JSON(http.StatusOK, gin.H{"msg": constants.ErrSaveWeChatFailed})
		return
	}

	c.JSON(http.StatusOK, info)
}

// GetInfo 根据会员key查询会员信息
func (h *MemberHandler) GetInfo(c *gin.Context) {
	memberKey := c.Param("member_key")

	member, err := h.memberService.GetByKey(c.Request.Context(), memberKey)
	if err != nil {
		h.logger.Error("查询会员信息失败", "member_key", memberKey, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrInternalRequest})
		return
	}
	if member == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": constants.ErrMemberNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          member.ID,
		"member_key":  member.MemberKey,
		"member_name": member.MemberName.String,
		"phone":       member.Phone.String,
		"email":       member.Email.String,
		"email_count": member.EmailCount,
	})
}
