package handler

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"fcticket/internal/constants"
	"fcticket/internal/service"
	"fcticket/pkg/logger"
)

// MatchHandler 比赛处理器
type MatchHandler struct {
	matchService  *service.MatchService
	memberService *service.MemberService
	logger        *logger.Logger
}

// NewMatchHandler 创建比赛处理器实例
func NewMatchHandler(matchService *service.MatchService, memberService *service.MemberService, logger *logger.Logger) *MatchHandler {
	return &MatchHandler{
		matchService:  matchService,
		memberService: memberService,
		logger:        logger,
	}
}

// GetCurrent 获取当前比赛，需要携带有效的会员key
func (h *MatchHandler) GetCurrent(c *gin.Context) {
	key := c.Param("key")

	// 验证会员key
	valid, err := h.memberService.ValidateKey(c.Request.Context(), key)
	if err != nil {
		h.internalError(c, "校验会员key失败", err)
		return
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"message": constants.ErrInvalidMemberKey})
		return
	}

	currentMatch, err := h.matchService.GetCurrent(c.Request.Context())
	if err != nil {
		h.internalError(c, "获取当前比赛失败", err)
		return
	}
	if currentMatch == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": constants.ErrNoCurrentMatch})
		return
	}

	c.JSON(http.StatusOK, currentMatch)
}

// GetMatchList 获取全部比赛列表
func (h *MatchHandler) GetMatchList(c *gin.Context) {
	matchList, err := h.matchService.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "获取比赛列表失败", err)
		return
	}
	if matchList == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": constants.ErrMatchListEmpty})
		return
	}

	c.JSON(http.StatusOK, matchList)
}

// GetByID 获取指定ID的比赛
func (h *MatchHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": constants.ErrInvalidMatchID})
		return
	}

	matchData, err := h.matchService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, "获取比赛详情失败", err)
		return
	}
	if matchData == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": constants.ErrMatchNotFound})
		return
	}

	c.JSON(http.StatusOK, matchData)
}

// internalError 统一的500响应，详情只在development环境下返回
func (h *MatchHandler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, "error", err)
	body := gin.H{"message": constants.ErrInternalServer}
	if os.Getenv("ENVIRONMENT") == "development" {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
