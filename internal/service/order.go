package service

import (
	"context"

	"fcticket/internal/repository"
	"fcticket/pkg/fcapi"
	"fcticket/pkg/logger"
)

// OrderService 订单服务，代理票务平台的订单查询
type OrderService struct {
	orderAPI   fcapi.OrderAPI
	memberRepo repository.MemberRepository
	weChatRepo repository.WeChatRepository
	logger     *logger.Logger
}

// NewOrderService 创建订单服务实例
func NewOrderService(orderAPI fcapi.OrderAPI, memberRepo repository.MemberRepository, weChatRepo repository.WeChatRepository, logger *logger.Logger) *OrderService {
	return &OrderService{
		orderAPI:   orderAPI,
		memberRepo: memberRepo,
		weChatRepo: weChatRepo,
		logger:     logger,
	}
}

// ListOrders 按uid和token直接查询票务平台订单列表
func (s *OrderService) ListOrders(ctx context.Context, uid int64, authToken string, queryStatus int) ([]fcapi.OrderSummary, error) {
	return s.orderAPI.ListMatchOrders(ctx, uid, authToken, queryStatus)
}

// ListMemberOrders 按会员key查询其名下所有微信账号的订单
// 会员key不存在时返回nil；单个账号查询失败只记日志，不影响其他账号
func (s *OrderService) ListMemberOrders(ctx context.Context, memberKey string, queryStatus int) ([]fcapi.OrderSummary, error) {
	member, err := s.memberRepo.GetByKey(ctx, memberKey)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, nil
	}

	bindings, err := s.weChatRepo.ListByMemberID(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	orders := []fcapi.OrderSummary{}
	for _, binding := range bindings {
		list, err := s.orderAPI.ListMatchOrders(ctx, binding.UID, binding.AuthToken, queryStatus)
		if err != nil {
			s.logger.Error("查询微信账号订单失败", "uid", binding.UID, "member_key", memberKey, "error", err)
			continue
		}
		orders = append(orders, list...)
	}
	return orders, nil
}
