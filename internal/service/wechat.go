package service

import (
	"context"

	"fcticket/internal/model"
	"fcticket/internal/repository"
	"fcticket/pkg/logger"
)

// WeChatService 微信绑定服务
type WeChatService struct {
	weChatRepo repository.WeChatRepository
	memberRepo repository.MemberRepository
	logger     *logger.Logger
}

// NewWeChatService 创建微信绑定服务实例
func NewWeChatService(weChatRepo repository.WeChatRepository, memberRepo repository.MemberRepository, logger *logger.Logger) *WeChatService {
	return &WeChatService{
		weChatRepo: weChatRepo,
		memberRepo: memberRepo,
		logger:     logger,
	}
}

// SaveBinding 录入或更新微信绑定
// member_id无效时返回nil；uid已绑定时更新token、姓名和归属会员
func (s *WeChatService) SaveBinding(ctx context.Context, uid int64, authToken string, memberID int64, realname string) (*model.WeChatInfo, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		s.logger.Warn("录入微信绑定失败，member_id无效", "uid", uid, "member_id", memberID)
		return nil, nil
	}

	existing, err := s.weChatRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info("已经绑定过了，准备更新用户", "uid", uid, "realname", realname)
	}

	info := &model.WeChatInfo{
		UID:       uid,
		AuthToken: authToken,
		MemberID:  memberID,
		Realname:  realname,
	}
	if err := s.weChatRepo.Upsert(ctx, info); err != nil {
		return nil, err
	}

	saved, err := s.weChatRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	s.logger.Info("保存微信绑定成功", "uid", uid, "realname", realname)
	return saved, nil
}

// ListByMember 获取会员名下的全部微信绑定
func (s *WeChatService) ListByMember(ctx context.Context, memberID int64) ([]*model.WeChatInfo, error) {
	return s.weChatRepo.ListByMemberID(ctx, memberID)
}
