package service

import (
	"context"

	"fcticket/internal/model"
	"fcticket/internal/repository"
	"fcticket/pkg/logger"
)

// MemberService 会员服务
type MemberService struct {
	memberRepo repository.MemberRepository
	logger     *logger.Logger
}

// NewMemberService 创建会员服务实例
func NewMemberService(memberRepo repository.MemberRepository, logger *logger.Logger) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		logger:     logger,
	}
}

// GetByKey 根据会员key查询会员，不存在时返回nil
func (s *MemberService) GetByKey(ctx context.Context, memberKey string) (*model.Member, error) {
	return s.memberRepo.GetByKey(ctx, memberKey)
}

// GetByID 根据ID查询会员，不存在时返回nil
func (s *MemberService) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	return s.memberRepo.GetByID(ctx, id)
}

// ValidateKey 校验会员key是否有效
func (s *MemberService) ValidateKey(ctx context.Context, memberKey string) (bool, error) {
	return s.memberRepo.ExistsByKey(ctx, memberKey)
}

// Bind 绑定会员联系方式
// 仅在会员手机号为空时写入，已绑定过的会员原样返回；key不存在时返回nil
func (s *MemberService) Bind(ctx context.Context, memberKey, phone, email, memberName string) (*model.Member, error) {
	member, err := s.memberRepo.GetByKey(ctx, memberKey)
	if err != nil {
		return nil, err
	}
	if member == nil {
		s.logger.Warn("绑定失败，会员key不存在", "member_key", memberKey)
		return nil, nil
	}

	if !member.Phone.Valid || member.Phone.String == "" {
		if err := s.memberRepo.BindContact(ctx, member.ID, phone, email, memberName); err != nil {
			return nil, err
		}
		s.logger.Info("会员绑定联系方式成功", "member_key", memberKey, "member_id", member.ID)
	}

	// 返回最新的会员记录
	return s.memberRepo.GetByKey(ctx, memberKey)
}
