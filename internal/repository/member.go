package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"fcticket/internal/model"
)

// MemberRepository 会员仓库接口
type MemberRepository interface {
	GetByKey(ctx context.Context, memberKey string) (*model.Member, error)
	GetByID(ctx context.Context, id int64) (*model.Member, error)
	ExistsByKey(ctx context.Context, memberKey string) (bool, error)
	BindContact(ctx context.Context, id int64, phone, email, memberName string) error
	UpdateEmailCount(ctx context.Context, id int64, emailCount int) error
	ListEligible(ctx context.Context) ([]*model.Member, error)
}

// TransactionalMemberRepository 扩展了MemberRepository以支持事务
type TransactionalMemberRepository interface {
	MemberRepository
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	WithTx(tx *sqlx.Tx) MemberRepository
}

// memberRepository 会员仓库实现
type memberRepository struct {
	db *sqlx.DB // 直接数据库连接
	tx *sqlx.Tx // 可选的事务连接
}

// NewMemberRepository 创建会员仓库实例
func NewMemberRepository(db *sqlx.DB) TransactionalMemberRepository {
	return &memberRepository{db: db}
}

// BeginTx 开始一个新的事务
func (r *memberRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// WithTx 返回一个在事务上下文中操作的仓库实例
func (r *memberRepository) WithTx(tx *sqlx.Tx) MemberRepository {
	return &memberRepository{db: r.db, tx: tx}
}

// GetByKey 根据会员key获取会员，不存在时返回nil
func (r *memberRepository) GetByKey(ctx context.Context, memberKey string) (*model.Member, error) {
	member := &model.Member{}
	query := `SELECT id, member_key, member_status, member_name, description, phone, email, mac_address, create_time, email_count
		FROM rs_member_info WHERE member_key = ?`
	var err error
	if r.tx != nil {
		err = r.tx.GetContext(ctx, member, query, memberKey)
	} else {
		err = r.db.GetContext(ctx, member, query, memberKey)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

// GetByID 根据ID获取会员，不存在时返回nil
func (r *memberRepository) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	member := &model.Member{}
	query := `SELECT id, member_key, member_status, member_name, description, phone, email, mac_address, create_time, email_count
		FROM rs_member_info WHERE id = ?`
	var err error
	if r.tx != nil {
		err = r.tx.GetContext(ctx, member, query, id)
	} else {
		err = r.db.GetContext(ctx, member, query, id)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

// ExistsByKey 校验会员key是否存在
func (r *memberRepository) ExistsByKey(ctx context.Context, memberKey string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM rs_member_info WHERE member_key = ?`
	var err error
	if r.tx != nil {
		err = r.tx.GetContext(ctx, &count, query, memberKey)
	} else {
		err = r.db.GetContext(ctx, &count, query, memberKey)
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// BindContact 绑定联系方式并激活会员
func (r *memberRepository) BindContact(ctx context.Context, id int64, phone, email, memberName string) error {
	query := `UPDATE rs_member_info SET phone = ?, email = ?, member_status = 'ACTIVE', member_name = ? WHERE id = ?`
	var err error
	if r.tx != nil {
		_, err = r.tx.ExecContext(ctx, query, phone, email, memberName, id)
	} else {
		_, err = r.db.ExecContext(ctx, query, phone, email, memberName, id)
	}
	return err
}

// UpdateEmailCount 更新剩余邮件提醒次数
func (r *memberRepository) UpdateEmailCount(ctx context.Context, id int64, emailCount int) error {
	query := `UPDATE rs_member_info SET email_count = ? WHERE id = ?`
	var err error
	if r.tx != nil {
		_, err = r.tx.ExecContext(ctx, query, emailCount, id)
	} else {
		_, err = r.db.ExecContext(ctx, query, emailCount, id)
	}
	return err
}

// ListEligible 查询可接收邮件提醒的会员：已填邮箱、状态ACTIVE且剩余次数大于0
func (r *memberRepository) ListEligible(ctx context.Context) ([]*model.Member, error) {
	members := []*model.Member{}
	query := `SELECT id, member_key, member_status, member_name, description, phone, email, mac_address, create_time, email_count
		FROM rs_member_info
		WHERE email IS NOT NULL AND email != '' AND member_status = 'ACTIVE' AND email_count > 0`
	var err error
	if r.tx != nil {
		err = r.tx.SelectContext(ctx, &members, query)
	} else {
		err = r.db.SelectContext(ctx, &members, query)
	}
	if err != nil {
		return nil, err
	}
	return members, nil
}
