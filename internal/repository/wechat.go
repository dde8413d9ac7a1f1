package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"fcticket/internal/model"
)

// WeChatRepository 微信绑定仓库接口
type WeChatRepository interface {
	Upsert(ctx context.Context, info *model.WeChatInfo) error
	GetByUID(ctx context.Context, uid int64) (*model.WeChatInfo, error)
	ListByMemberID(ctx context.Context, memberID int64) ([]*model.WeChatInfo, error)
}

// weChatRepository 微信绑定仓库实现
type weChatRepository struct {
	db *sqlx.DB
}

// NewWeChatRepository 创建微信绑定仓库实例
func NewWeChatRepository(db *sqlx.DB) WeChatRepository {
	return &weChatRepository{db: db}
}

// Upsert 按uid插入或更新绑定，uid冲突时覆盖token、姓名和归属会员
func (r *weChatRepository) Upsert(ctx context.Context, info *model.WeChatInfo) error {
	query := `INSERT INTO rs_wechat_info (uid, auth_token, member_id, realname, create_at, update_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			auth_token = VALUES(auth_token),
			realname = VALUES(realname),
			member_id = VALUES(member_id),
			update_at = NOW()`
	_, err := r.db.ExecContext(ctx, query, info.UID, info.AuthToken, info.MemberID, info.Realname)
	return err
}

// GetByUID 根据uid获取绑定信息，不存在时返回nil
func (r *weChatRepository) GetByUID(ctx context.Context, uid int64) (*model.WeChatInfo, error) {
	info := &model.WeChatInfo{}
	query := `SELECT uid, auth_token, member_id, realname, create_at, update_at FROM rs_wechat_info WHERE uid = ?`
	err := r.db.GetContext(ctx, info, query, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

// ListByMemberID 获取会员名下的全部微信绑定
func (r *weChatRepository) ListByMemberID(ctx context.Context, memberID int64) ([]*model.WeChatInfo, error) {
	infos := []*model.WeChatInfo{}
	query := `SELECT uid, auth_token, member_id, realname, create_at, update_at FROM rs_wechat_info WHERE member_id = ?`
	err := r.db.SelectContext(ctx, &infos, query, memberID)
	if err != nil {
		return nil, err
	}
	return infos, nil
}
