package model

import (
	"database/sql"
	"time"
)

// Member 会员模型，由外部系统预先录入
type Member struct {
	ID           int64          `db:"id" json:"id"`
	MemberKey    string         `db:"member_key" json:"member_key"`
	MemberStatus string         `db:"member_status" json:"member_status"` // ACTIVE可用
	MemberName   sql.NullString `db:"member_name" json:"member_name"`
	Description  sql.NullString `db:"description" json:"description,omitempty"`
	Phone        sql.NullString `db:"phone" json:"phone"`
	Email        sql.NullString `db:"email" json:"email"`
	MacAddress   sql.NullString `db:"mac_address" json:"mac_address,omitempty"`
	CreateTime   time.Time      `db:"create_time" json:"create_time"`
	EmailCount   int            `db:"email_count" json:"email_count"` // 剩余邮件提醒次数
}

// WeChatInfo 微信绑定信息，一个会员可绑定多个微信账号
type WeChatInfo struct {
	UID       int64     `db:"uid" json:"uid"` // 小程序侧用户ID，全局唯一
	AuthToken string    `db:"auth_token" json:"auth_token"`
	MemberID  int64     `db:"member_id" json:"member_id"`
	Realname  string    `db:"realname" json:"realname"`
	CreateAt  time.Time `db:"create_at" json:"create_at"`
	UpdateAt  time.Time `db:"update_at" json:"update_at"`
}
