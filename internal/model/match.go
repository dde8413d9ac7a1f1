package model

import "time"

// Match 比赛场次模型
type Match struct {
	ID        int64     `db:"id" json:"id"`
	HomeName  string    `db:"home_name" json:"home_name"`
	AwayName  string    `db:"away_name" json:"away_name"`
	BeginDate time.Time `db:"begin_date" json:"begin_date"`
	Date      time.Time `db:"date" json:"date"`
	IsCurrent bool      `db:"is_current" json:"is_current"`
	MatchID   string    `db:"match_id" json:"match_id"` // 票务平台侧的比赛ID
	Round     int       `db:"round" json:"round"`
}
