package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"fcticket/internal/model"
)

// MatchRepository 比赛仓库接口
type MatchRepository interface {
	GetCurrent(ctx context.Context) (*model.Match, error)
	List(ctx context.Context) ([]*model.Match, error)
	GetByID(ctx context.Context, id int64) (*model.Match, error)
}

// matchRepository 比赛仓库实现
type matchRepository struct {
	db *sqlx.DB
}

// NewMatchRepository 创建比赛仓库实例
func NewMatchRepository(db *sqlx.DB) MatchRepository {
	return &matchRepository{db: db}
}

// GetCurrent 获取当前比赛，取is_current中开赛日期最新的一场
func (r *matchRepository) GetCurrent(ctx context.Context) (*model.Match, error) {
	match := &model.Match{}
	query := `SELECT id, home_name, away_name, begin_date, date, is_current, match_id, round
		FROM rs_match WHERE is_current = true ORDER BY begin_date DESC LIMIT 1`
	err := r.db.GetContext(ctx, match, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return match, nil
}

// List 按开赛日期倒序获取全部比赛
func (r *matchRepository) List(ctx context.Context) ([]*model.Match, error) {
	matches := []*model.Match{}
	query := `SELECT id, home_name, away_name, begin_date, date, is_current, match_id, round
		FROM rs_match ORDER BY begin_date DESC`
	err := r.db.SelectContext(ctx, &matches, query)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// GetByID 根据ID获取比赛，不存在时返回nil
func (r *matchRepository) GetByID(ctx context.Context, id int64) (*model.Match, error) {
	match := &model.Match{}
	query := `SELECT id, home_name, away_name, begin_date, date, is_current, match_id, round
		FROM rs_match WHERE id = ?`
	err := r.db.GetContext(ctx, match, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return match, nil
}
