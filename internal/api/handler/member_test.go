package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fcticket/internal/constants"
	"fcticket/internal/model"
	"fcticket/internal/service"
	"fcticket/pkg/logger"
)

// stubMemberRepo 内存会员仓库，记录联系方式绑定调用
type stubMemberRepo struct {
	members   map[string]*model.Member
	bindCalls int
}

func (r *stubMemberRepo) GetByKey(ctx context.Context, memberKey string) (*model.Member, error) {
	m, ok := r.members[memberKey]
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (r *stubMemberRepo) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	for _, m := range r.members {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *stubMemberRepo) ExistsByKey(ctx context.Context, memberKey string) (bool, error) {
	_, ok := r.members[memberKey]
	return ok, nil
}

func (r *stubMemberRepo) BindContact(ctx context.Context, id int64, phone, email, memberName string) error {
	r.bindCalls++
	for _, m := range r.members {
		if m.ID == id {
			m.Phone = sql.NullString{String: phone, Valid: true}
			m.Email = sql.NullString{String: email, Valid: true}
			m.MemberName = sql.NullString{String: memberName, Valid: true}
			m.MemberStatus = "ACTIVE"
		}
	}
	return nil
}

func (r *stubMemberRepo) UpdateEmailCount(ctx context.Context, id int64, emailCount int) error {
	return nil
}

func (r *stubMemberRepo) ListEligible(ctx context.Context) ([]*model.Member, error) {
	return nil, nil
}

// stubWeChatRepo 内存微信绑定仓库
type stubWeChatRepo struct {
	byUID map[int64]*model.WeChatInfo
}

func (r *stubWeChatRepo) Upsert(ctx context.Context, info *model.WeChatInfo) error {
	saved := *info
	saved.CreateAt = time.Now()
	saved.UpdateAt = time.Now()
	r.byUID[info.UID] = &saved
	return nil
}

func (r *stubWeChatRepo) GetByUID(ctx context.Context, uid int64) (*model.WeChatInfo, error) {
	return r.byUID[uid], nil
}

func (r *stubWeChatRepo) ListByMemberID(ctx context.Context, memberID int64) ([]*model.WeChatInfo, error) {
	var result []*model.WeChatInfo
	for _, info := range r.byUID {
		if info.MemberID == memberID {
			result = append(result, info)
		}
	}
	return result, nil
}

func newMemberTestRouter(memberRepo *stubMemberRepo, weChatRepo *stubWeChatRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewLogger("error")

	memberService := service.NewMemberService(memberRepo, log)
	weChatService := service.NewWeChatService(weChatRepo, memberRepo, log)
	h := NewMemberHandler(memberService, weChatService, log)

	router := gin.New()
	router.POST("/member/bind", h.Bind)
	router.POST("/member/info", h.SaveWeChat)
	router.GET("/member/info/:member_key", h.GetInfo)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMemberBind_Success(t *testing.T) {
	memberRepo := &stubMemberRepo{members: map[string]*model.Member{
		"key-001": {ID: 1, MemberKey: "key-001", MemberStatus: "INACTIVE", EmailCount: 3},
	}}
	router := newMemberTestRouter(memberRepo, &stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}})

	w := postJSON(t, router, "/member/bind", gin.H{
		"member_key":  "key-001",
		"phone":       "13900001111",
		"email":       "fan@example.com",
		"member_name": "王五",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, memberRepo.bindCalls)

	var resp model.Member
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "key-001", resp.MemberKey)
	assert.Equal(t, "ACTIVE", resp.MemberStatus)
}

func TestMemberBind_UnknownKey(t *testing.T) {
	memberRepo := &stubMemberRepo{members: map[string]*model.Member{}}
	router := newMemberTestRouter(memberRepo, &stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}})

	w := postJSON(t, router, "/member/bind", gin.H{
		"member_key": "no-such-key",
		"phone":      "13900001111",
	})

	// 旧接口契约：key不存在也返回200，失败原因放在msg里
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"msg":"`+constants.ErrBindFailed+`"}`, w.Body.String())
	assert.Equal(t, 0, memberRepo.bindCalls)
}

func TestMemberBind_AlreadyBoundKeepsContact(t *testing.T) {
	memberRepo := &stubMemberRepo{members: map[string]*model.Member{
		"key-001": {
			ID:           1,
			MemberKey:    "key-001",
			MemberStatus: "ACTIVE",
			Phone:        sql.NullString{String: "13800000000", Valid: true},
			Email:        sql.NullString{String: "old@example.com", Valid: true},
		},
	}}
	router := newMemberTestRouter(memberRepo, &stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}})

	w := postJSON(t, router, "/member/bind", gin.H{
		"member_key": "key-001",
		"phone":      "13900001111",
		"email":      "new@example.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, memberRepo.bindCalls)

	var resp model.Member
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "13800000000", resp.Phone.String)
}

func TestMemberBind_InvalidBody(t *testing.T) {
	router := newMemberTestRouter(
		&stubMemberRepo{members: map[string]*model.Member{}},
		&stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}},
	)

	req := httptest.NewRequest(http.MethodPost, "/member/bind", bytes.NewReader([]byte("not-json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveWeChat_Success(t *testing.T) {
	memberRepo := &stubMemberRepo{members: map[string]*model.Member{
		"key-001": {ID: 1, MemberKey: "key-001", MemberStatus: "ACTIVE"},
	}}
	weChatRepo := &stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}}
	router := newMemberTestRouter(memberRepo, weChatRepo)

	w := postJSON(t, router, "/member/info", gin.H{
		"uid":        9527,
		"auth_token": "token-abc",
		"member_id":  1,
		"realname":   "张三",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp model.WeChatInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(9527), resp.UID)
	assert.Equal(t, "token-abc", resp.AuthToken)
}

func TestSaveWeChat_InvalidMemberID(t *testing.T) {
	router := newMemberTestRouter(
		&stubMemberRepo{members: map[string]*model.Member{}},
		&stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}},
	)

	w := postJSON(t, router, "/member/info", gin.H{
		"uid":        9527,
		"auth_token": "token-abc",
		"member_id":  999,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"msg":"`+constants.ErrSaveWeChatFailed+`"}`, w.Body.String())
}

func TestSaveWeChat_UpdateExistingBinding(t *testing.T) {
	memberRepo := &stubMemberRepo{members: map[string]*model.Member{
		"key-001": {ID: 1, MemberKey: "key-001", MemberStatus: "ACTIVE"},
	}}
	weChatRepo := &stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{
		9527: {UID: 9527, AuthToken: "token-old", MemberID: 1, Realname: "张三"},
	}}
	router := newMemberTestRouter(memberRepo, weChatRepo)

	w := postJSON(t, router, "/member/info", gin.H{
		"uid":        9527,
		"auth_token": "token-new",
		"member_id":  1,
		"realname":   "张三",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "token-new", weChatRepo.byUID[9527].AuthToken)
}

func TestGetInfo_Found(t *testing.T) {
	memberRepo := &stubMemberRepo{members: map[string]*model.Member{
		"key-001": {
			ID:         1,
			MemberKey:  "key-001",
			MemberName: sql.NullString{String: "王五", Valid: true},
			Email:      sql.NullString{String: "fan@example.com", Valid: true},
			EmailCount: 3,
		},
	}}
	router := newMemberTestRouter(memberRepo, &stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}})

	req := httptest.NewRequest(http.MethodGet, "/member/info/key-001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "key-001", resp["member_key"])
	assert.Equal(t, "fan@example.com", resp["email"])
	assert.Equal(t, float64(3), resp["email_count"])
}

func TestGetInfo_NotFound(t *testing.T) {
	router := newMemberTestRouter(
		&stubMemberRepo{members: map[string]*model.Member{}},
		&stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}},
	)

	req := httptest.NewRequest(http.MethodGet, "/member/info/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
