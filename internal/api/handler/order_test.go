package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fcticket/internal/constants"
	"fcticket/internal/model"
	"fcticket/internal/service"
	"fcticket/pkg/fcapi"
	"fcticket/pkg/logger"
)

// stubOrderAPI 票务接口替身
type stubOrderAPI struct {
	orders   map[int64][]fcapi.OrderSummary
	listErrs map[int64]error
}

func (a *stubOrderAPI) ListMatchOrders(ctx context.Context, uid int64, authToken string, queryStatus int) ([]fcapi.OrderSummary, error) {
	if err := a.listErrs[uid]; err != nil {
		return nil, err
	}
	if orders, ok := a.orders[uid]; ok {
		return orders, nil
	}
	return []fcapi.OrderSummary{}, nil
}

func (a *stubOrderAPI) GetMatchOrderInfo(ctx context.Context, uid int64, authToken string, orderID string) (*fcapi.OrderDetail, error) {
	return nil, nil
}

// stubMailer 记录测试邮件发送
type stubMailer struct {
	sent []string
	err  error
}

func (m *stubMailer) SendOrderNotification(to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func newOrderTestRouter(orderAPI *stubOrderAPI, memberRepo *stubMemberRepo, weChatRepo *stubWeChatRepo, mailer *stubMailer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewLogger("error")

	orderService := service.NewOrderService(orderAPI, memberRepo, weChatRepo, log)
	h := NewOrderHandler(orderService, mailer, log)

	router := gin.New()
	router.POST("/order/orderList", h.ListOrders)
	router.GET("/order/orderList/:member_key/:status", h.ListMemberOrders)
	router.GET("/order/sendEmail", h.SendTestEmail)
	return router
}

func TestListOrders_Success(t *testing.T) {
	orderAPI := &stubOrderAPI{orders: map[int64][]fcapi.OrderSummary{
		9527: {
			{ID: "101", OrderID: "FC101", Status: "5"},
			{ID: "102", OrderID: "FC102", Status: "4"},
		},
	}}
	router := newOrderTestRouter(orderAPI,
		&stubMemberRepo{members: map[string]*model.Member{}},
		&stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}},
		&stubMailer{})

	w := postJSON(t, router, "/order/orderList", gin.H{
		"orderStatus": 2,
		"userId":      9527,
		"token":       "token-abc",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var orders []fcapi.OrderSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, fcapi.FlexString("FC101"), orders[0].OrderID)
}

func TestListOrders_RemoteFailure(t *testing.T) {
	orderAPI := &stubOrderAPI{listErrs: map[int64]error{9527: errors.New("连接超时")}}
	router := newOrderTestRouter(orderAPI,
		&stubMemberRepo{members: map[string]*model.Member{}},
		&stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}},
		&stubMailer{})

	w := postJSON(t, router, "/order/orderList", gin.H{
		"orderStatus": 2,
		"userId":      9527,
		"token":       "token-abc",
	})

	// 旧接口契约：远端失败返回200和空列表消息
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"msg":"`+constants.ErrOrderListEmpty+`"}`, w.Body.String())
}

func TestListMemberOrders_MergesBindings(t *testing.T) {
	memberRepo := &stubMemberRepo{members: map[string]*model.Member{
		"key-001": {ID: 1, MemberKey: "key-001", MemberStatus: "ACTIVE"},
	}}
	weChatRepo := &stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{
		9527: {UID: 9527, AuthToken: "t1", MemberID: 1},
		9528: {UID: 9528, AuthToken: "t2", MemberID: 1},
	}}
	orderAPI := &stubOrderAPI{
		orders: map[int64][]fcapi.OrderSummary{
			9527: {{ID: "101", OrderID: "FC101", Status: "5"}},
			9528: {{ID: "201", OrderID: "FC201", Status: "5"}},
		},
	}
	router := newOrderTestRouter(orderAPI, memberRepo, weChatRepo, &stubMailer{})

	req := httptest.NewRequest(http.MethodGet, "/order/orderList/key-001/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var orders []fcapi.OrderSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)
}

func TestListMemberOrders_PartialFailure(t *testing.T) {
	memberRepo := &stubMemberRepo{members: map[string]*model.Member{
		"key-001": {ID: 1, MemberKey: "key-001", MemberStatus: "ACTIVE"},
	}}
	weChatRepo := &stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{
		9527: {UID: 9527, AuthToken: "t1", MemberID: 1},
		9528: {UID: 9528, AuthToken: "t2", MemberID: 1},
	}}
	orderAPI := &stubOrderAPI{
		orders:   map[int64][]fcapi.OrderSummary{9528: {{ID: "201", OrderID: "FC201", Status: "5"}}},
		listErrs: map[int64]error{9527: errors.New("认证失败")},
	}
	router := newOrderTestRouter(orderAPI, memberRepo, weChatRepo, &stubMailer{})

	req := httptest.NewRequest(http.MethodGet, "/order/orderList/key-001/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// 单个账号失败不影响整体结果
	assert.Equal(t, http.StatusOK, w.Code)

	var orders []fcapi.OrderSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, fcapi.FlexString("FC201"), orders[0].OrderID)
}

func TestListMemberOrders_UnknownKey(t *testing.T) {
	router := newOrderTestRouter(&stubOrderAPI{},
		&stubMemberRepo{members: map[string]*model.Member{}},
		&stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}},
		&stubMailer{})

	req := httptest.NewRequest(http.MethodGet, "/order/orderList/unknown/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListMemberOrders_InvalidStatus(t *testing.T) {
	router := newOrderTestRouter(&stubOrderAPI{},
		&stubMemberRepo{members: map[string]*model.Member{}},
		&stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}},
		&stubMailer{})

	req := httptest.NewRequest(http.MethodGet, "/order/orderList/key-001/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendTestEmail(t *testing.T) {
	mailer := &stubMailer{}
	router := newOrderTestRouter(&stubOrderAPI{},
		&stubMemberRepo{members: map[string]*model.Member{}},
		&stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}},
		mailer)

	req := httptest.NewRequest(http.MethodGet, "/order/sendEmail?to=ops@example.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ops@example.com"}, mailer.sent)
}

func TestSendTestEmail_MissingRecipient(t *testing.T) {
	router := newOrderTestRouter(&stubOrderAPI{},
		&stubMemberRepo{members: map[string]*model.Member{}},
		&stubWeChatRepo{byUID: map[int64]*model.WeChatInfo{}},
		&stubMailer{})

	req := httptest.NewRequest(http.MethodGet, "/order/sendEmail", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
