package fcapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"fcticket/config"
	"fcticket/pkg/logger"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36 MicroMessenger/6.8.0(0x16080000) NetType/WIFI MiniProgramEnv/Mac MacWechat/WMPF MacWechat/3.8.10(0x13080a11) XWEB/1227"
	defaultReferer   = "https://servicewechat.com/wxffa42ecd6c0e693d/75/page-frame.html"
)

// OrderAPI 票务订单接口
type OrderAPI interface {
	ListMatchOrders(ctx context.Context, uid int64, authToken string, queryStatus int) ([]OrderSummary, error)
	GetMatchOrderInfo(ctx context.Context, uid int64, authToken string, orderID string) (*OrderDetail, error)
}

// Client 小程序票务API客户端
type Client struct {
	httpClient *resty.Client
	logger     *logger.Logger
}

// NewClient 创建票务API客户端
func NewClient(cfg config.FcAPIConfig, logger *logger.Logger) *Client {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	referer := cfg.Referer
	if referer == "" {
		referer = defaultReferer
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json;charset=utf-8").
		SetHeader("Accept", "*/*").
		SetHeader("xweb_xhr", "1").
		SetHeader("User-Agent", userAgent).
		SetHeader("Referer", referer).
		SetHeader("Accept-Language", "zh-CN,zh;q=0.9")

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// ListMatchOrders 查询指定状态的订单列表
// queryStatus 通过请求体的page.current字段透传给接口
func (c *Client) ListMatchOrders(ctx context.Context, uid int64, authToken string, queryStatus int) ([]OrderSummary, error) {
	body := map[string]any{
		"page": map[string]any{
			"current":     queryStatus,
			"currentPage": 1,
			"pageSize":    6,
			"status":      "loading",
		},
	}

	var response apiResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", authToken).
		SetQueryParam("lid2", strconv.FormatInt(uid, 10)).
		SetBody(body).
		SetResult(&response).
		Post("/MatchOrder/matchOrderList")
	if err != nil {
		return nil, fmt.Errorf("请求订单列表失败: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("订单列表接口返回异常状态: %d", resp.StatusCode())
	}

	// data不是数组时按空列表处理
	var orders []OrderSummary
	if len(response.Data) == 0 {
		return []OrderSummary{}, nil
	}
	if err := json.Unmarshal(response.Data, &orders); err != nil || orders == nil {
		c.logger.Warn("订单列表响应中没有有效的data数组", "uid", uid, "msg", response.Msg)
		return []OrderSummary{}, nil
	}

	for i := range orders {
		orders[i].normalize()
	}
	return orders, nil
}

// GetMatchOrderInfo 查询单个订单的详情
// 返回(nil, nil)表示接口明确告知订单不存在或不可见
func (c *Client) GetMatchOrderInfo(ctx context.Context, uid int64, authToken string, orderID string) (*OrderDetail, error) {
	var response apiResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", authToken).
		SetQueryParam("lid2", strconv.FormatInt(uid, 10)).
		SetBody(map[string]string{"id": orderID}).
		SetResult(&response).
		Post("/MatchOrder/getMatchOrderInfo")
	if err != nil {
		return nil, fmt.Errorf("请求订单详情失败: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("订单详情接口返回异常状态: %d", resp.StatusCode())
	}

	if response.Code != 1 || len(response.Data) == 0 {
		c.logger.Warn("订单详情接口未返回数据", "uid", uid, "order_id", orderID, "code", response.Code, "msg", response.Msg)
		return nil, nil
	}

	var detail OrderDetail
	if err := json.Unmarshal(response.Data, &detail); err != nil {
		return nil, fmt.Errorf("解析订单详情失败: %w", err)
	}
	return &detail, nil
}
