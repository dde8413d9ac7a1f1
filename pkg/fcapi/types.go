package fcapi

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// 订单查询状态，透传给票务接口
const (
	QueryPendingPayment = 2 // 待付款订单
	QueryCompleted      = 4 // 已完成订单
	QueryInvalid        = 1 // 已失效订单
	QueryInvalid2       = 3
)

// 订单状态码
const (
	StatusPaymentTimeout = 1 // 支付超时
	StatusCancelled      = 4 // 已取消
	StatusPendingPayment = 5 // 待付款
	StatusCompleted      = 8 // 已完成
)

// FlexString 兼容字符串和数字两种写法的字段
type FlexString string

// UnmarshalJSON 接受字符串、数字或null
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// FlexInt 兼容数字和数字字符串的整型字段，解析失败按0处理
type FlexInt int

// UnmarshalJSON 接受数字、数字字符串或null
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	s := string(data)
	if len(data) == 0 || s == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(v)
	return nil
}

// FlexFloat 兼容数字和数字字符串的浮点字段，解析失败按0处理
type FlexFloat float64

// UnmarshalJSON 接受数字、数字字符串或null
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	s := string(data)
	if len(data) == 0 || s == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// OrderSummary 订单列表项
type OrderSummary struct {
	OrderID    FlexString `json:"order_id"`
	ID         FlexString `json:"id"`
	MatchID    FlexString `json:"match_id"`
	CountBill  FlexInt    `json:"count_bill"`
	Payable    FlexFloat  `json:"payable"`
	Status     FlexString `json:"status"`
	CreateTime FlexString `json:"create_time"`
}

// normalize 缺失的字符串字段补"N/A"，数字字段已默认0
func (o *OrderSummary) normalize() {
	if o.OrderID == "" {
		o.OrderID = "N/A"
	}
	if o.ID == "" {
		o.ID = "N/A"
	}
	if o.MatchID == "" {
		o.MatchID = "N/A"
	}
	if o.Status == "" {
		o.Status = "N/A"
	}
	if o.CreateTime == "" {
		o.CreateTime = "N/A"
	}
}

// BillItem 订单账单明细项
type BillItem struct {
	ID         FlexString `json:"id"`
	No         string     `json:"no"`       // 账单编号
	Price      FlexString `json:"price"`    // 单价
	Status     FlexInt    `json:"status"`   // 账单项状态
	Region     FlexInt    `json:"region"`   // 区域ID
	Estate     FlexInt    `json:"estate"`   // 票档ID
	Row        FlexInt    `json:"row"`      // 行号
	Seat       FlexInt    `json:"seat"`     // 座位号
	Realname   string     `json:"realname"` // 持票人
	Phone      string     `json:"phone"`
	RealCardID string     `json:"real_card_id"`
	EstateName string     `json:"estateName"` // 票档名称
	Name       string     `json:"name"`       // 区域名称
}

// OrderMatch 订单关联的比赛信息
type OrderMatch struct {
	ID          FlexInt `json:"id"`
	Team1Name   string  `json:"team1_name"`
	Team2Name   string  `json:"team2_name"`
	TimeS       int64   `json:"time_s"` // 开赛时间戳
	AddressName string  `json:"address_name"`
	Title       string  `json:"title"`
	Address     string  `json:"address"`
	SDate       string  `json:"s_date"` // 格式化后的比赛日期
}

// OrderDetail 订单详情
type OrderDetail struct {
	ID           FlexString  `json:"id"`
	OrderID      FlexString  `json:"order_id"`
	CreateTime   string      `json:"create_time"`
	OrderEndTime string      `json:"order_end_time"` // 支付截止时间
	Payable      FlexString  `json:"payable"`
	Payed        FlexString  `json:"payed"`
	CountBill    FlexInt     `json:"count_bill"`
	Status       FlexInt     `json:"status"`
	Refund       FlexString  `json:"refund"`
	PayType      FlexString  `json:"pay_type"`
	MatchID      FlexString  `json:"match_id"`
	PayTime      FlexString  `json:"pay_time"`
	UseShare     bool        `json:"useShare"`
	Match        *OrderMatch `json:"match"`
	Bills        []BillItem  `json:"bill"`
}

// apiResponse 票务接口统一响应壳，code==1表示成功
type apiResponse struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
	Msg  string          `json:"msg"`
}
