package worker

import (
	"bytes"
	"fmt"
	"html/template"

	"fcticket/pkg/fcapi"
)

// 提醒邮件正文模板，结构沿用旧版通知格式
var notificationTmpl = template.Must(template.New("order_notification").Parse(`
<h2>待支付订单提醒</h2>
<p>您有一个订单待支付，详情如下：</p>
<ul>
  <li><strong>订单号:</strong> {{.OrderID}}</li>
  <li><strong>订单金额:</strong> {{.Payable}}</li>
  <li><strong>订单状态码:</strong> {{.Status}}</li>
  <li><strong>创建时间:</strong> {{.CreateTime}}</li>
  <li><strong>支付截止时间:</strong> {{.OrderEndTime}}</li>
  {{if .Match}}<li><strong>比赛:</strong> {{.Match.Title}} ({{.Match.SDate}})</li>{{end}}
</ul>
<h3>账单明细:</h3>
<ul>
{{range .Bills}}  <li><strong>名称:</strong> {{.Name}} ({{.EstateName}}), <strong>区域ID:</strong> {{.Region}}, <strong>价格:</strong> {{.Price}}, <strong>持票人:</strong> {{.Realname}}</li>
{{else}}  <li>无详细账单项信息</li>
{{end}}</ul>
<p>请尽快完成支付。</p>
<p>此邮件为系统自动发送，请勿回复。</p>
`))

// buildNotification 根据订单详情渲染提醒邮件的主题和HTML正文
func buildNotification(detail *fcapi.OrderDetail) (subject, body string, err error) {
	subject = fmt.Sprintf("待支付订单提醒: %s", detail.OrderID)

	buf := new(bytes.Buffer)
	if err = notificationTmpl.Execute(buf, detail); err != nil {
		return "", "", fmt.Errorf("渲染邮件模板失败: %w", err)
	}
	return subject, buf.String(), nil
}
