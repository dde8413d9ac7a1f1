package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"k8s.io/apimachinery/pkg/util/rand"

	"fcticket/config"
	"fcticket/internal/model"
	"fcticket/internal/repository"
	"fcticket/pkg/email"
	"fcticket/pkg/fcapi"
	"fcticket/pkg/logger"
)

// Reconciler 待支付订单巡检器
// 周期性扫描符合条件的会员，查询其微信账号的待付款订单并发送邮件提醒
type Reconciler struct {
	memberRepo  repository.MemberRepository
	weChatRepo  repository.WeChatRepository
	orderAPI    fcapi.OrderAPI
	mailer      email.Sender
	redisClient *redis.Client
	locker      *redislock.Client
	logger      *logger.Logger
	cfg         config.MonitorConfig
	cron        *cron.Cron
	job         cron.Job
}

// NewReconciler 创建巡检器实例
func NewReconciler(
	memberRepo repository.MemberRepository,
	weChatRepo repository.WeChatRepository,
	orderAPI fcapi.OrderAPI,
	mailer email.Sender,
	redisClient *redis.Client,
	cfg config.MonitorConfig,
	logger *logger.Logger,
) *Reconciler {
	r := &Reconciler{
		memberRepo:  memberRepo,
		weChatRepo:  weChatRepo,
		orderAPI:    orderAPI,
		mailer:      mailer,
		redisClient: redisClient,
		locker:      redislock.New(redisClient),
		logger:      logger,
		cfg:         cfg,
		cron:        cron.New(),
	}
	// 上一轮未结束时跳过本轮触发，巡检不会重入
	r.job = cron.NewChain(cron.SkipIfStillRunning(&cronLogger{logger})).Then(cron.FuncJob(r.Reconcile))
	return r
}

// Start 启动巡检调度，进程启动时立即巡检一次
func (r *Reconciler) Start() {
	go r.job.Run()

	interval := time.Duration(r.cfg.Interval) * time.Second
	r.cron.Schedule(cron.Every(interval), r.job)
	r.cron.Start()
	r.logger.Info("待支付订单巡检调度器启动", "interval", interval.String())
}

// Stop 停止巡检调度，等待正在运行的巡检结束
func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("待支付订单巡检调度器停止")
}

// Reconcile 执行一轮完整巡检
func (r *Reconciler) Reconcile() {
	runID := rand.String(8)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.RunTimeout)*time.Second)
	defer cancel()

	r.logger.Info("开始待支付订单巡检", "run_id", runID)

	members, err := r.memberRepo.ListEligible(ctx)
	if err != nil {
		r.logger.Error("获取待巡检会员列表失败", "run_id", runID, "error", err)
		return
	}
	if len(members) == 0 {
		r.logger.Info("没有找到符合发送邮件提醒要求的会员", "run_id", runID)
		return
	}
	r.logger.Info("找到符合发送邮件提醒要求的会员", "run_id", runID, "count", len(members))

	// 按微信绑定展开巡检单元，各单元并发执行且互不影响
	var wg sync.WaitGroup
	for _, member := range members {
		bindings, err := r.weChatRepo.ListByMemberID(ctx, member.ID)
		if err != nil {
			r.logger.Error("获取会员微信绑定失败", "run_id", runID, "member_id", member.ID, "error", err)
			continue
		}
		if len(bindings) == 0 {
			r.logger.Debug("会员没有绑定微信账号", "run_id", runID, "member_id", member.ID)
			continue
		}
		for _, binding := range bindings {
			wg.Add(1)
			go func(m *model.Member, b *model.WeChatInfo) {
				defer wg.Done()
				r.checkBinding(ctx, runID, m, b)
			}(member, binding)
		}
	}
	wg.Wait()

	r.logger.Info("待支付订单巡检完成", "run_id", runID)
}

// checkBinding 巡检单个微信账号的待付款订单
func (r *Reconciler) checkBinding(ctx context.Context, runID string, member *model.Member, binding *model.WeChatInfo) {
	if binding.UID == 0 || binding.AuthToken == "" || !member.Email.Valid || member.Email.String == "" {
		r.logger.Warn("绑定信息不完整，跳过巡检", "run_id", runID, "uid", binding.UID, "member_id", member.ID)
		return
	}

	orders, err := r.orderAPI.ListMatchOrders(ctx, binding.UID, binding.AuthToken, fcapi.QueryPendingPayment)
	if err != nil {
		// 远端失败与无订单是两回事，这里只跳过该账号
		r.logger.Error("查询待支付订单列表失败", "run_id", runID, "uid", binding.UID, "error", err)
		return
	}
	if len(orders) == 0 {
		r.logger.Debug("该账号没有待支付订单", "run_id", runID, "uid", binding.UID)
		return
	}
	r.logger.Info("发现待支付订单", "run_id", runID, "uid", binding.UID, "count", len(orders))

	var wg sync.WaitGroup
	for _, order := range orders {
		wg.Add(1)
		go func(o fcapi.OrderSummary) {
			defer wg.Done()
			r.notifyOrder(ctx, runID, member, binding, o)
		}(order)
	}
	wg.Wait()
}

// notifyOrder 获取单个订单详情并发送提醒邮件
func (r *Reconciler) notifyOrder(ctx context.Context, runID string, member *model.Member, binding *model.WeChatInfo, order fcapi.OrderSummary) {
	detail, err := r.orderAPI.GetMatchOrderInfo(ctx, binding.UID, binding.AuthToken, string(order.ID))
	if err != nil {
		r.logger.Error("获取订单详情失败", "run_id", runID, "uid", binding.UID, "order_id", string(order.ID), "error", err)
		return
	}
	if detail == nil {
		r.logger.Warn("订单详情为空", "run_id", runID, "uid", binding.UID, "order_id", string(order.ID))
		return
	}

	// 同一订单在去重窗口内只提醒一次
	dedupKey := fmt.Sprintf("notify:order:%d:%s", binding.UID, detail.OrderID)
	dedupTTL := time.Duration(r.cfg.DedupTTL) * time.Hour
	acquired, err := r.redisClient.SetNX(ctx, dedupKey, runID, dedupTTL).Result()
	if err != nil {
		r.logger.Error("写入提醒去重标记失败", "run_id", runID, "order_id", string(detail.OrderID), "error", err)
	} else if !acquired {
		r.logger.Debug("该订单近期已提醒过", "run_id", runID, "uid", binding.UID, "order_id", string(detail.OrderID))
		return
	}

	subject, body, err := buildNotification(detail)
	if err != nil {
		r.logger.Error("渲染提醒邮件失败", "run_id", runID, "order_id", string(detail.OrderID), "error", err)
		r.releaseDedup(ctx, dedupKey)
		return
	}

	// 配额检查和扣减在每会员锁内串行，避免同一会员的多个账号并发读到过期配额
	lockKey := fmt.Sprintf("lock:member:%d", member.ID)
	lock, err := r.locker.Obtain(ctx, lockKey, 10*time.Second, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 100),
	})
	if err != nil {
		r.logger.Error("获取会员配额锁失败", "run_id", runID, "member_id", member.ID, "error", err)
		r.releaseDedup(ctx, dedupKey)
		return
	}
	defer lock.Release(ctx)

	// 发送前重新读取配额
	fresh, err := r.memberRepo.GetByID(ctx, member.ID)
	if err != nil || fresh == nil {
		r.logger.Error("重新读取会员信息失败", "run_id", runID, "member_id", member.ID, "error", err)
		r.releaseDedup(ctx, dedupKey)
		return
	}
	if fresh.EmailCount <= 0 {
		r.logger.Info("会员邮件提醒次数已用完", "run_id", runID, "member_id", member.ID, "email_count", fresh.EmailCount)
		r.releaseDedup(ctx, dedupKey)
		return
	}

	if err := r.mailer.SendOrderNotification(fresh.Email.String, subject, body); err != nil {
		// 通知是尽力而为的，失败只记日志，下一轮可以重试
		r.logger.Error("发送提醒邮件失败", "run_id", runID, "order_id", string(detail.OrderID), "to", fresh.Email.String, "error", err)
		r.releaseDedup(ctx, dedupKey)
		return
	}

	if err := r.memberRepo.UpdateEmailCount(ctx, member.ID, fresh.EmailCount-1); err != nil {
		r.logger.Error("扣减邮件提醒次数失败", "run_id", runID, "member_id", member.ID, "error", err)
		return
	}
	r.logger.Info("发送邮件成功，剩余次数减一",
		"run_id", runID,
		"member_id", member.ID,
		"order_id", string(detail.OrderID),
		"to", fresh.Email.String,
		"remaining", fresh.EmailCount-1,
	)
}

// releaseDedup 本轮处理失败时清除去重标记，让后续巡检可以重试
func (r *Reconciler) releaseDedup(ctx context.Context, key string) {
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("清除提醒去重标记失败", "key", key, "error", err)
	}
}

// cronLogger 适配cron.Logger到内部日志库
type cronLogger struct {
	l *logger.Logger
}

func (c *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Info(msg, keysAndValues...)
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := append([]interface{}{"error", err}, keysAndValues...)
	c.l.Error(msg, fields...)
}
