// Package dashboard 实时看板：观察者注册、快照推送与跨实例广播
package dashboard

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/config"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/metrics"
)

// EventDashboard 看板快照事件名
const EventDashboard = "dashboard"

// Event 推送给观察者的事件，Data 为已编码的 JSON
type Event struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// SnapshotSource 看板快照来源
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*dto.DashboardSnapshot, error)
}

// Broker 跨实例广播通道，由 Redis Pub/Sub 实现
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

type observer struct {
	ch chan Event
}

// Hub 观察者注册表，并发安全
// 慢观察者的缓冲写满时丢弃事件，不阻塞广播方
type Hub struct {
	mu        sync.RWMutex
	observers map[uint64]*observer
	next      uint64
	closed    bool
	remote    bool

	buffer  int
	channel string
	broker  Broker
	logger  *zap.Logger

	// 容量为 1：多次变更合并为一次待处理刷新
	refresh chan struct{}
}

// NewHub 创建 Hub；broker 为 nil 时仅向本实例观察者推送
func NewHub(cfg *config.DashboardConfig, broker Broker, logger *zap.Logger) *Hub {
	buffer := cfg.Buffer
	if buffer < 1 {
		buffer = 1
	}
	channel := cfg.Channel
	if channel == "" {
		channel = "mis:dashboard"
	}
	return &Hub{
		observers: make(map[uint64]*observer),
		buffer:    buffer,
		channel:   channel,
		broker:    broker,
		logger:    logger,
		refresh:   make(chan struct{}, 1),
	}
}

// EncodeSnapshot 将快照编码为看板事件
func EncodeSnapshot(snap *dto.DashboardSnapshot) (Event, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: EventDashboard, Data: data}, nil
}

// ────────────────────── 注册 ──────────────────────

// Register 注册观察者，返回其 ID 与事件通道
// Hub 已关闭时返回已关闭的通道
func (h *Hub) Register() (uint64, <-chan Event) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return 0, ch
	}
	h.next++
	id := h.next
	h.observers[id] = &observer{ch: ch}
	metrics.DashboardObservers.Inc()
	return id, ch
}

// Unregister 注销观察者并关闭其通道，可重复调用
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	obs, ok := h.observers[id]
	if !ok {
		return
	}
	delete(h.observers, id)
	close(obs.ch)
	metrics.DashboardObservers.Dec()
}

// Observers 当前观察者数量
func (h *Hub) Observers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// Connect 注册观察者并仅向其推送当前快照
// 先注册再计算快照，计算期间的广播不会漏给新观察者；快照失败时注销
func (h *Hub) Connect(ctx context.Context, source SnapshotSource) (uint64, <-chan Event, error) {
	id, ch := h.Register()

	snap, err := source.Snapshot(ctx)
	if err != nil {
		h.Unregister(id)
		return 0, nil, err
	}
	evt, err := EncodeSnapshot(snap)
	if err != nil {
		h.Unregister(id)
		return 0, nil, err
	}

	h.Send(id, evt)
	return id, ch, nil
}

// ────────────────────── 推送 ──────────────────────

// Send 向单个观察者推送，缓冲已满或观察者不存在时返回 false
func (h *Hub) Send(id uint64, evt Event) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	obs, ok := h.observers[id]
	if !ok {
		return false
	}
	select {
	case obs.ch <- evt:
		return true
	default:
		return false
	}
}

// Broadcast 向所有观察者推送
// 已订阅 Redis 时经 Pub/Sub 发布，由各实例的订阅循环在本地投递
func (h *Hub) Broadcast(ctx context.Context, evt Event) {
	h.mu.RLock()
	remote := h.remote
	h.mu.RUnlock()

	if remote {
		payload, err := json.Marshal(evt)
		if err == nil {
			if err = h.broker.Publish(ctx, h.channel, payload); err == nil {
				return
			}
		}
		h.logger.Warn("看板事件发布失败，降级为本地推送", zap.Error(err))
	}
	h.deliver(evt)
}

func (h *Hub) deliver(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for _, obs := range h.observers {
		select {
		case obs.ch <- evt:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Debug("看板观察者缓冲已满，事件已丢弃", zap.Int("dropped", dropped))
	}
}

// NotifyChange 请求一次快照刷新，已有待处理刷新时直接返回
func (h *Hub) NotifyChange() {
	select {
	case h.refresh <- struct{}{}:
	default:
	}
}

// ────────────────────── 生命周期 ──────────────────────

// Start 启动刷新协程与 Redis 订阅协程，ctx 取消时退出
func (h *Hub) Start(ctx context.Context, source SnapshotSource) {
	if h.broker != nil {
		msgs, err := h.broker.Subscribe(ctx, h.channel)
		if err != nil {
			h.logger.Warn("订阅看板频道失败，仅推送本实例", zap.String("channel", h.channel), zap.Error(err))
		} else {
			h.mu.Lock()
			h.remote = true
			h.mu.Unlock()
			go h.consume(ctx, msgs)
		}
	}
	go h.refresher(ctx, source)
}

func (h *Hub) refresher(ctx context.Context, source SnapshotSource) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.refresh:
			snap, err := source.Snapshot(ctx)
			if err != nil {
				h.logger.Error("刷新看板快照失败", zap.Error(err))
				continue
			}
			evt, err := EncodeSnapshot(snap)
			if err != nil {
				h.logger.Error("编码看板快照失败", zap.Error(err))
				continue
			}
			h.Broadcast(ctx, evt)
		}
	}
}

func (h *Hub) consume(ctx context.Context, msgs <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-msgs:
			if !ok {
				h.mu.Lock()
				h.remote = false
				h.mu.Unlock()
				return
			}
			var evt Event
			if err := json.Unmarshal(payload, &evt); err != nil {
				h.logger.Warn("无法解析看板事件", zap.Error(err))
				continue
			}
			h.deliver(evt)
		}
	}
}

// Close 关闭全部观察者通道，之后的注册立即得到已关闭通道
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, obs := range h.observers {
		delete(h.observers, id)
		close(obs.ch)
		metrics.DashboardObservers.Dec()
	}
}
