package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/food-ordering/pkg/logger"
)

// OrderTopic 订单快照广播频道
func OrderTopic(orderID string) string { return "orders/" + orderID }

// RestaurantOrdersTopic 餐厅侧订单频道
func RestaurantOrdersTopic(restaurantID string) string {
	return "restaurants/" + restaurantID + "/orders"
}

// UserChannel 用户个人频道
func UserChannel(userID string) string { return "users/" + userID + "/order-updates" }

// Notifier 尽力而为的快照多播：入队不阻塞，失败不上抛
type Notifier interface {
	Publish(topic string, payload any)
	PublishToUser(userID string, payload any)
}

type notification struct {
	channel string
	payload any
}

// RedisNotifier 有界队列 + 后台协程向 Redis pub/sub 发布
type RedisNotifier struct {
	rdb *redis.Client
	ch  chan notification
}

func NewRedisNotifier(rdb *redis.Client, queueSize int) *RedisNotifier {
	if queueSize <= 0 {
		queueSize = 4096
	}
	return &RedisNotifier{rdb: rdb, ch: make(chan notification, queueSize)}
}

// Start 启动发布协程；返回停止函数
func (n *RedisNotifier) Start() func(context.Context) error {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case msg := <-n.ch:
				n.send(msg)
			case <-stop:
				// 排空残留队列后退出
				for {
					select {
					case msg := <-n.ch:
						n.send(msg)
					default:
						return
					}
				}
			}
		}
	}()
	return func(ctx context.Context) error {
		close(stop)
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (n *RedisNotifier) send(msg notification) {
	data, err := json.Marshal(msg.payload)
	if err != nil {
		logger.Warn("notification marshal failed", zap.String("channel", msg.channel), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.rdb.Publish(ctx, msg.channel, data).Err(); err != nil {
		logger.Warn("notification publish failed", zap.String("channel", msg.channel), zap.Error(err))
	}
}

func (n *RedisNotifier) enqueue(channel string, payload any) {
	select {
	case n.ch <- notification{channel: channel, payload: payload}:
	default:
		logger.Warn("notifier queue full, drop", zap.String("channel", channel))
	}
}

func (n *RedisNotifier) Publish(topic string, payload any) { n.enqueue(topic, payload) }

func (n *RedisNotifier) PublishToUser(userID string, payload any) {
	n.enqueue(UserChannel(userID), payload)
}

// QueueLen 返回当前队列长度（采样值）
func (n *RedisNotifier) QueueLen() int { return len(n.ch) }
