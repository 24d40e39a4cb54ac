package service

import "time"

// Scheduler 延时回调设施。注入式设计：生产用壁钟实现，
// 测试用虚拟时钟驱动，避免进程级全局调度器。
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

type clockScheduler struct{}

// NewScheduler 返回基于 time.AfterFunc 的壁钟实现
func NewScheduler() Scheduler { return clockScheduler{} }

func (clockScheduler) AfterFunc(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
