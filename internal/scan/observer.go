package scan

import (
	"time"

	"github.com/John-Robertt/gamebox/internal/domain"
)

// Observer 用于把“扫描进度/逐组结果”从核心执行流程中解耦出来。
//
// 约束：
// - scan 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 扫描是顺序执行的，事件来自单个 goroutine，实现无需加锁。
type Observer interface {
	// OnStart 在扫描开始时调用（应尽量早，保证用户 1 秒内看到输出）。
	OnStart(root string, fileCount, groupCount int)
	// OnGroupDone 在某个分组处理完成时调用（用于每条结果的一行输出）。
	OnGroupDone(idx, total int, g domain.PathGroup, asset domain.GameAsset, dur time.Duration)
	// OnFinish 在全部分组处理完毕时调用。
	OnFinish(assetCount int, dur time.Duration)
}

// NopObserver 满足 Observer 且什么都不做；Observer 为 nil 时的替身。
type NopObserver struct{}

func (NopObserver) OnStart(string, int, int) {}
func (NopObserver) OnGroupDone(int, int, domain.PathGroup, domain.GameAsset, time.Duration) {
}
func (NopObserver) OnFinish(int, time.Duration) {}
