package replay

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing and tree metrics.
// Only populated when Options.Debug is true.
type debugStats struct {
	frame        int
	visitTime    time.Duration
	flattenTime  time.Duration
	instances    int
	textures     int
	timers       int
	created      int
	removed      int
	pendingState int
}

// debugLog logs timing and tree stats at debug level.
func (e *Engine) debugLog(stats debugStats) {
	logger.Debug("frame",
		zap.Int("frame", stats.frame),
		zap.Duration("visit", stats.visitTime),
		zap.Duration("flatten", stats.flattenTime),
		zap.Duration("total", stats.visitTime+stats.flattenTime),
		zap.Int("instances", stats.instances),
		zap.Int("textures", stats.textures),
		zap.Int("timers", stats.timers),
		zap.Int("created", stats.created),
		zap.Int("removed", stats.removed),
		zap.Int("pendingUpdates", stats.pendingState))
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(inst *instance) {
	depth := 0
	for p := inst; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("sprite tree too deep",
			zap.Int("depth", depth),
			zap.Int("threshold", debugMaxTreeDepth),
			zap.String("sprite", inst.globalID))
	}
}

// debugCheckChildCount warns if a sprite renders more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(inst *instance, n int) {
	if n > debugMaxChildCount {
		logger.Warn("sprite has too many children",
			zap.String("sprite", inst.globalID),
			zap.Int("children", n),
			zap.Int("threshold", debugMaxChildCount))
	}
}
