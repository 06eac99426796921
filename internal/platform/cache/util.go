package cache

import (
	"time"
)

// TimeUntilNext は loc における次の hour 時ちょうどまでの期間を返します。
func TimeUntilNext(now time.Time, hour int, loc *time.Location) time.Duration {
	now = now.In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)

	// 今日の該当時刻が既に過ぎている場合は明日を使用
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}

// UntilNextRefresh は毎日 hour 時（loc）に失効するTTLFuncを返します。
func UntilNextRefresh(hour int, loc *time.Location) TTLFunc {
	return func() time.Duration {
		return TimeUntilNext(time.Now(), hour, loc)
	}
}
