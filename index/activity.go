package index

import (
	"time"

	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/store"
)

// dayNames are the day-of-week labels rendered by the activity graph.
var dayNames = []string{"日", "月", "火", "水", "木", "金", "土"}

// BuildActivity counts likes for each of the trailing windowSize calendar
// days ending at windowEnd inclusive. Days without a day document count as
// zero. Output is ordered oldest to newest.
func BuildActivity(days *store.DayStore, windowEnd time.Time, windowSize int) ([]model.ActivityPoint, error) {
	points := make([]model.ActivityPoint, 0, windowSize)

	for i := windowSize - 1; i >= 0; i-- {
		target := windowEnd.AddDate(0, 0, -i)
		key := model.NewDayKey(target)

		count := 0
		doc, ok, err := days.TryLoad(key)
		if err != nil {
			return nil, err
		}
		if ok {
			count = len(doc.Body)
		}

		points = append(points, model.ActivityPoint{
			Date:    key.Year + "-" + key.Month + "-" + key.Day,
			Count:   count,
			DayName: dayNames[int(target.Weekday())],
		})
	}
	return points, nil
}

// BuildActivityData wraps the activity points with the update timestamp,
// producing the persisted artifact shape.
func BuildActivityData(days *store.DayStore, now time.Time, windowSize int) (*model.ActivityData, error) {
	points, err := BuildActivity(days, now, windowSize)
	if err != nil {
		return nil, err
	}
	return &model.ActivityData{
		Activities:  points,
		LastUpdated: now.Format(store.CheckpointFormat),
	}, nil
}
