package monitor

import "github.com/jhchoi91066/system-trading-sub000/src/models"

// -----------------------------------------------------------------------------
// Partial snapshot merge
// -----------------------------------------------------------------------------

// mergeMonitorData folds one initial_data or monitoring_update payload into
// the snapshot. Only sub-records present on the wire change anything: a nil
// field keeps whatever the snapshot already holds, so a stats-only update
// can never wipe the strategy list. The performance map merges per strategy
// id; lists and structs replace wholesale.
//
// Runs on the client event loop only, so no locking here.
func mergeMonitorData(snapshot *models.MRealtimeSnapshot, data *models.MMonitorData) {
	if data == nil {
		return
	}

	// 1. Portfolio stats (replace)
	if data.PortfolioStats != nil {
		snapshot.PortfolioStats = *data.PortfolioStats
	}

	// 2. Active strategies (replace list)
	if data.ActiveStrategies != nil {
		snapshot.ActiveStrategies = append([]models.MActiveStrategy(nil), (*data.ActiveStrategies)...)
	}

	// 3. Performance data (merge per strategy id)
	if data.PerformanceData != nil {
		if snapshot.PerformanceData == nil {
			snapshot.PerformanceData = make(map[string]models.MStrategyPerformance)
		}
		for id, perf := range data.PerformanceData {
			snapshot.PerformanceData[id] = perf
		}
	}

	// 4. Notifications (replace list, newest first as sent)
	if data.Notifications != nil {
		snapshot.Notifications = append([]models.MNotification(nil), (*data.Notifications)...)
	}

	if data.Timestamp != 0 {
		snapshot.UpdatedAt = data.Timestamp
	}
}

// -----------------------------------------------------------------------------

// prependNotification puts one new_notification at the head of the list.
// The list is unbounded here; display capping belongs to consumers.
func prependNotification(snapshot *models.MRealtimeSnapshot, n models.MNotification) {
	snapshot.Notifications = append([]models.MNotification{n}, snapshot.Notifications...)
}

// -----------------------------------------------------------------------------

// copySnapshot returns a reader-safe copy: slices and the map are duplicated
// so loop-side merges never race a holder of an earlier copy.
func copySnapshot(s models.MRealtimeSnapshot) models.MRealtimeSnapshot {
	out := s
	out.ActiveStrategies = append([]models.MActiveStrategy(nil), s.ActiveStrategies...)
	out.Notifications = append([]models.MNotification(nil), s.Notifications...)
	if s.PerformanceData != nil {
		out.PerformanceData = make(map[string]models.MStrategyPerformance, len(s.PerformanceData))
		for id, perf := range s.PerformanceData {
			out.PerformanceData[id] = perf
		}
	}
	return out
}
