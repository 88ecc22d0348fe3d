package worker

import (
	"github.com/sirupsen/logrus"
)

// RecoveryStore is the slice of storage the startup hook needs.
type RecoveryStore interface {
	// PauseAllSending flips every campaign in the sending state to paused and
	// returns how many were touched.
	PauseAllSending() (int64, error)
}

// RecoverStaleCampaigns is the crash-recovery hook. A campaign found in the
// sending state at process start means the previous process died mid-run; it
// is forced to paused so it is never stuck as sending with no loop behind it.
// Call exactly once, before any dispatcher run. The call is idempotent.
func RecoverStaleCampaigns(store RecoveryStore, logger *logrus.Entry) error {
	recovered, err := store.PauseAllSending()
	if err != nil {
		return err
	}
	if recovered > 0 {
		logger.WithField("count", recovered).Warn("recovered stale sending campaigns to paused")
	}
	return nil
}
