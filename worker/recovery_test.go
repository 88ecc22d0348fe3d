package worker

import (
	"errors"
	"testing"

	"outreachly/models"
)

type fakeRecoveryStore struct {
	statuses map[uint]string
	err      error
}

func (s *fakeRecoveryStore) PauseAllSending() (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	var n int64
	for id, status := range s.statuses {
		if status == models.CampaignStatusSending {
			s.statuses[id] = models.CampaignStatusPaused
			n++
		}
	}
	return n, nil
}

func TestRecoverStaleCampaigns(t *testing.T) {
	store := &fakeRecoveryStore{statuses: map[uint]string{
		1: models.CampaignStatusSending,
		2: models.CampaignStatusSent,
		3: models.CampaignStatusReviewing,
		4: models.CampaignStatusSending,
	}}

	if err := RecoverStaleCampaigns(store, testLogger()); err != nil {
		t.Fatalf("recovery failed: %v", err)
	}

	if store.statuses[1] != models.CampaignStatusPaused || store.statuses[4] != models.CampaignStatusPaused {
		t.Errorf("sending campaigns must be forced to paused: %v", store.statuses)
	}
	if store.statuses[2] != models.CampaignStatusSent || store.statuses[3] != models.CampaignStatusReviewing {
		t.Errorf("other campaigns must be untouched: %v", store.statuses)
	}
}

func TestRecoverStaleCampaignsIdempotent(t *testing.T) {
	store := &fakeRecoveryStore{statuses: map[uint]string{1: models.CampaignStatusSending}}

	if err := RecoverStaleCampaigns(store, testLogger()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := RecoverStaleCampaigns(store, testLogger()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if store.statuses[1] != models.CampaignStatusPaused {
		t.Errorf("expected paused, got %s", store.statuses[1])
	}
}

func TestRecoverStaleCampaignsPropagatesError(t *testing.T) {
	store := &fakeRecoveryStore{err: errors.New("db down")}
	if err := RecoverStaleCampaigns(store, testLogger()); err == nil {
		t.Fatal("expected error")
	}
}
