package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fleetcheck/internal/config"
	"github.com/mamadbah2/fleetcheck/internal/service/reporting"
)

type publisherMock struct {
	publishErr error
	published  int
	compliance [][3]int
}

func (m *publisherMock) PublishConsolidated(ctx context.Context) (int, error) {
	m.published++
	return 10, m.publishErr
}

func (m *publisherMock) RecordCompliance(ctx context.Context, day, done, total int) error {
	m.compliance = append(m.compliance, [3]int{day, done, total})
	return nil
}

type fleetStub struct{ days []int }

func (f *fleetStub) Tally(day int) (int, int, []string) {
	f.days = append(f.days, day)
	return 3, 4, []string{"Móvil 2"}
}

func (f *fleetStub) Digest(day int) string { return "digest" }

type notifierMock struct {
	bodies []string
	err    error
}

func (n *notifierMock) NotifyAdmin(ctx context.Context, body string) error {
	n.bodies = append(n.bodies, body)
	return n.err
}

func newTestScheduler(t *testing.T, pub Publisher, fl Fleet, n Notifier) *Scheduler {
	t.Helper()
	s, err := NewScheduler(config.ReportingConfig{
		PublishSchedule: "0 23 * * *",
		DigestSchedule:  "0 20 * * *",
		Timezone:        "America/Bogota",
	}, pub, fl, n, nil)
	require.NoError(t, err)
	// 03:00 UTC on the 15th is still the 14th in Bogota.
	s.now = func() time.Time { return time.Date(2026, 4, 15, 3, 0, 0, 0, time.UTC) }
	return s
}

func TestPublishNightlyUsesLocalDay(t *testing.T) {
	pub := &publisherMock{}
	fl := &fleetStub{}
	s := newTestScheduler(t, pub, fl, nil)

	s.publishNightly()

	assert.Equal(t, 1, pub.published)
	assert.Equal(t, [][3]int{{14, 3, 4}}, pub.compliance)
	assert.Equal(t, []int{14}, fl.days)
}

func TestPublishNightlySkipsWhenDisabled(t *testing.T) {
	pub := &publisherMock{publishErr: reporting.ErrPublishDisabled}
	s := newTestScheduler(t, pub, &fleetStub{}, nil)

	s.publishNightly()

	assert.Empty(t, pub.compliance)
}

func TestPublishNightlyStopsOnError(t *testing.T) {
	pub := &publisherMock{publishErr: errors.New("quota")}
	s := newTestScheduler(t, pub, &fleetStub{}, nil)

	s.publishNightly()

	assert.Empty(t, pub.compliance)
}

func TestSendDigest(t *testing.T) {
	n := &notifierMock{}
	s := newTestScheduler(t, &publisherMock{}, &fleetStub{}, n)

	s.sendDigest()
	assert.Equal(t, []string{"digest"}, n.bodies)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{
		PublishSchedule: "every night",
		DigestSchedule:  "0 20 * * *",
		Timezone:        "UTC",
	}, &publisherMock{}, &fleetStub{}, nil, nil)
	require.NoError(t, err)

	assert.Error(t, s.Start())
}

func TestNewSchedulerRejectsUnknownTimezone(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{Timezone: "Nowhere/Land"}, nil, nil, nil, nil)
	assert.Error(t, err)
}
