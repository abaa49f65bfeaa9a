package advisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ecosense/internal/domain/profile"
	"github.com/yanqian/ecosense/internal/domain/weather"
	apperrors "github.com/yanqian/ecosense/pkg/errors"
)

type stubSnapshots struct {
	snap  weather.Snapshot
	err   error
	calls int
}

func (s *stubSnapshots) Snapshot(context.Context) (weather.Snapshot, error) {
	s.calls++
	return s.snap, s.err
}

type stubProfiles struct {
	profiles map[int64]*profile.UserProfile
	err      error
}

func (s *stubProfiles) Profile(_ context.Context, userID int64) (*profile.UserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profiles[userID], nil
}

func newTestService(t *testing.T, snaps SnapshotSource, profiles ProfileSource) *service {
	t.Helper()
	catalog, err := LoadCatalog()
	require.NoError(t, err)
	return &service{
		catalog:   catalog,
		snapshots: snaps,
		profiles:  profiles,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestServiceAlertsUsesCallerProfile(t *testing.T) {
	snaps := &stubSnapshots{snap: uniformSnapshot(10, conditions{temp: 33, aqi: 120, uv: 6, precip: 20})}
	profiles := &stubProfiles{profiles: map[int64]*profile.UserProfile{5: respiratoryProfile()}}
	svc := newTestService(t, snaps, profiles)

	alerts, err := svc.Alerts(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "Based on your respiratory condition, consider limiting outdoor activities.", alerts[0].Description)
	for _, a := range alerts {
		require.NotEqual(t, AlertPrecipitation, a.Type)
	}

	alerts, err = svc.Alerts(context.Background(), 6)
	require.NoError(t, err)
	require.Equal(t, "Consider reducing prolonged outdoor exposure today.", alerts[0].Description)
}

func TestServiceFailsWholeCallOnSnapshotError(t *testing.T) {
	upstream := apperrors.Wrap(apperrors.CodeUpstream, "weather data unavailable", errors.New("timeout"))
	svc := newTestService(t, &stubSnapshots{err: upstream}, &stubProfiles{})

	_, err := svc.Alerts(context.Background(), 0)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
	_, err = svc.Clothing(context.Background(), 0)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
	_, err = svc.OutdoorActivities(context.Background(), 0)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
	_, err = svc.Health(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
}

func TestServiceFailsOnProfileError(t *testing.T) {
	storage := apperrors.Wrap(apperrors.CodeStorage, "failed to load profile", errors.New("db down"))
	svc := newTestService(t, &stubSnapshots{snap: uniformSnapshot(9, conditions{})}, &stubProfiles{err: storage})

	_, err := svc.TimeSlots(context.Background(), 1)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorage))
	_, err = svc.IndoorActivities(context.Background(), 1)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorage))
}

func TestServiceOutdoorActivities(t *testing.T) {
	snaps := &stubSnapshots{snap: uniformSnapshot(9, conditions{temp: 33, aqi: 60})}
	profiles := &stubProfiles{profiles: map[int64]*profile.UserProfile{1: withInterests("cycling")}}
	svc := newTestService(t, snaps, profiles)

	activities, err := svc.OutdoorActivities(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, activities, 3)

	scores := map[string]float64{}
	for _, a := range activities {
		require.False(t, a.Indoor)
		require.NotNil(t, a.SuitabilityScore)
		require.Empty(t, a.CurrentAlert)
		require.NotEmpty(t, a.Locations)
		scores[a.ID] = *a.SuitabilityScore
	}
	require.InDelta(t, 0.6, scores[ActivityWalking], 1e-9)
	require.InDelta(t, 0.7, scores[ActivityCycling], 1e-9)
	require.InDelta(t, 0.6, scores[ActivityParks], 1e-9)
	require.Equal(t, "Hoan Kiem Lake", activities[0].Locations[0].Name)
	require.Equal(t, 21.0285, activities[0].Locations[0].Coordinates.Lat)
}

func TestServiceIndoorActivitiesNotes(t *testing.T) {
	profiles := &stubProfiles{profiles: map[int64]*profile.UserProfile{
		1: {Interests: &profile.Interests{SustainabilityInterest: 3}},
		2: {Interests: &profile.Interests{SustainabilityInterest: 4}},
	}}
	snaps := &stubSnapshots{}
	svc := newTestService(t, snaps, profiles)

	notes := func(userID int64) map[string]string {
		activities, err := svc.IndoorActivities(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, activities, 3)
		out := map[string]string{}
		for _, a := range activities {
			require.True(t, a.Indoor)
			require.Nil(t, a.SuitabilityScore)
			out[a.ID] = a.PersonalizedNote
		}
		return out
	}

	require.Equal(t, map[string]string{"museums": "", "cafes": "", "workshops": ""}, notes(0))
	mid := notes(1)
	require.Empty(t, mid["museums"])
	require.Equal(t, "Many cafés in Hanoi are now using biodegradable straws and sustainable practices.", mid["cafes"])
	high := notes(2)
	require.NotEmpty(t, high["museums"])
	require.NotEmpty(t, high["workshops"])
	require.Zero(t, snaps.calls)
}

func TestServiceActivitiesAndTimeSlots(t *testing.T) {
	snaps := &stubSnapshots{snap: uniformSnapshot(8, conditions{temp: 26, aqi: 40, humidity: 60})}
	svc := newTestService(t, snaps, &stubProfiles{})

	plan, err := svc.Activities(context.Background(), 0)
	require.NoError(t, err)
	require.True(t, plan.OptimalTimes.Evening)

	slots, err := svc.TimeSlots(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, "8 AM", slots[0].Label)
}

func TestParseCatalogRejectsDuplicateIDs(t *testing.T) {
	_, err := ParseCatalog([]byte("outdoor:\n  - id: walking\nindoor:\n  - id: walking\n"))
	require.Error(t, err)

	_, err = ParseCatalog([]byte("outdoor:\n  - name: nameless\n"))
	require.Error(t, err)
}
