package advisor

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/ecosense/internal/domain/profile"
	"github.com/yanqian/ecosense/internal/domain/weather"
)

// Service turns current conditions and the caller's profile into advice.
type Service interface {
	Alerts(ctx context.Context, userID int64) ([]Alert, error)
	Activities(ctx context.Context, userID int64) (ActivityPlan, error)
	Clothing(ctx context.Context, userID int64) (ClothingAdvice, error)
	Health(ctx context.Context) (HealthAdvice, error)
	TimeSlots(ctx context.Context, userID int64) ([]TimeSlot, error)
	OutdoorActivities(ctx context.Context, userID int64) ([]Activity, error)
	IndoorActivities(ctx context.Context, userID int64) ([]Activity, error)
}

// SnapshotSource provides the current environmental snapshot.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (weather.Snapshot, error)
}

// ProfileSource provides stored profiles; a nil profile means none was saved.
type ProfileSource interface {
	Profile(ctx context.Context, userID int64) (*profile.UserProfile, error)
}

type service struct {
	catalog   Catalog
	snapshots SnapshotSource
	profiles  ProfileSource
	logger    *slog.Logger
}

// NewService wires the advisor domain with the embedded activity catalog.
func NewService(snapshots SnapshotSource, profiles ProfileSource, logger *slog.Logger) (Service, error) {
	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}
	return &service{
		catalog:   catalog,
		snapshots: snapshots,
		profiles:  profiles,
		logger:    logger.With("component", "advisor.service"),
	}, nil
}

func (s *service) Alerts(ctx context.Context, userID int64) ([]Alert, error) {
	snap, p, err := s.inputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	alerts := ComputeAlerts(snap, p)
	s.logger.Debug("alerts evaluated", "user_id", userID, "count", len(alerts), "aqi", snap.Current.AQI)
	return alerts, nil
}

func (s *service) Activities(ctx context.Context, userID int64) (ActivityPlan, error) {
	snap, p, err := s.inputs(ctx, userID)
	if err != nil {
		return ActivityPlan{}, err
	}
	return ComputeActivityRecommendations(snap, p), nil
}

func (s *service) Clothing(ctx context.Context, userID int64) (ClothingAdvice, error) {
	snap, p, err := s.inputs(ctx, userID)
	if err != nil {
		return ClothingAdvice{}, err
	}
	return ComputeClothingRecommendations(snap, p), nil
}

func (s *service) Health(ctx context.Context) (HealthAdvice, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return HealthAdvice{}, err
	}
	return ComputeHealthRecommendations(snap), nil
}

func (s *service) TimeSlots(ctx context.Context, userID int64) ([]TimeSlot, error) {
	snap, p, err := s.inputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ComputeTimeSlots(snap, p), nil
}

func (s *service) OutdoorActivities(ctx context.Context, userID int64) ([]Activity, error) {
	snap, p, err := s.inputs(ctx, userID)
	if err != nil {
		return nil, err
	}
	alert := CurrentActivityAlert(snap, p)
	out := make([]Activity, 0, len(s.catalog.Outdoor))
	for _, entry := range s.catalog.Outdoor {
		a := entry.activity(false)
		score := ComputeSuitabilityScore(snap, entry.ID, p)
		a.SuitabilityScore = &score
		a.CurrentAlert = alert
		out = append(out, a)
	}
	return out, nil
}

func (s *service) IndoorActivities(ctx context.Context, userID int64) ([]Activity, error) {
	p, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	interest := p.SustainabilityInterest()
	out := make([]Activity, 0, len(s.catalog.Indoor))
	for _, entry := range s.catalog.Indoor {
		a := entry.activity(true)
		if entry.Note != nil && interest >= entry.Note.MinInterest {
			a.PersonalizedNote = entry.Note.Text
		}
		out = append(out, a)
	}
	return out, nil
}

// inputs loads the snapshot and the profile concurrently. Either failure fails the call.
func (s *service) inputs(ctx context.Context, userID int64) (weather.Snapshot, *profile.UserProfile, error) {
	var (
		snap weather.Snapshot
		p    *profile.UserProfile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.snapshots.Snapshot(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		p, err = s.profiles.Profile(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return weather.Snapshot{}, nil, err
	}
	return snap, p, nil
}

var _ Service = (*service)(nil)
