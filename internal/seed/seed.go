// Package seed loads the demo hotel portfolio.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jask/innkeeper/internal/database/repository"
)

//go:embed hotels.yaml
var hotelsYAML []byte

// Repos bundles repos used by Seed.
type Repos struct {
	Properties *repository.PropertyRepo
	Metrics    *repository.MetricsRepo
}

type fixture struct {
	Period     string         `yaml:"period"`
	Properties []fixtureHotel `yaml:"properties"`
}

type fixtureHotel struct {
	Name          string  `yaml:"name"`
	Location      string  `yaml:"location"`
	Rooms         int     `yaml:"rooms"`
	Status        string  `yaml:"status"`
	OccupancyRate float64 `yaml:"occupancy_rate"`
	AvgDailyRate  float64 `yaml:"avg_daily_rate"`
	RevPAR        float64 `yaml:"revpar"`
	Revenue       float64 `yaml:"revenue"`
	Expenses      float64 `yaml:"expenses"`
}

// PropertyID derives the stable id for a demo property so reseeding upserts.
func PropertyID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("property:"+name)).String()
}

// Hotels returns the demo fixture as repository rows.
func Hotels() ([]repository.Property, []repository.Metrics, error) {
	var fx fixture
	if err := yaml.Unmarshal(hotelsYAML, &fx); err != nil {
		return nil, nil, fmt.Errorf("parse hotels fixture: %w", err)
	}
	props := make([]repository.Property, 0, len(fx.Properties))
	metrics := make([]repository.Metrics, 0, len(fx.Properties))
	for _, h := range fx.Properties {
		id := PropertyID(h.Name)
		props = append(props, repository.Property{
			ID:       id,
			Name:     h.Name,
			Location: h.Location,
			Rooms:    h.Rooms,
			Status:   repository.PropertyStatus(h.Status),
		})
		metrics = append(metrics, repository.Metrics{
			PropertyID:        id,
			Period:            fx.Period,
			OccupancyRate:     h.OccupancyRate,
			AvgDailyRateCents: cents(h.AvgDailyRate),
			RevPARCents:       cents(h.RevPAR),
			RevenueCents:      cents(h.Revenue),
			ExpensesCents:     cents(h.Expenses),
		})
	}
	return props, metrics, nil
}

func cents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// Seed upserts the demo hotels and their metrics. It is safe to run twice.
func Seed(ctx context.Context, repos Repos) error {
	props, metrics, err := Hotels()
	if err != nil {
		return err
	}
	for _, p := range props {
		if err := repos.Properties.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed %s: %w", p.Name, err)
		}
	}
	for _, m := range metrics {
		if err := repos.Metrics.Upsert(ctx, m); err != nil {
			return fmt.Errorf("seed metrics %s: %w", m.PropertyID, err)
		}
	}
	return nil
}
