package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/jask/innkeeper/internal/database/repository"
)

// PropertyService handles the edits the comparison table can request.
type PropertyService struct {
	Properties *repository.PropertyRepo
	Logger     *zap.Logger
}

// Delete removes the properties in one transaction and returns how many existed.
func (s *PropertyService) Delete(ctx context.Context, ids []string) (int64, error) {
	n, err := s.Properties.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	loggerOrNop(s.Logger).Info("properties deleted", zap.Strings("ids", ids), zap.Int64("deleted", n))
	return n, nil
}

func (s *PropertyService) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("rename: name is empty")
	}
	if err := s.Properties.Rename(ctx, id, name); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	loggerOrNop(s.Logger).Info("property renamed", zap.String("id", id), zap.String("name", name))
	return nil
}

// Suggest returns the candidate closest to query by edit distance, for a
// "did you mean" hint when a search matches nothing. Matching is
// case-insensitive and a candidate further than half the query length away
// is not offered.
func (s *PropertyService) Suggest(query string, candidates []string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, c := range candidates {
		d := closest(q, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := len([]rune(q)) / 2
	if limit < 1 {
		limit = 1
	}
	if bestDist < 0 || bestDist > limit {
		return "", false
	}
	return best, true
}

// closest compares q with the whole candidate and with each of its words, so
// "seasid" still finds "Seaside Resort".
func closest(q, candidate string) int {
	d := levenshtein.ComputeDistance(q, candidate)
	for _, word := range strings.FieldsFunc(candidate, func(r rune) bool { return r == ' ' || r == ',' }) {
		if wd := levenshtein.ComputeDistance(q, word); wd < d {
			d = wd
		}
	}
	return d
}
