package record

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"refinery/internal/config"
	"refinery/internal/extract"
	"refinery/internal/logging"
	"refinery/internal/scoring"
)

// Builder clusters adjacent units into exchanges, scores each exchange on
// the four role vocabularies, and admits those that clear the per-role
// admission threshold on every score. Exchanges below threshold are
// dropped silently.
type Builder struct {
	cfg config.ScoringConfig

	clusterSize int
	now         func() time.Time
}

// NewBuilder creates a Builder. clusterSize comes from the extraction
// config so extraction and scoring agree on exchange boundaries.
func NewBuilder(scoreCfg config.ScoringConfig, clusterSize int) *Builder {
	if clusterSize <= 0 {
		clusterSize = 1
	}
	return &Builder{cfg: scoreCfg, clusterSize: clusterSize, now: time.Now}
}

// SetClock overrides the timestamp source. Used by tests.
func (b *Builder) SetClock(now func() time.Time) { b.now = now }

// Build drains the unit iterator, scores exchange clusters and returns the
// admitted records in source order.
func (b *Builder) Build(ctx context.Context, units *extract.Iterator) ([]*Record, error) {
	records, _, err := b.BuildCounted(ctx, units)
	return records, err
}

// BuildCounted is Build plus the raw unit count. The iterator is a single
// forward pass, so the count is taken while clustering rather than in a
// second traversal. Scoring is side-effect free; clusters are scored on a
// bounded errgroup with results written by index to preserve ordering.
func (b *Builder) BuildCounted(ctx context.Context, units *extract.Iterator) ([]*Record, int, error) {
	clusters, unitCount := b.cluster(units)
	if err := units.Err(); err != nil {
		return nil, unitCount, err
	}
	if len(clusters) == 0 {
		return nil, unitCount, nil
	}

	scored := make([]*Record, len(clusters))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Parallelism)
	for i, text := range clusters {
		i, text := i, text
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			scored[i] = b.score(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, unitCount, err
	}

	log := logging.Get(logging.CategoryScore)
	admitted := make([]*Record, 0, len(scored))
	for _, rec := range scored {
		if rec == nil {
			continue
		}
		admitted = append(admitted, rec)
	}
	log.Info("admitted %d of %d exchanges", len(admitted), len(clusters))
	return admitted, unitCount, nil
}

// cluster groups adjacent units into exchange texts of clusterSize lines
// and counts the units seen. A trailing partial cluster is kept; an
// exchange is just the temporally adjacent window, not a strict pairing.
func (b *Builder) cluster(units *extract.Iterator) ([]string, int) {
	var clusters []string
	var window []string
	count := 0
	for {
		unit, ok := units.Next()
		if !ok {
			break
		}
		count++
		window = append(window, unit.Text)
		if len(window) == b.clusterSize {
			clusters = append(clusters, strings.Join(window, "\n"))
			window = nil
		}
	}
	if len(window) > 0 {
		clusters = append(clusters, strings.Join(window, "\n"))
	}
	return clusters, count
}

// score computes the four role scores for one exchange and returns a
// Record if every score clears the admission threshold, nil otherwise.
func (b *Builder) score(text string) *Record {
	scores := RoleScores{
		Teacher: scoring.Fraction(text, b.cfg.TeacherVocabulary),
		Student: scoring.Fraction(text, b.cfg.StudentVocabulary),
		Bond:    scoring.Fraction(text, b.cfg.BondVocabulary),
		Ground:  scoring.Fraction(text, b.cfg.GroundVocabulary),
	}
	if scores.Min() < b.cfg.AdmissionThreshold {
		return nil
	}
	aggregate := scoring.Clamp01(b.cfg.TeacherWeight*scores.Teacher +
		b.cfg.StudentWeight*scores.Student +
		b.cfg.BondWeight*scores.Bond +
		b.cfg.GroundWeight*scores.Ground)
	return newRecord(text, scores, aggregate, b.now())
}
