package cerealdex

import (
	"context"

	"github.com/cerealdex/cerealdex/cerealdex/filter"
)

// Filter compiles triples, proves them satisfiable and only then reads
// the catalog and narrows it. A contradiction never touches the database.
func (s *Store) Filter(ctx context.Context, triples []filter.Triple) ([]Cereal, error) {
	reg := s.opts.Registry
	filters, err := filter.Compile(reg, triples)
	if err != nil {
		return nil, err
	}
	if err := filter.Check(reg, filters); err != nil {
		s.log.Info("filter rejected", "filters", len(filters), "err", err)
		return nil, err
	}

	rows, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out, err := filter.Apply(rows, filters)
	if err != nil {
		return nil, err
	}
	s.log.Debug("filter applied", "filters", len(filters), "rows", len(rows), "matched", len(out))
	return out, nil
}

// Check runs only the feasibility stage and returns the per-column state
// reached. On a contradiction the tracker holds the states folded so far.
func (s *Store) Check(triples []filter.Triple) (*filter.Tracker, error) {
	reg := s.opts.Registry
	filters, err := filter.Compile(reg, triples)
	if err != nil {
		return nil, err
	}
	return filter.Explain(reg, filters)
}
