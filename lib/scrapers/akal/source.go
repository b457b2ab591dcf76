package akal

import (
	"context"
	"fmt"
	"sync"

	"github.com/CodeforKarlsruhe/abfallkalender-scraper/services/abfall"
	"go.opentelemetry.io/otel/attribute"
)

// ServiceSpec binds a stable service slug to the row label the site uses
// for it. The slug encodes category and cadence, e.g. "ka-bio-7" for
// weekly organic waste.
type ServiceSpec struct {
	ID    string
	Title string
	Label string
}

// DefaultServices is the fixed set of collection services the Karlsruhe
// Abfallkalender renders per street.
func DefaultServices() []ServiceSpec {
	return []ServiceSpec{
		{ID: "ka-rest-14", Title: "Restmüll (14-täglich)", Label: "Restmüllabfuhr"},
		{ID: "ka-bio-7", Title: "Biomüll (wöchentlich)", Label: "Bioabfall"},
		{ID: "ka-wert-14", Title: "Wertstoff (14-täglich)", Label: "Wertstoffabfuhr"},
		{ID: "ka-papier-28", Title: "Altpapier (4-wöchentlich)", Label: "Papierabfuhr"},
		{ID: "ka-sperr-0", Title: "Sperrmüllabholung", Label: "Sperrmüllabholung"},
	}
}

// Source adapts the akal client to the assembler's unit/row interface.
// One street page serves every service of that street, so pages are
// fetched once and cached for the whole run.
type Source struct {
	client   *Client
	services []ServiceSpec
	labels   map[string]string // service id -> row label

	mu      sync.Mutex
	options []string
	pages   map[string]streetPage
}

type streetPage struct {
	collections []Collection
	err         error
}

func NewSource(client *Client, services []ServiceSpec) *Source {
	labels := make(map[string]string, len(services))
	for _, s := range services {
		labels[s.ID] = s.Label
	}
	return &Source{
		client:   client,
		services: services,
		labels:   labels,
		pages:    map[string]streetPage{},
	}
}

// Units enumerates every (service, street option) pair, services in their
// fixed order, street options in dropdown order within each service. The
// raw option text is kept in Unit.Ref so Rows can find the page again.
func (s *Source) Units(ctx context.Context) ([]abfall.Unit, error) {
	options, err := s.streetOptions(ctx)
	if err != nil {
		return nil, err
	}

	var units []abfall.Unit
	for _, svc := range s.services {
		for _, option := range options {
			name, _ := SplitStreet(option)
			units = append(units, abfall.Unit{
				ServiceID:    svc.ID,
				ServiceTitle: svc.Title,
				Street:       name,
				Ref:          option,
			})
		}
	}
	return units, nil
}

// Rows returns the raw schedule rows of one unit: the house number range
// from the street option plus the date cell of the unit's service. A
// street page that simply does not list the service yields no rows, which
// is not an error.
func (s *Source) Rows(ctx context.Context, unit abfall.Unit) ([]abfall.RawRow, error) {
	label, ok := s.labels[unit.ServiceID]
	if !ok {
		return nil, fmt.Errorf("unknown service id %q", unit.ServiceID)
	}

	page := s.page(ctx, unit.Ref)
	if page.err != nil {
		return nil, page.err
	}

	_, rangeText := SplitStreet(unit.Ref)

	var rows []abfall.RawRow
	for _, c := range page.collections {
		if c.Label != label {
			continue
		}
		rows = append(rows, abfall.RawRow{
			RangeText: rangeText,
			DateText:  c.DateText,
		})
	}
	return rows, nil
}

func (s *Source) streetOptions(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	cached := s.options
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	options, err := s.client.Streets(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.options = options
	s.mu.Unlock()
	return options, nil
}

func (s *Source) page(ctx context.Context, option string) streetPage {
	s.mu.Lock()
	page, ok := s.pages[option]
	s.mu.Unlock()
	if ok {
		return page
	}

	collections, err := s.client.Collections(ctx, option)
	page = streetPage{collections: collections, err: err}

	s.mu.Lock()
	s.pages[option] = page
	s.mu.Unlock()
	return page
}

// WarmCache prefetches every street page with a bounded number of
// concurrent fetches. The assembler still visits units in deterministic
// order afterwards; this only moves the waiting up front.
func (s *Source) WarmCache(ctx context.Context, concurrency int) error {
	ctx, span := tracer.Start(ctx, "WarmCache")
	defer span.End()

	if concurrency < 1 {
		concurrency = 1
	}

	options, err := s.streetOptions(ctx)
	if err != nil {
		return err
	}
	span.SetAttributes(
		attribute.Int("streets", len(options)),
		attribute.Int("concurrency", concurrency),
	)

	sem := make(chan struct{}, concurrency)
	wg := sync.WaitGroup{}

	for _, option := range options {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(option string) {
			defer wg.Done()
			defer func() { <-sem }()
			s.page(ctx, option)
		}(option)
	}

	wg.Wait()
	return ctx.Err()
}
