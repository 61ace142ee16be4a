package business

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openbizreg/service-directory-go/internal/business/entity"
)

var ErrNotFound = errors.New("business not found")

// IndustryCount is one entry of the top-industries facet.
type IndustryCount struct {
	Industry string `json:"industry"`
	Count    int64  `json:"count"`
}

// Facets drives the filter affordances in consuming UIs. Both aggregates
// cover the entire table regardless of the active filters; the counts stay
// stable while a user narrows their query.
type Facets struct {
	AvailableStatuses map[string]int64 `json:"availableStatuses"`
	TopIndustries     []IndustryCount  `json:"topIndustries"`
}

// BusinessView is a business row augmented with the derived operating age.
type BusinessView struct {
	*entity.Business
	YearsOperating int `json:"yearsOperating"`
}

// ListResult is the assembled payload for the list endpoint.
type ListResult struct {
	Businesses     []BusinessView `json:"businesses"`
	Pagination     Pagination     `json:"pagination"`
	Filters        Facets         `json:"filters"`
	CurrentFilters CurrentFilters `json:"currentFilters"`
}

// Store is the storage surface the service needs. Count and List must be
// driven by the same predicate construction for a given params value so the
// pagination total can never disagree with row qualification.
type Store interface {
	Count(ctx context.Context, p ListParams) (int64, error)
	List(ctx context.Context, p ListParams) ([]*entity.Business, error)
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	StatusFacets(ctx context.Context) (map[string]int64, error)
	TopIndustries(ctx context.Context) ([]IndustryCount, error)
}

// Service orchestrates the registry read paths.
type Service struct {
	store Store
	// Timeout bounds the store round trips per request; ILIKE scans with no
	// index support can degrade on large tables.
	Timeout time.Duration
	now     func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, Timeout: 10 * time.Second, now: time.Now}
}

// List runs the count, page, and facet queries concurrently (none depends on
// another's result) and assembles the response payload. Any store failure
// aborts the whole request; no partial results.
func (s *Service) List(ctx context.Context, p ListParams) (*ListResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		total      int64
		rows       []*entity.Business
		statuses   map[string]int64
		industries []IndustryCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.store.Count(gctx, p)
		return err
	})
	g.Go(func() (err error) {
		rows, err = s.store.List(gctx, p)
		return err
	})
	g.Go(func() (err error) {
		statuses, err = s.store.StatusFacets(gctx)
		return err
	})
	g.Go(func() (err error) {
		industries, err = s.store.TopIndustries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]BusinessView, 0, len(rows))
	for _, b := range rows {
		b.EnsureDefaults()
		views = append(views, BusinessView{Business: b, YearsOperating: b.YearsOperating(now)})
	}
	if statuses == nil {
		statuses = map[string]int64{}
	}
	if industries == nil {
		industries = []IndustryCount{}
	}
	return &ListResult{
		Businesses:     views,
		Pagination:     NewPagination(p.Page, p.Limit, total),
		Filters:        Facets{AvailableStatuses: statuses, TopIndustries: industries},
		CurrentFilters: p.Normalized(),
	}, nil
}

// Get returns one business by id with its derived operating age.
func (s *Service) Get(ctx context.Context, id string) (*BusinessView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.EnsureDefaults()
	return &BusinessView{Business: b, YearsOperating: b.YearsOperating(s.now())}, nil
}
