package domain

// PageSummary aggregates every record of one landing page.
// A summary is built with a PageBuilder and is read-only afterwards,
// so it can be shared freely during the pairwise scan.
type PageSummary struct {
	landingPage      string
	queries          []string
	querySet         map[string]struct{}
	totalClicks      int
	totalImpressions int
	positionSum      float64
	recordCount      int
	intents          map[string]Intent
}

// LandingPage returns the page URL.
func (p *PageSummary) LandingPage() string {
	return p.landingPage
}

// Queries returns the distinct queries in first-seen order.
func (p *PageSummary) Queries() []string {
	out := make([]string, len(p.queries))
	copy(out, p.queries)
	return out
}

// QueryCount returns the number of distinct queries.
func (p *PageSummary) QueryCount() int {
	return len(p.queries)
}

// HasQuery reports whether the page received impressions for query.
func (p *PageSummary) HasQuery(query string) bool {
	_, ok := p.querySet[query]
	return ok
}

// RepresentativeQuery returns the first query seen for the page.
// It stands in for the page when a single query is needed.
func (p *PageSummary) RepresentativeQuery() string {
	if len(p.queries) == 0 {
		return ""
	}
	return p.queries[0]
}

// TotalClicks returns the summed clicks.
func (p *PageSummary) TotalClicks() int {
	return p.totalClicks
}

// TotalImpressions returns the summed impressions.
func (p *PageSummary) TotalImpressions() int {
	return p.totalImpressions
}

// PositionSum returns the sum of per-record positions.
func (p *PageSummary) PositionSum() float64 {
	return p.positionSum
}

// RecordCount returns how many records were folded into the summary.
func (p *PageSummary) RecordCount() int {
	return p.recordCount
}

// AveragePosition returns PositionSum / RecordCount, or 0 for an empty summary.
func (p *PageSummary) AveragePosition() float64 {
	if p.recordCount == 0 {
		return 0
	}
	return p.positionSum / float64(p.recordCount)
}

// Intents returns a copy of the per-query intent map.
func (p *PageSummary) Intents() map[string]Intent {
	out := make(map[string]Intent, len(p.intents))
	for q, i := range p.intents {
		out[q] = i
	}
	return out
}

// PageBuilder accumulates records for one landing page.
type PageBuilder struct {
	summary PageSummary
}

// NewPageBuilder creates a builder for landingPage.
func NewPageBuilder(landingPage string) *PageBuilder {
	return &PageBuilder{
		summary: PageSummary{
			landingPage: landingPage,
			querySet:    make(map[string]struct{}),
			intents:     make(map[string]Intent),
		},
	}
}

// Add folds a record and the intent of its query into the page.
// A repeated query keeps its first position; its intent is overwritten.
func (b *PageBuilder) Add(record RawRecord, intent Intent) {
	s := &b.summary
	if _, ok := s.querySet[record.Query]; !ok {
		s.querySet[record.Query] = struct{}{}
		s.queries = append(s.queries, record.Query)
	}
	s.totalClicks += record.Clicks
	s.totalImpressions += record.Impressions
	s.positionSum += record.Position
	s.recordCount++
	s.intents[record.Query] = intent
}

// Freeze returns the finished summary. The builder must not be used afterwards.
func (b *PageBuilder) Freeze() *PageSummary {
	s := b.summary
	b.summary = PageSummary{}
	return &s
}

// PageIndex is the frozen set of page summaries for one run,
// in first-seen landing page order.
type PageIndex struct {
	pages  []*PageSummary
	byPage map[string]*PageSummary
}

// NewPageIndex creates an index from summaries, keeping their order.
func NewPageIndex(pages []*PageSummary) *PageIndex {
	byPage := make(map[string]*PageSummary, len(pages))
	for _, p := range pages {
		byPage[p.LandingPage()] = p
	}
	return &PageIndex{pages: pages, byPage: byPage}
}

// Pages returns the summaries in first-seen order.
func (idx *PageIndex) Pages() []*PageSummary {
	out := make([]*PageSummary, len(idx.pages))
	copy(out, idx.pages)
	return out
}

// Get returns the summary of landingPage.
func (idx *PageIndex) Get(landingPage string) (*PageSummary, bool) {
	p, ok := idx.byPage[landingPage]
	return p, ok
}

// Len returns the number of pages.
func (idx *PageIndex) Len() int {
	return len(idx.pages)
}
