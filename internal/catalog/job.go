package catalog

// SeedJob is one unit of refresh work: crawl a seed site to the given depth,
// then scrape every discovered product URL.
type SeedJob struct {
	Seed     string
	MaxDepth int
}
