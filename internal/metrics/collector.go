package metrics

import (
	"encoding/json"
	"sort"
	"sync"
)

// MetricItem stores the measurements of one piece of text.
type MetricItem struct {
	Bytes  int `json:"bytes"`
	Tokens int `json:"tokens"`
	Lines  int `json:"lines"`
}

// Add adds the given measurements to this item.
func (m *MetricItem) Add(bytes, tokens, lines int) {
	m.Bytes += bytes
	m.Tokens += tokens
	m.Lines += lines
}

type job struct {
	key     string
	content string
}

// Collector measures report blocks on a pool of workers. Keys that are added
// more than once accumulate.
type Collector struct {
	mu    sync.Mutex
	wg    sync.WaitGroup
	jobs  chan job
	Items map[string]MetricItem
	Ctr   Counter
}

// NewCollector starts workers goroutines counting with counter.
func NewCollector(counter Counter, workers int) *Collector {
	if workers < 1 {
		workers = 1
	}

	c := &Collector{
		jobs:  make(chan job, workers*2),
		Items: make(map[string]MetricItem),
		Ctr:   counter,
	}

	c.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go c.worker()
	}
	return c
}

func (c *Collector) worker() {
	defer c.wg.Done()

	for j := range c.jobs {
		bytes, tokens, lines := c.Ctr.Count(j.content)

		c.mu.Lock()
		item := c.Items[j.key]
		item.Add(bytes, tokens, lines)
		c.Items[j.key] = item
		c.mu.Unlock()
	}
}

// Add queues content for measuring under key. It must not be called after Wait.
func (c *Collector) Add(key string, content string) {
	c.jobs <- job{key: key, content: content}
}

// AddBlocks queues every block of a report.
func (c *Collector) AddBlocks(blocks []Block) {
	for _, b := range blocks {
		c.Add(b.Name, b.Text)
	}
}

// Wait stops accepting work and blocks until every queued job is counted.
// It is idempotent.
func (c *Collector) Wait() {
	c.mu.Lock()
	if c.jobs != nil {
		close(c.jobs)
		c.jobs = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// Total sums every item.
func (c *Collector) Total() MetricItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sum MetricItem
	for _, v := range c.Items {
		sum.Add(v.Bytes, v.Tokens, v.Lines)
	}
	return sum
}

// Entry is one keyed measurement.
type Entry struct {
	Key string
	MetricItem
}

// Entries returns the items ordered by tokens, largest first, then by key.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry, 0, len(c.Items))
	for k, v := range c.Items {
		entries = append(entries, Entry{Key: k, MetricItem: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Tokens != entries[j].Tokens {
			return entries[i].Tokens > entries[j].Tokens
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// MarshalJSON marshals the items keyed by block name.
func (c *Collector) MarshalJSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return json.Marshal(c.Items)
}
