// Package idgen issues the human-readable document numbers (REQ-20240815-K3F9)
// and the snowflake ids of stock history entries.
package idgen

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	PrefixRequest    = "REQ"
	PrefixAdjustment = "ADJ"
	PrefixReport     = "PROD"
	PrefixSale       = "SALE"

	suffixAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	suffixLength   = 4
)

// Generator is safe for concurrent use
type Generator struct {
	mu     sync.Mutex
	node   *snowflake.Node
	now    func() time.Time
	rnd    *rand.Rand
	issued map[string]struct{}
}

// New creates a generator for the given snowflake node (0-1023)
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}

	return &Generator{
		node:   node,
		now:    time.Now,
		rnd:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(nodeID))),
		issued: make(map[string]struct{}),
	}, nil
}

// WithClock replaces the time source; tests use it for fixed dates
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
	return g
}

// WithSeed makes the random suffixes reproducible
func (g *Generator) WithSeed(seed uint64) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return g
}

// Now returns the generator's current time
func (g *Generator) Now() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now()
}

// Document returns <PREFIX>-<YYYYMMDD>-<4 chars>, never repeating an issued id
func (g *Generator) Document(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	date := g.now().Format("20060102")
	for {
		id := fmt.Sprintf("%s-%s-%s", prefix, date, g.suffix())
		if _, dup := g.issued[id]; dup {
			continue
		}
		g.issued[id] = struct{}{}
		return id
	}
}

// EntryID returns a new snowflake id
func (g *Generator) EntryID() int64 {
	return g.node.Generate().Int64()
}

func (g *Generator) suffix() string {
	buf := make([]byte, suffixLength)
	for i := range buf {
		buf[i] = suffixAlphabet[g.rnd.IntN(len(suffixAlphabet))]
	}
	return string(buf)
}

// ReportIDForRequest derives the report id of a run that fulfils a request
func ReportIDForRequest(requestID string) string {
	return PrefixReport + "-" + requestID
}
