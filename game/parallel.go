package game

import (
	"math/rand"
	"sync"

	"github.com/pthm-cable/formica/systems"
	"github.com/pthm-cable/formica/telemetry"
)

// parallelThreshold is the minimum agent count to use the worker pool.
// Below this, a single chunk is faster due to goroutine overhead.
const parallelThreshold = 64

// workChunk represents a range of agents for a worker to process.
// Each chunk owns its RNG and event counters.
type workChunk struct {
	start, end int
	rng        *rand.Rand
	counts     *telemetry.Counts
}

// parallelState holds resources for the parallel agent pass.
type parallelState struct {
	ants       []systems.Ant
	rngs       []*rand.Rand
	counts     []telemetry.Counts
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(numWorkers int) *parallelState {
	rngs := make([]*rand.Rand, numWorkers)
	for i := range rngs {
		rngs[i] = rand.New(rand.NewSource(int64(i)))
	}
	return &parallelState{
		numWorkers: numWorkers,
		rngs:       rngs,
		counts:     make([]telemetry.Counts, numWorkers),
		ants:       make([]systems.Ant, 0, 1024),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(field systems.Field, params systems.ForageParams) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(field, params)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(field systems.Field, params systems.ForageParams) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.computeChunk(field, params, chunk)
			p.doneChan <- struct{}{}
		}
	}
}

// computeChunk updates a contiguous range of agents.
func (p *parallelState) computeChunk(field systems.Field, params systems.ForageParams, chunk workChunk) {
	for i := chunk.start; i < chunk.end; i++ {
		chunk.counts.Add(p.ants[i].Update(field, chunk.rng, params))
	}
}

// updateAgentsParallel splits the agent pass across the worker pool.
// Agents touch the grid through the striped SyncGrid, so every cell
// update is atomic. Chunk RNGs are reseeded from the game RNG each tick,
// but cell interleaving between chunks is not reproducible.
func (g *Game) updateAgentsParallel() {
	p := g.parallel

	// Phase A: collect component pointers (single-threaded).
	// The world is not modified during the pass, so they stay valid.
	p.ants = p.ants[:0]
	query := g.agentFilter.Query()
	for query.Next() {
		pos, heading, forager := query.Get()
		p.ants = append(p.ants, systems.Ant{Pos: pos, Heading: heading, State: forager})
	}

	n := len(p.ants)
	if n == 0 {
		return
	}

	for _, rng := range p.rngs {
		rng.Seed(g.rng.Int63())
	}

	// Phase B: compute, single chunk for small colonies
	if n < parallelThreshold {
		p.computeChunk(g.syncGrid, g.forage, workChunk{start: 0, end: n, rng: p.rngs[0], counts: &p.counts[0]})
	} else {
		g.computeParallel(n)
	}

	// Phase C: merge per-chunk event counts
	for i := range p.counts {
		g.collector.RecordCounts(&p.counts[i])
	}
}

// computeParallel dispatches work to the worker pool.
func (g *Game) computeParallel(n int) {
	p := g.parallel

	// Ensure workers are running
	if !p.running {
		p.startWorkers(g.syncGrid, g.forage)
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end, rng: p.rngs[w], counts: &p.counts[w]}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}
