package texture_cache

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"
)

// outwardOrder returns indices into a slice of length n, starting at center and alternating
// center+1, center-1, center+2, center-2 up to radius steps away. Indices outside [0, n) are skipped.
func outwardOrder(center, radius, n int) []int {
	if n <= 0 {
		return nil
	}
	if center < 0 {
		center = 0
	} else if center >= n {
		center = n - 1
	}

	order := make([]int, 0, 2*radius+1)
	order = append(order, center)
	for d := 1; d <= radius; d++ {
		if i := center + d; i < n {
			order = append(order, i)
		}
		if i := center - d; i >= 0 {
			order = append(order, i)
		}
	}
	return order
}

func (c *textureCacheImpl) StartPrefetch(center, radius int, sources []PrefetchSource) {
	if radius <= 0 {
		radius = c.radius
	}
	snapshot := make([]PrefetchSource, len(sources))
	copy(snapshot, sources)

	c.mu.Lock()
	req := &prefetchRequest{center: center, radius: radius, sources: snapshot, gen: c.gen}
	if c.running {
		c.pending = req
		c.mu.Unlock()
		return
	}
	c.running = true
	c.passes.Add(1)
	id := c.taskID
	c.taskID++
	c.mu.Unlock()

	c.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			c.drain(req)
			return nil, nil
		},
	})
}

// drain runs req and then any request that replaced it while it ran.
func (c *textureCacheImpl) drain(req *prefetchRequest) {
	defer c.passes.Done()
	for req != nil {
		c.runPass(req)

		c.mu.Lock()
		req = c.pending
		c.pending = nil
		if req == nil {
			c.running = false
		}
		c.mu.Unlock()
	}
}

// superseded reports whether a newer request or an invalidation has made req obsolete.
func (c *textureCacheImpl) superseded(req *prefetchRequest) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen != req.gen || c.pending != nil
}

func (c *textureCacheImpl) runPass(req *prefetchRequest) {
	decoded := 0
	for _, i := range outwardOrder(req.center, req.radius, len(req.sources)) {
		if c.superseded(req) {
			c.logger.Debug("prefetch pass superseded", zap.Int("decoded", decoded))
			return
		}
		src := req.sources[i]

		c.mu.Lock()
		_, cached := c.entries[src.Row]
		c.mu.Unlock()
		if cached {
			continue
		}

		e := c.decode(src.Row, src.Path)

		c.mu.Lock()
		if c.gen == req.gen {
			if _, ok := c.entries[src.Row]; !ok {
				c.entries[src.Row] = e
				decoded++
			}
		}
		c.mu.Unlock()
	}
	c.logger.Debug("prefetch pass done", zap.Int("center", req.center), zap.Int("decoded", decoded))
}

func (c *textureCacheImpl) WaitIdle() {
	c.passes.Wait()
}
