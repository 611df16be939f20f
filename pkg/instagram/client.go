package instagram

import (
	"math/rand"
	"sync"
	"time"
)

// Client bundles the engine operations against the upstream platform:
// resolving post URLs to internal ids and submitting comments with a replayed
// cookie session. A single Client is shared across pool workers, so the
// pacing source is guarded.
type Client struct {
	http   Requester
	rand   *rand.Rand
	randMu sync.Mutex
	sleep  func(time.Duration)
}

// ClientOptions configures a Client. Requester is mandatory; Rand and Sleep
// default to a time-seeded source and time.Sleep and exist so tests can make
// the pacing deterministic.
type ClientOptions struct {
	Requester Requester
	Rand      *rand.Rand
	Sleep     func(time.Duration)
}

func NewClient(opts ClientOptions) *Client {
	c := &Client{
		http:  opts.Requester,
		rand:  opts.Rand,
		sleep: opts.Sleep,
	}
	if c.http == nil {
		c.http = NewHTTPRequester()
	}
	if c.rand == nil {
		c.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
	return c
}

// pacingDelay draws the pre-request pause, uniform between 1 and 3 seconds.
func (c *Client) pacingDelay() time.Duration {
	c.randMu.Lock()
	defer c.randMu.Unlock()
	return time.Duration((c.rand.Float64()*2 + 1) * float64(time.Second))
}
