package chain

import "sync"

// Handler responds to a request. Route handlers and error handlers have this
// shape; they must write the response before returning.
type Handler func(res *Response, req *Request)

// Link is one step of a Chain. It continues the chain by calling c.Next, or
// finishes the request by ending the response or calling c.Stop.
type Link func(res *Response, req *Request, c *Chain)

// Chain is an ordered queue of pending links for one request.
type Chain struct {
	mu    sync.Mutex
	queue []Link
	ran   int
}

// New returns an empty chain.
func New() *Chain {
	return &Chain{}
}

// Add appends a link. A nil link is ignored.
func (c *Chain) Add(link Link) {
	if link == nil {
		return
	}
	c.mu.Lock()
	c.queue = append(c.queue, link)
	c.mu.Unlock()
}

// AddAll appends every link in order.
func (c *Chain) AddAll(links []Link) {
	for _, link := range links {
		c.Add(link)
	}
}

// Next removes the head link and invokes it with this chain. When no link is
// left the response is ended: every link continued, so the request is over.
func (c *Chain) Next(res *Response, req *Request) {
	c.mu.Lock()
	if len(c.queue) == 0 {
		c.mu.Unlock()
		res.End()
		return
	}
	link := c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	c.ran++
	c.mu.Unlock()

	link(res, req, c)
}

// Stop ends the response without invoking the remaining links.
func (c *Chain) Stop(res *Response, req *Request) {
	res.End()
}

// Len returns the number of links still queued.
func (c *Chain) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Ran returns how many links have been invoked so far.
func (c *Chain) Ran() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ran
}

// Decorate wraps a handler into a link that runs the handler, if any, and
// then always continues the chain.
func Decorate(h Handler) Link {
	return func(res *Response, req *Request, c *Chain) {
		if h != nil {
			h(res, req)
		}
		c.Next(res, req)
	}
}
