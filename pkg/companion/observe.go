package companion

// Subscribe registers an observer of the client state. The returned channel
// immediately replays the current view and then carries every state change,
// conflated to the most recent value for slow consumers. The cancel func
// removes the subscription and closes the channel.
func (c *Client) Subscribe() (<-chan View, func()) {
	ch := make(chan View, 1)
	ch <- c.View()

	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.subMu.Unlock()

	cancel := func() {
		c.subMu.Lock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
		c.subMu.Unlock()
	}
	return ch, cancel
}

func (c *Client) notify() {
	v := c.View()
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}
