// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cache provides a tiny fixed-TTL in-process cache.

	c := cache.New[models.AnalyticsOverview](60 * time.Second)
	if v, ok := c.Get("overview"); ok {
		return v
	}
	v := computeOverview()
	c.Set("overview", v)

Entries expire lazily on the next Get; there is no background sweeper.
Used for the analytics overview endpoint, where staleness up to the TTL
is acceptable and the keyspace stays tiny.
*/
package cache
