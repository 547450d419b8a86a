// Package redis implements the transaction and account stores on Redis.
//
// Every run writes under its own namespace, <prefix><run>:, so concurrent or
// repeated runs against one server never see each other's state.
package redis

import (
	"strconv"
)

type keyspace struct {
	base string
}

func newKeyspace(prefix, runID string) keyspace {
	return keyspace{base: prefix + runID + ":"}
}

func (k keyspace) transaction(id uint32) string {
	return k.base + "tx:" + strconv.FormatUint(uint64(id), 10)
}

func (k keyspace) account(client uint16) string {
	return k.base + "account:" + strconv.FormatUint(uint64(client), 10)
}

func (k keyspace) clients() string {
	return k.base + "clients"
}
