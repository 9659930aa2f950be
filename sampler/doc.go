// Package sampler answers one question: return at most K items from a stream,
// favouring higher-priority items, with a result that does not depend on the
// order the stream arrives in.
//
// The mechanism is hash-prefix thinning. Each item is hashed with a stable
// 64-bit hash; an item is kept while its hash has enough trailing zero bits
// to clear the current mask. Whenever the kept list outgrows K the mask gains
// one more low bit, which evicts about half of the list — so the sampler
// never holds more than K items, and whether an item survives depends only on
// its own hash and the final mask, never on arrival order.
//
// The price of that stability is slack: the result can hold anywhere from 0
// to K items, with an expectation near K/2 right after a mask step. Callers
// accept the slack; it is the trade that makes tile sampling stable while the
// viewport pans.
//
// PrioritySampler stratifies the same mechanism by an integer priority: each
// stratum thins independently, strata are paid out from the highest priority
// down against the remaining budget, and once some stratum alone has seen K
// items, lower-priority items are not even hashed.
package sampler
