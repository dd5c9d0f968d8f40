// Package events carries typed change notifications between the category
// tree and its consumers. Instead of an open-ended observer callback, a
// mutation produces exactly one Event value which the dispatcher delivers
// synchronously to every registered handler, in registration order. The
// synchronous delivery is load-bearing: the learn session relies on a
// mutation's event re-entering it before the mutating call returns.
package events
