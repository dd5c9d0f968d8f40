// Package srs holds the scheduling policy of a learn session: which sides
// are tested, how many correct answers a side needs, how long a card stays
// learned per deck level, and the card/time limits of a session. The policy
// is configuration only; it keeps no scheduling state of its own.
package srs
