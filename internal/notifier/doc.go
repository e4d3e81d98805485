// Package notifier delivers operator-facing messages through the messaging
// adapter.
//
// Delivery is deliberately infallible from the caller's point of view: the
// poll loop reports its own failures through this package, so a send error
// is logged, recorded, and reported as "not delivered" rather than
// propagated. A small in-memory history of attempts feeds the digest.
package notifier
