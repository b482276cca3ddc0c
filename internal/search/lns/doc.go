// Package lns implements the outer Large Neighborhood Search optimizer:
// it repeatedly relaxes a small, biased sample of collections back to
// their candidate space and asks internal/search/bb to re-solve just
// that neighborhood, committing whenever the result improves on the
// incumbent. The relaxation size grows when improvement plateaus, and
// the whole loop is deadline-driven and cancellation-responsive.
package lns
