package storage

// Package storage provides a best-effort audit trail of notification
// attempts. It never holds loop state; the poller stays correct with
// storage disabled, failing, or deleted mid-run.
