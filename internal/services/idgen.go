package services

import (
	"fmt"
	"sync/atomic"
	"time"
)

var (
	orderSeq  uint64
	ticketSeq uint64
)

// NextOrderNumber returns an order identifier of the form
// ORD-<unixMillis>-<sequence>. The sequence is process-local and only
// disambiguates ids minted in the same millisecond.
func NextOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), atomic.AddUint64(&orderSeq, 1))
}

// NextTicketNumber returns a ticket identifier of the form
// TKT-<unixMillis>-<sequence>, matching the ticket subsystem's numbering.
func NextTicketNumber(now time.Time) string {
	return fmt.Sprintf("TKT-%d-%d", now.UnixMilli(), atomic.AddUint64(&ticketSeq, 1))
}
