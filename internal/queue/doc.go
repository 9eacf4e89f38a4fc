// Package queue issues queue numbers to service counters.
// A Sequencer hands out strictly increasing numbers, keeps the history of
// every call and notifies its observers synchronously, in subscription
// order, each time a number is called.
package queue
