package main

import (
	"math/rand/v2"
	"time"

	"github.com/btree-query-bench/ordidx/index"
)

type WorkloadType string

const (
	OLTP      WorkloadType = "OLTP (90/10)"
	OLAP      WorkloadType = "OLAP (10/90)"
	Reporting WorkloadType = "Reporting (Range)"
	Churn     WorkloadType = "Churn (50/50 insert/delete)"
)

// rangeSpan is the width of a Reporting scan.
const rangeSpan = 100

type observer func(op string, d time.Duration)

// ExecuteWorkload runs ops operations of the given mix against idx over the
// key space [0, keySpace). Misses are expected and not reported as errors.
func ExecuteWorkload(idx index.Index, wType WorkloadType, ops, keySpace int, r *rand.Rand, observe observer) error {
	value := []byte("x")
	for i := 0; i < ops; i++ {
		choice := r.IntN(100)
		key := int64(r.IntN(keySpace))

		var (
			op  string
			err error
		)
		start := time.Now()
		switch wType {
		case OLTP:
			if choice < 90 {
				op = "get"
				_, err = idx.Get(key)
			} else {
				op = "insert"
				err = idx.Insert(key, value)
			}
		case OLAP:
			if choice < 10 {
				op = "get"
				_, err = idx.Get(key)
			} else {
				op = "insert"
				err = idx.Insert(key, value)
			}
		case Reporting:
			op = "range"
			err = drain(idx, key, key+rangeSpan)
		case Churn:
			if choice < 50 {
				op = "insert"
				err = idx.Insert(key, value)
			} else {
				op = "delete"
				err = idx.Delete(key)
			}
		}
		if observe != nil {
			observe(op, time.Since(start))
		}
		if err != nil && !isMiss(err) {
			return err
		}
	}
	return nil
}

func drain(idx index.Index, start, end int64) error {
	it, err := idx.Range(start, end)
	if err != nil {
		return err
	}
	for it.Next() {
	}
	if err := it.Error(); err != nil {
		it.Close()
		return err
	}
	return it.Close()
}

// LoadSequential inserts keys 0..n-1 one by one.
func LoadSequential(idx index.Index, n int, observe observer) error {
	value := []byte("v")
	for k := 0; k < n; k++ {
		start := time.Now()
		if err := idx.Insert(int64(k), value); err != nil {
			return err
		}
		if observe != nil {
			observe("insert", time.Since(start))
		}
	}
	return nil
}

// sortedEntries returns keys 0..n-1 ready for a bulk load.
func sortedEntries(n int) []index.Entry {
	out := make([]index.Entry, n)
	value := []byte("v")
	for k := range out {
		out[k] = index.Entry{Key: int64(k), Value: value}
	}
	return out
}
