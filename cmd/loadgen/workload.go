package main

import (
	"fmt"
	"math/rand"
	"strconv"
)

type opKind int

const (
	opRead opKind = iota
	opCreate
	opDelete
)

// workload decides the next operation and key for one worker.
// Not safe for concurrent use; each worker owns one.
type workload struct {
	name     string
	r        *rand.Rand
	keyspace int
	hot      int
	zipf     *rand.Zipf // nil = uniform keys
}

var workloads = []string{"get_all", "put_all", "get_popular", "mixed"}

func newWorkload(name string, seed int64, keyspace, hot int, zipfS float64) (*workload, error) {
	known := false
	for _, w := range workloads {
		known = known || w == name
	}
	if !known {
		return nil, fmt.Errorf("unknown workload %q (use one of %v)", name, workloads)
	}
	if keyspace < 1 || hot < 1 {
		return nil, fmt.Errorf("keyspace and hot must be positive")
	}
	w := &workload{
		name:     name,
		r:        rand.New(rand.NewSource(seed)),
		keyspace: keyspace,
		hot:      hot,
	}
	if zipfS > 1 {
		w.zipf = rand.NewZipf(w.r, zipfS, 1, uint64(keyspace-1))
	}
	return w, nil
}

// next returns the operation, key and (for creates) value to issue.
func (w *workload) next() (opKind, string, string) {
	switch w.name {
	case "get_all":
		return opRead, w.key(), ""
	case "put_all":
		return opCreate, w.key(), w.value()
	case "get_popular":
		return opRead, "hot_" + strconv.Itoa(w.r.Intn(w.hot)), ""
	default: // mixed: 70% read, 25% create, 5% delete
		op := opRead
		switch n := w.r.Intn(100); {
		case n >= 95:
			op = opDelete
		case n >= 70:
			op = opCreate
		}
		return op, w.key(), w.value()
	}
}

func (w *workload) key() string {
	if w.zipf != nil {
		return "k_" + strconv.FormatUint(w.zipf.Uint64(), 10)
	}
	return "k_" + strconv.Itoa(w.r.Intn(w.keyspace))
}

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// value returns a random 10..50 character alphanumeric string.
func (w *workload) value() string {
	b := make([]byte, 10+w.r.Intn(41))
	for i := range b {
		b[i] = alphabet[w.r.Intn(len(alphabet))]
	}
	return string(b)
}
