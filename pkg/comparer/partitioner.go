package comparer

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/logger"
)

// Partitioner resolves same-size candidate sets into groups of byte-identical
// files by driving the Comparer. Instead of recursing on every divergence
// bucket it keeps an explicit stack of pending comparisons, so arbitrarily
// deep partitioning cannot grow the call stack.
type Partitioner struct {
	cmp *Comparer
	log *logrus.Entry
}

func NewPartitioner(cmp *Comparer) *Partitioner {
	return &Partitioner{
		cmp: cmp,
		log: logger.GetLogger("partitioner"),
	}
}

// task is one pending comparison: a set of files already known to agree on
// their first resumeOffset bytes.
type task struct {
	files        []string
	resumeOffset int64
}

// Partition splits files, all of the given size, into zero or more groups of
// byte-identical members. Each input file lands in at most one group and a
// group always holds at least two files. Groups come back in depth-first
// order of the divergence buckets that produced them, sibling buckets by
// ascending offset, with the pivot that confirmed each group as its first
// member. The order is stable for a given input ordering.
func (p *Partitioner) Partition(files []string, size int64) []Group {
	var groups []Group

	stack := []task{{files: files, resumeOffset: 0}}

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(t.files) < 2 {
			continue
		}

		pivot := t.files[0]
		members := []string{pivot}
		buckets := make(map[PartitionKey][]string)

		// candidates beyond the handle budget run as sequential batches
		// against the same pivot, feeding one shared bucket map
		width := p.cmp.BatchWidth()
		rest := t.files[1:]
		for start := 0; start < len(rest); start += width {
			end := start + width
			if end > len(rest) {
				end = len(rest)
			}

			matched, err := p.cmp.Compare(pivot, rest[start:end], t.resumeOffset, buckets)
			if err != nil {
				p.log.WithError(err).Errorf("Failed comparing batch against pivot %q, dropping %d candidate(s)",
					pivot, end-start)
				continue
			}

			members = append(members, matched...)
		}

		if len(members) > 1 {
			groups = append(groups, Group{Size: size, Files: members})
		}

		// singleton buckets diverged from the pivot at a unique point and
		// from every other bucket earlier, they cannot match anything
		keys := make([]PartitionKey, 0, len(buckets))
		for key, bucket := range buckets {
			if len(bucket) < 2 {
				continue
			}
			keys = append(keys, key)
		}

		// push in descending key order so tasks pop lowest offset first
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Offset != keys[j].Offset {
				return keys[i].Offset > keys[j].Offset
			}
			return keys[i].Byte > keys[j].Byte
		})

		for _, key := range keys {
			stack = append(stack, task{files: buckets[key], resumeOffset: key.Offset})
		}
	}

	return groups
}
