package sizefilemap

import (
	"sort"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/config"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/logger"
)

func New(files []config.File) *SizeFileMap {
	sfm := &SizeFileMap{
		sizeFileMap: make(map[int64][]config.File),
		log:         logger.GetLogger("sizefilemap"),
	}

	for _, f := range files {
		sfm.Add(f)
	}

	return sfm
}

func (s *SizeFileMap) Add(f config.File) {
	s.sizeFileMap[f.Size] = append(s.sizeFileMap[f.Size], f)
	s.files++
}

// CandidateSets returns the size buckets holding two or more files, ordered
// by ascending size with members ordered by path. Files with a unique size
// cannot have duplicates and are dropped here.
func (s *SizeFileMap) CandidateSets() []CandidateSet {
	sizes := make([]int64, 0, len(s.sizeFileMap))
	for size, files := range s.sizeFileMap {
		if len(files) < 2 {
			continue
		}
		sizes = append(sizes, size)
	}

	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	sets := make([]CandidateSet, 0, len(sizes))
	for _, size := range sizes {
		members := append([]config.File{}, s.sizeFileMap[size]...)
		sort.Slice(members, func(i, j int) bool { return members[i].Path < members[j].Path })

		sets = append(sets, CandidateSet{Size: size, Files: members})
	}

	s.log.Tracef("%d of %d size(s) are shared by two or more files", len(sets), len(s.sizeFileMap))

	return sets
}

// Length returns the number of distinct file sizes seen.
func (s *SizeFileMap) Length() int {
	return len(s.sizeFileMap)
}

// Files returns the total number of files added.
func (s *SizeFileMap) Files() int {
	return s.files
}
