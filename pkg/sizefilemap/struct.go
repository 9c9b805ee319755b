package sizefilemap

import (
	"github.com/sirupsen/logrus"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/config"
)

type SizeFileMap struct {
	// sizeFileMap maps a file size to every scanned file of that size
	sizeFileMap map[int64][]config.File
	files       int
	log         *logrus.Entry
}

// CandidateSet is a group of at least two same-size files eligible for
// content comparison. Files are ordered by path.
type CandidateSet struct {
	Size  int64
	Files []config.File
}
