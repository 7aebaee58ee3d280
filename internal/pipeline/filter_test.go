package pipeline

import (
	"mlsync/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldIgnore(t *testing.T) {
	ignoreList := []string{".git", ".DS_Store", "*.tmp", "*.swp"}

	tests := []struct {
		path    string
		ignored bool
	}{
		{"/data/train/a.jpg", false},
		{"/data/train/a.jpg.tmp", true},
		{"/data/.git/objects/ab", true},
		{"/data/train/.DS_Store", true},
		{"/data/train/.a.jpg.swp", true},
		{"/data/tmp/a.jpg", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ignored, shouldIgnore(tt.path, ignoreList), tt.path)
	}
}

func TestFilterDropsIgnoredEvents(t *testing.T) {
	in := make(chan model.FileEvent, 4)
	out := Filter(in, []string{"*.tmp"})

	in <- model.FileEvent{Type: model.EventCreate, Path: "/data/a.jpg"}
	in <- model.FileEvent{Type: model.EventCreate, Path: "/data/a.jpg.tmp"}
	in <- model.FileEvent{Type: model.EventWrite, Path: "/data/b.jpg"}
	close(in)

	var got []string
	for event := range out {
		got = append(got, event.Path)
	}

	assert.Equal(t, []string{"/data/a.jpg", "/data/b.jpg"}, got)
}
