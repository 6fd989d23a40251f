package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/recls/internal/files/filesystem"
	"github.com/vvka-141/recls/pkg/recls"
)

func processTree() *filesystem.MemoryFileSystem {
	mfs := filesystem.NewMemoryFileSystem("/work")
	mfs.AddFile("1.txt", "x")
	mfs.AddFile("2.txt", "x")
	mfs.AddFile("3.txt", "x")
	mfs.AddFile("deep/4.txt", "x")
	return mfs
}

func TestProcess_VisitsEveryMatch(t *testing.T) {
	e := newMemoryEngine(processTree())

	var names []string
	err := e.Process("/work", recls.Match("*.txt"), recls.Recursive, func(entry *recls.Entry) recls.Control {
		names = append(names, entry.SearchRelativePath())
		return recls.Continue
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1.txt", "2.txt", "3.txt", "deep/4.txt"}, names)
}

func TestProcess_CancelStopsAfterSecondCall(t *testing.T) {
	e := newMemoryEngine(processTree())

	calls := 0
	err := e.Process("/work", recls.Match("*.txt"), recls.Recursive, func(*recls.Entry) recls.Control {
		calls++
		if calls == 2 {
			return recls.Cancel
		}
		return recls.Continue
	})
	assert.ErrorIs(t, err, recls.ErrSearchCancelled)
	assert.Equal(t, 2, calls)
}

func TestProcess_NoMatchesIsNotAnError(t *testing.T) {
	e := newMemoryEngine(processTree())

	calls := 0
	err := e.Process("/work", recls.Match("*.none"), recls.Recursive, func(*recls.Entry) recls.Control {
		calls++
		return recls.Continue
	})
	assert.NoError(t, err)
	assert.Zero(t, calls)
}

func TestProcess_PropagatesValidationErrors(t *testing.T) {
	e := newMemoryEngine(processTree())

	err := e.Process("/work", recls.Match(".."), 0, func(*recls.Entry) recls.Control {
		t.Fatal("callback must not run")
		return recls.Continue
	})
	assert.ErrorIs(t, err, recls.ErrDotRecursiveSearch)
}

func TestProcess_PanicBecomesUnexpected(t *testing.T) {
	e := newMemoryEngine(processTree())

	err := e.Process("/work", recls.MatchAll, 0, func(*recls.Entry) recls.Control {
		panic("callback failure")
	})
	assert.ErrorIs(t, err, recls.ErrUnexpected)
}

func TestProcess_ReleasesEveryEntry(t *testing.T) {
	e := newMemoryEngine(processTree())
	before, _ := recls.Diagnostics()

	var kept *recls.Entry
	err := e.Process("/work", recls.Match("*.txt"), recls.Recursive, func(entry *recls.Entry) recls.Control {
		if kept == nil {
			kept = entry.Copy()
		}
		return recls.Continue
	})
	require.NoError(t, err)

	during, _ := recls.Diagnostics()
	assert.Equal(t, before+1, during, "only the copied entry stays alive")
	assert.Equal(t, "/work/1.txt", kept.Path())

	kept.Close()
	after, _ := recls.Diagnostics()
	assert.Equal(t, before, after)
}
