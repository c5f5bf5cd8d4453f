package services

import (
	"io"
	"math"
	"sync"
)

// ProgressFunc receives an integer percentage in [0,100]. Implementations of
// the upload workflow guarantee the reported values never decrease and reach
// exactly 100 before the operation returns.
type ProgressFunc func(pct int)

// monotonic wraps fn so values are clamped to [0,100] and only strictly
// increasing values pass through. A nil fn yields a no-op.
func monotonic(fn ProgressFunc) ProgressFunc {
	last := -1
	return func(pct int) {
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		if fn == nil || pct <= last {
			return
		}
		last = pct
		fn(pct)
	}
}

// transferReader reports upload progress as the wrapped reader is consumed.
// With a known total it reports actual bytes transferred; otherwise it falls
// back to a fixed step schedule per read. Either way it caps at 99; the
// final 100 is reported by the coordinator once the stored object exists and
// its URL is resolved.
type transferReader struct {
	r      io.Reader
	total  int64
	read   int64
	step   int
	report ProgressFunc
}

const stepIncrement = 10

func newTransferReader(r io.Reader, total int64, report ProgressFunc) *transferReader {
	return &transferReader{r: r, total: total, report: report}
}

func (t *transferReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	t.read += int64(n)

	var pct int
	if t.total > 0 {
		pct = int(t.read * 100 / t.total)
	} else {
		t.step += stepIncrement
		pct = t.step
	}
	if pct > 99 {
		pct = 99
	}
	t.report(pct)

	return n, err
}

// progressAggregator folds the progress of the two upload branches into one
// percentage: each branch weighs 50%, the combined value is rounded, clamped
// to 100, and never emitted lower than a previously emitted value. All
// emissions are funneled through one mutex so callers see a single ordered
// stream regardless of branch interleaving.
type progressAggregator struct {
	mu    sync.Mutex
	parts [2]int
	last  int
	emit  ProgressFunc
}

func newProgressAggregator(emit ProgressFunc) *progressAggregator {
	return &progressAggregator{last: -1, emit: emit}
}

// branch returns the ProgressFunc for one of the two upload branches.
func (a *progressAggregator) branch(i int) ProgressFunc {
	return func(pct int) {
		a.mu.Lock()
		defer a.mu.Unlock()

		if pct > a.parts[i] {
			a.parts[i] = pct
		}

		total := int(math.Round(float64(a.parts[0]+a.parts[1]) / 2))
		if total > 100 {
			total = 100
		}
		if total <= a.last {
			return
		}
		a.last = total
		if a.emit != nil {
			a.emit(total)
		}
	}
}
