package prep

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/dcshock/tabprep/table"
)

// ErrStratify is returned when the labels cannot be split preserving class proportions.
var ErrStratify = errors.New("cannot stratify split")

// Result holds the four partitions of a prepared dataset.
type Result struct {
	XTrain, XTest *table.Frame
	YTrain, YTest table.Labels
}

// splitSizes returns the train and test row counts; the test count is rounded up.
func splitSizes(n int, testSize float64) (nTrain, nTest int, err error) {
	if !(testSize > 0 && testSize < 1) {
		return 0, 0, fmt.Errorf("test size %v: must be between 0 and 1", testSize)
	}
	nTest = int(math.Ceil(testSize * float64(n)))
	nTrain = n - nTest
	if nTrain < 1 || nTest < 1 {
		return 0, 0, fmt.Errorf("%d rows cannot be split with test size %v", n, testSize)
	}
	return nTrain, nTest, nil
}

func checkAligned(X *table.Frame, y table.Labels) error {
	if X.Rows() != len(y.Values) {
		return fmt.Errorf("split: %d feature rows, %d labels", X.Rows(), len(y.Values))
	}
	return nil
}

// ShuffleSplit partitions rows at random without looking at the labels.
func ShuffleSplit(X *table.Frame, y table.Labels, testSize float64, seed int64) (*Result, error) {
	if err := checkAligned(X, y); err != nil {
		return nil, err
	}
	_, nTest, err := splitSizes(X.Rows(), testSize)
	if err != nil {
		return nil, err
	}
	perm := rand.New(rand.NewSource(seed)).Perm(X.Rows())
	return partition(X, y, perm[nTest:], perm[:nTest])
}

// StratifiedSplit partitions rows so each class keeps its share in both partitions.
// Every class needs at least two rows, and each partition must be able to hold at
// least one row per class. The same seed always yields the same partition.
func StratifiedSplit(X *table.Frame, y table.Labels, testSize float64, seed int64) (*Result, error) {
	if err := checkAligned(X, y); err != nil {
		return nil, err
	}
	n := X.Rows()
	nTrain, nTest, err := splitSizes(n, testSize)
	if err != nil {
		return nil, err
	}

	members := make(map[int][]int)
	for i, v := range y.Values {
		members[v] = append(members[v], i)
	}
	classes := make([]int, 0, len(members))
	for c := range members {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	counts := make([]int, len(classes))
	for k, c := range classes {
		counts[k] = len(members[c])
		if counts[k] < 2 {
			return nil, fmt.Errorf("%w: class %d has %d member(s), need at least 2", ErrStratify, c, counts[k])
		}
	}
	if nTest < len(classes) {
		return nil, fmt.Errorf("%w: %d test rows for %d classes", ErrStratify, nTest, len(classes))
	}
	if nTrain < len(classes) {
		return nil, fmt.Errorf("%w: %d train rows for %d classes", ErrStratify, nTrain, len(classes))
	}

	alloc := apportion(counts, n, nTest)
	rng := rand.New(rand.NewSource(seed))
	var train, test []int
	for k, c := range classes {
		idx := append([]int(nil), members[c]...)
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		test = append(test, idx[:alloc[k]]...)
		train = append(train, idx[alloc[k]:]...)
	}
	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })
	return partition(X, y, train, test)
}

// apportion spreads total rows over the classes in proportion to counts using
// largest remainders; ties go to the lower class. A class never gives away its
// last row.
func apportion(counts []int, n, total int) []int {
	alloc := make([]int, len(counts))
	rem := make([]float64, len(counts))
	given := 0
	for k, c := range counts {
		exact := float64(total) * float64(c) / float64(n)
		alloc[k] = int(math.Floor(exact))
		if alloc[k] > c-1 {
			alloc[k] = c - 1
		}
		rem[k] = exact - float64(alloc[k])
		given += alloc[k]
	}
	order := make([]int, len(counts))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool { return rem[order[a]] > rem[order[b]] })
	for given < total {
		progressed := false
		for _, k := range order {
			if given == total {
				break
			}
			if alloc[k] < counts[k]-1 {
				alloc[k]++
				given++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return alloc
}

func partition(X *table.Frame, y table.Labels, train, test []int) (*Result, error) {
	xTrain, err := X.Take(train)
	if err != nil {
		return nil, fmt.Errorf("train partition: %w", err)
	}
	xTest, err := X.Take(test)
	if err != nil {
		return nil, fmt.Errorf("test partition: %w", err)
	}
	return &Result{
		XTrain: xTrain,
		XTest:  xTest,
		YTrain: y.Take(train),
		YTest:  y.Take(test),
	}, nil
}
