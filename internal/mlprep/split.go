package mlprep

import (
	"math"
	"math/rand"
	"sort"
)

// StratifiedSplit partitions row indices into train and test sets, keeping
// each label's share of the population in both partitions. The same labels,
// test size and seed always produce the same partitions: classes are visited
// in sorted order and one seeded source drives every shuffle. The split runs
// before any statistic is fitted, so nothing here sees feature values.
func StratifiedSplit(labels []int, testSize float64, seed int64) (train, test []int) {
	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	for _, c := range classes {
		indices := byClass[c]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		n := len(indices)
		nTest := int(math.Round(float64(n) * testSize))
		// Keep both partitions non-empty for any class with 2+ rows.
		if nTest == 0 && n > 1 && testSize > 0 {
			nTest = 1
		}
		if nTest >= n && n > 1 {
			nTest = n - 1
		}

		test = append(test, indices[:nTest]...)
		train = append(train, indices[nTest:]...)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test
}
