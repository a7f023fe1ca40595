package testanalysis

import (
	"sort"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/stbenjam/sippy-chat/pkg/aggregation"
)

// Classify folds every failing observation across plain results and
// aggregated per-run outcomes into deduplicated, categorized groups. A
// failing observation is a flake iff the same test name also passed
// somewhere in this batch; skipped observations contribute nothing here.
// The result is a pure function of the inputs.
func (a *Analyzer) Classify(results []TestCaseResult, aggregates []aggregation.SuiteSummary) []ClassifiedFailure {
	return a.classifyObservations(observationsFor(results, aggregates))
}

func (a *Analyzer) classifyObservations(observations []observation) []ClassifiedFailure {
	passedNames := passedTestNames(observations)

	type groupKey struct {
		testName  string
		category  Category
		signature string
	}
	groups := map[groupKey]*ClassifiedFailure{}
	var groupOrder []groupKey

	for _, current := range observations {
		if current.status != TestFailed && current.status != TestErrored {
			continue
		}
		category, cleaned := a.categorizer.Categorize(current.message)
		key := groupKey{testName: current.testName, category: category, signature: cleaned}
		if existing, ok := groups[key]; ok {
			existing.OccurrenceCount++
			continue
		}

		representative := cleaned
		if category == CategoryUnknown {
			// keep the raw text so the operator can see what we could not match
			representative = current.message
		}
		groups[key] = &ClassifiedFailure{
			TestName:              current.testName,
			IsFlake:               passedNames.Has(current.testName),
			Category:              category,
			RepresentativeMessage: representative,
			OccurrenceCount:       1,
		}
		groupOrder = append(groupOrder, key)
	}

	classified := make([]ClassifiedFailure, 0, len(groupOrder))
	for _, key := range groupOrder {
		classified = append(classified, *groups[key])
	}

	sort.SliceStable(classified, func(i, j int) bool {
		if a.categorizer.rank(classified[i].Category) != a.categorizer.rank(classified[j].Category) {
			return a.categorizer.rank(classified[i].Category) < a.categorizer.rank(classified[j].Category)
		}
		if classified[i].OccurrenceCount != classified[j].OccurrenceCount {
			return classified[i].OccurrenceCount > classified[j].OccurrenceCount
		}
		return classified[i].TestName < classified[j].TestName
	})
	return classified
}

// passedTestNames indexes which tests passed at least once in the batch, so
// flake determination is constant time per failing observation.
func passedTestNames(observations []observation) sets.Set[string] {
	passed := sets.New[string]()
	for _, current := range observations {
		if current.status == TestPassed {
			passed.Insert(current.testName)
		}
	}
	return passed
}
