package testanalysis

import "regexp"

// Category is a closed taxonomy of failure causes.
type Category string

const (
	CategoryOperatorInstall   Category = "OperatorInstall"
	CategoryUpgradeFailure    Category = "UpgradeFailure"
	CategoryNetworkTimeout    Category = "NetworkTimeout"
	CategoryInfraProvisioning Category = "InfraProvisioning"
	CategoryAssertionFailure  Category = "AssertionFailure"
	CategoryUnknown           Category = "Unknown"
)

// Rule maps a cleaned failure message onto a category.
type Rule struct {
	Category Category
	Pattern  *regexp.Regexp
}

// DefaultRules returns the production rule table. Rules are evaluated in
// order and the first match wins, so this order is part of the
// classification contract: cluster operator problems outrank everything
// because they are usually the root cause when an install goes sideways,
// and reordering entries is a behavior change, not a cleanup.
func DefaultRules() []Rule {
	return []Rule{
		{CategoryOperatorInstall, regexp.MustCompile(`(?i)clusteroperator|cluster operator|operator[^.]{0,80}(degraded|progressing|not available|unavailable)|failed to install|cluster install|bootstrap fail`)},
		{CategoryUpgradeFailure, regexp.MustCompile(`(?i)upgrade`)},
		{CategoryNetworkTimeout, regexp.MustCompile(`(?i)i/o timeout|dial tcp|connection (refused|reset)|no route to host|\bdns\b|context deadline exceeded|timed out|timeout`)},
		{CategoryInfraProvisioning, regexp.MustCompile(`(?i)provision|insufficient quota|quota exceeded|insufficient capacity|boskos|failed to acquire lease|registry[^.]{0,40}(503|unavailable)`)},
		{CategoryAssertionFailure, regexp.MustCompile(`(?i)expected[^.]{0,120}(got|but|to be|to have)|assertion|\bassert\b|should (be|not|have)|^fail: `)},
	}
}

// Categorizer classifies failure messages with an immutable ordered rule
// table. It is read-only after construction and safe to share across
// concurrent analyses.
type Categorizer struct {
	rules []Rule
}

// NewCategorizer builds a categorizer over the given ordered rules. Tests
// substitute their own tables; production uses DefaultRules.
func NewCategorizer(rules []Rule) *Categorizer {
	owned := make([]Rule, len(rules))
	copy(owned, rules)
	return &Categorizer{rules: owned}
}

// Categorize cleans the raw message and returns the category of the first
// matching rule along with the cleaned text. It never fails: a message no
// rule recognizes degrades to CategoryUnknown.
func (c *Categorizer) Categorize(rawMessage string) (Category, string) {
	cleaned := CleanMessage(rawMessage)
	for _, rule := range c.rules {
		if rule.Pattern.MatchString(cleaned) {
			return rule.Category, cleaned
		}
	}
	return CategoryUnknown, cleaned
}

// rank orders categories by their first appearance in the rule table, with
// CategoryUnknown sorting last. Report ordering leans on this.
func (c *Categorizer) rank(category Category) int {
	for i, rule := range c.rules {
		if rule.Category == category {
			return i
		}
	}
	return len(c.rules)
}
