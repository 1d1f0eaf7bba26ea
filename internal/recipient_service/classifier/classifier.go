package classifier

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
)

var digitsPattern = regexp.MustCompile(`^\+?\d+$`)

type prefixRule struct {
	prefix string
	tag    domain.OperatorTag
}

// DefaultMaxMemoEntries bounds the memo when Options leaves it unset.
const DefaultMaxMemoEntries = 10000

// Classifier resolves operator and validation status against a NumberingPlan.
// It is safe for concurrent use; results are memoized per input string. The
// memo is dropped wholesale once it holds MaxMemoEntries inputs.
type Classifier struct {
	plan      *NumberingPlan
	rules     []prefixRule // Longest prefix first
	strict    bool
	memo      sync.Map
	memoLen   atomic.Int64
	memoLimit int64
}

// Options tunes a Classifier.
type Options struct {
	// StrictValidation additionally requires libphonenumber to accept a number
	// before it is reported as correct.
	StrictValidation bool

	// MaxMemoEntries caps the number of memoized inputs. Zero means
	// DefaultMaxMemoEntries; a negative value disables the memo.
	MaxMemoEntries int
}

// New creates a Classifier for plan. A nil plan uses DefaultPlan.
func New(plan *NumberingPlan) *Classifier {
	return NewWithOptions(plan, Options{})
}

// NewWithOptions is New with explicit options.
func NewWithOptions(plan *NumberingPlan, opts Options) *Classifier {
	if plan == nil {
		plan = DefaultPlan()
	}
	limit := opts.MaxMemoEntries
	if limit == 0 {
		limit = DefaultMaxMemoEntries
	}
	c := &Classifier{plan: plan, strict: opts.StrictValidation, memoLimit: int64(limit)}
	for _, op := range plan.Operators {
		for _, prefix := range op.Prefixes {
			c.rules = append(c.rules, prefixRule{prefix: prefix, tag: op.Tag})
		}
	}
	sort.SliceStable(c.rules, func(i, j int) bool {
		return len(c.rules[i].prefix) > len(c.rules[j].prefix)
	})
	return c
}

// Plan returns the numbering plan the classifier was built with.
func (c *Classifier) Plan() *NumberingPlan {
	return c.plan
}

// Classify returns the operator and validation status of raw. raw is used
// as-is; callers normalize first.
func (c *Classifier) Classify(raw string) domain.Classification {
	if cached, ok := c.memo.Load(raw); ok {
		return cached.(domain.Classification)
	}
	result := c.classify(raw)
	c.remember(raw, result)
	return result
}

func (c *Classifier) remember(raw string, result domain.Classification) {
	if c.memoLimit < 0 {
		return
	}
	if c.memoLen.Add(1) > c.memoLimit {
		c.memo.Clear()
		c.memoLen.Store(1)
	}
	c.memo.Store(raw, result)
}

func (c *Classifier) classify(raw string) domain.Classification {
	unknown := domain.Classification{Operator: domain.OperatorUnknown, Status: domain.StatusUnknownFormat}
	if raw == "" || !digitsPattern.MatchString(raw) {
		return unknown
	}

	national, ok := c.nationalNumber(raw)
	if !ok {
		return unknown
	}

	result := domain.Classification{Operator: c.operatorFor(national), Status: domain.StatusCorrect}
	switch {
	case len(national) < c.plan.NationalLength:
		result.Status = domain.StatusTooShort
	case len(national) > c.plan.NationalLength:
		result.Status = domain.StatusTooLong
	case !c.hasNationalPrefix(national):
		result.Status = domain.StatusUnknownFormat
	case c.strict && !c.libphonenumberAccepts(national):
		result.Status = domain.StatusUnknownFormat
	}
	return result
}

// nationalNumber strips the international part of raw. It fails for numbers
// that are international but belong to another country.
func (c *Classifier) nationalNumber(raw string) (string, bool) {
	cc := c.plan.CountryCode
	digits := strings.TrimPrefix(raw, "+")
	international := strings.HasPrefix(raw, "+")

	if !international && strings.HasPrefix(digits, "00") {
		international = true
		digits = digits[2:]
	}
	if !international && len(digits) > c.plan.NationalLength && strings.HasPrefix(digits, cc) {
		international = true
	}
	if international {
		if !strings.HasPrefix(digits, cc) {
			return "", false
		}
		digits = strings.TrimPrefix(digits, cc)
	}
	return digits, true
}

func (c *Classifier) operatorFor(national string) domain.OperatorTag {
	for _, rule := range c.rules {
		if strings.HasPrefix(national, rule.prefix) {
			return rule.tag
		}
	}
	return domain.OperatorUnknown
}

func (c *Classifier) hasNationalPrefix(national string) bool {
	if len(c.plan.NationalPrefixes) == 0 {
		return true
	}
	for _, prefix := range c.plan.NationalPrefixes {
		if strings.HasPrefix(national, prefix) {
			return true
		}
	}
	return false
}
