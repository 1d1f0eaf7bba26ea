package classifier

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
)

func TestClassifier_Classify_DefaultPlan(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name     string
		input    string
		operator domain.OperatorTag
		status   domain.ValidationStatus
	}{
		{"international with plus", "+237670000000", domain.OperatorA, domain.StatusCorrect},
		{"international without plus", "237699887766", domain.OperatorB, domain.StatusCorrect},
		{"double zero prefix", "00237655000000", domain.OperatorB, domain.StatusCorrect},
		{"local form", "660000000", domain.OperatorC, domain.StatusCorrect},
		{"fixed line", "222123456", domain.OperatorD, domain.StatusCorrect},
		{"valid but unknown operator", "612345678", domain.OperatorUnknown, domain.StatusCorrect},
		{"too short", "67000", domain.OperatorA, domain.StatusTooShort},
		{"too long local", "6700000000", domain.OperatorA, domain.StatusTooLong},
		{"too long international", "+2376700000001", domain.OperatorA, domain.StatusTooLong},
		{"country code only", "+237", domain.OperatorUnknown, domain.StatusTooShort},
		{"other country", "+33612345678", domain.OperatorUnknown, domain.StatusUnknownFormat},
		{"bad national prefix", "512345678", domain.OperatorUnknown, domain.StatusUnknownFormat},
		{"empty", "", domain.OperatorUnknown, domain.StatusUnknownFormat},
		{"letters", "abc", domain.OperatorUnknown, domain.StatusUnknownFormat},
		{"plus only", "+", domain.OperatorUnknown, domain.StatusUnknownFormat},
		{"not normalized", "67 000 0000", domain.OperatorUnknown, domain.StatusUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.input)
			assert.Equal(t, tt.operator, got.Operator)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.status == domain.StatusCorrect, got.IsValid())
		})
	}
}

func TestClassifier_Classify_IsPure(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	inputs := []string{"", "+", "abc", "6", "+237", "00", "12-34"}
	for i := 0; i < 60; i++ {
		var sb strings.Builder
		if rng.Intn(3) == 0 {
			sb.WriteByte('+')
		}
		n := rng.Intn(18)
		for j := 0; j < n; j++ {
			if rng.Intn(20) == 0 {
				sb.WriteByte('x')
				continue
			}
			sb.WriteByte(byte('0' + rng.Intn(10)))
		}
		inputs = append(inputs, sb.String())
	}

	shared := New(nil)
	for _, input := range inputs {
		first := shared.Classify(input)
		second := shared.Classify(input)
		fresh := New(nil).Classify(input)
		assert.Equal(t, first, second, "input %q", input)
		assert.Equal(t, first, fresh, "input %q", input)
	}
}

func TestClassifier_MemoIsBounded(t *testing.T) {
	memoEntries := func(c *Classifier) int {
		n := 0
		c.memo.Range(func(_, _ any) bool {
			n++
			return true
		})
		return n
	}

	c := NewWithOptions(nil, Options{MaxMemoEntries: 8})
	for i := 0; i < 100; i++ {
		input := fmt.Sprintf("6700%05d", i)
		assert.Equal(t, New(nil).Classify(input), c.Classify(input), "input %q", input)
		assert.LessOrEqual(t, memoEntries(c), 8)
	}
	assert.Equal(t, domain.StatusCorrect, c.Classify("670000001").Status)

	uncached := NewWithOptions(nil, Options{MaxMemoEntries: -1})
	assert.Equal(t, domain.OperatorA, uncached.Classify("670000001").Operator)
	assert.Zero(t, memoEntries(uncached))

	assert.Equal(t, int64(DefaultMaxMemoEntries), New(nil).memoLimit)
}

func TestClassifier_StrictOnlyDowngrades(t *testing.T) {
	lenient := New(nil)
	strict := NewWithOptions(nil, Options{StrictValidation: true})

	inputs := []string{
		"+237670000000", "237699887766", "612345678", "222123456", "660000000",
		"67000", "+33612345678", "", "abc", "00237655000000",
	}
	for _, input := range inputs {
		s := strict.Classify(input)
		l := lenient.Classify(input)
		assert.Equal(t, l.Operator, s.Operator, "input %q", input)
		if s.IsValid() {
			assert.True(t, l.IsValid(), "strict accepted %q but lenient did not", input)
		}
	}
}

func TestClassifier_ToE164(t *testing.T) {
	c := New(nil)

	tests := map[string]string{
		"612345678":      "+237612345678",
		"237699887766":   "+237699887766",
		"+237670000000":  "+237670000000",
		"00237655000000": "+237655000000",
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := c.ToE164(input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := c.ToE164("67000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidFormat))
}

func TestClassifier_CustomPlan(t *testing.T) {
	plan, err := ParsePlan([]byte(`
region: fr
national_length: 9
national_prefixes: ["6", "7"]
operators:
  - tag: OPERATOR_A
    prefixes: ["61", "62"]
  - tag: OPERATOR_B
    prefixes: ["6"]
`))
	require.NoError(t, err)
	assert.Equal(t, "FR", plan.Region)
	assert.Equal(t, "33", plan.CountryCode)

	c := New(plan)
	got := c.Classify("+33612345678")
	assert.Equal(t, domain.OperatorA, got.Operator, "longest prefix wins")
	assert.Equal(t, domain.StatusCorrect, got.Status)

	got = c.Classify("+33652345678")
	assert.Equal(t, domain.OperatorB, got.Operator)

	got = c.Classify("+237670000000")
	assert.Equal(t, domain.StatusUnknownFormat, got.Status)
}

func TestParsePlan_Errors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":         "region: [",
		"unknown region":   "region: ZZ\nnational_length: 9",
		"non numeric code": "country_code: abc\nnational_length: 9",
		"missing length":   "country_code: \"237\"",
		"bad prefix":       "country_code: \"237\"\nnational_length: 9\nnational_prefixes: [\"6x\"]",
		"bad tag":          "country_code: \"237\"\nnational_length: 9\noperators:\n  - tag: MTN\n    prefixes: [\"67\"]",
		"unknown owns":     "country_code: \"237\"\nnational_length: 9\noperators:\n  - tag: UNKNOWN\n    prefixes: [\"67\"]",
		"bad operator pfx": "country_code: \"237\"\nnational_length: 9\noperators:\n  - tag: OPERATOR_A\n    prefixes: [\"+67\"]",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePlan([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestDefaultPlan_IsValid(t *testing.T) {
	plan := DefaultPlan()
	require.NoError(t, plan.Validate())
	assert.Equal(t, "237", plan.CountryCode)
	assert.Equal(t, fmt.Sprint(CountryCodeForRegion(plan.Region)), plan.CountryCode)
}

func TestLoadPlan_SampleFileMatchesDefault(t *testing.T) {
	plan, err := LoadPlan(filepath.Join("..", "..", "..", "configs", "numbering_plan.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPlan(), plan)
}

func TestLoadPlanWithDefaultRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("national_length: 9\n"), 0600))

	plan, err := LoadPlanWithDefaultRegion(path, "cm")
	require.NoError(t, err)
	assert.Equal(t, "CM", plan.Region)
	assert.Equal(t, "237", plan.CountryCode)

	_, err = LoadPlan(path)
	assert.Error(t, err, "no region and no country code")

	_, err = LoadPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
