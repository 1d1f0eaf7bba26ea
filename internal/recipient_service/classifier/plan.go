package classifier

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
)

// OperatorPrefixes maps one operator tag to the national prefixes it owns.
type OperatorPrefixes struct {
	Tag      domain.OperatorTag `yaml:"tag"`
	Prefixes []string           `yaml:"prefixes"`
}

// NumberingPlan describes the target country's numbering rules. It is the
// injected prefix table of the classifier; swap it to reuse the classifier
// for another country.
type NumberingPlan struct {
	Region           string             `yaml:"region"`       // ISO 3166-1 alpha-2, e.g. "CM"
	CountryCode      string             `yaml:"country_code"` // Derived from Region when empty
	NationalLength   int                `yaml:"national_length"`
	NationalPrefixes []string           `yaml:"national_prefixes"` // Empty accepts any leading digit
	Operators        []OperatorPrefixes `yaml:"operators"`
}

// DefaultPlan returns the built-in plan: Cameroon mobile and fixed numbers,
// nine national digits. Tags are generic; the carrier each one stands for is
// noted above it.
func DefaultPlan() *NumberingPlan {
	return &NumberingPlan{
		Region:           "CM",
		CountryCode:      "237",
		NationalLength:   9,
		NationalPrefixes: []string{"6", "2"},
		Operators: []OperatorPrefixes{
			// MTN
			{Tag: domain.OperatorA, Prefixes: []string{"67", "650", "651", "652", "653", "654", "680", "681", "682", "683"}},
			// Orange
			{Tag: domain.OperatorB, Prefixes: []string{"69", "655", "656", "657", "658", "659", "686", "687", "688", "689", "640"}},
			// Nexttel
			{Tag: domain.OperatorC, Prefixes: []string{"66"}},
			// Camtel
			{Tag: domain.OperatorD, Prefixes: []string{"62", "2"}},
		},
	}
}

// LoadPlan reads a YAML numbering plan from path.
func LoadPlan(path string) (*NumberingPlan, error) {
	return LoadPlanWithDefaultRegion(path, "")
}

// LoadPlanWithDefaultRegion reads a YAML numbering plan from path and uses
// region when the file names neither a region nor a country code.
func LoadPlanWithDefaultRegion(path, region string) (*NumberingPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading numbering plan: %w", err)
	}
	return parsePlan(data, region)
}

// ParsePlan decodes and validates a YAML numbering plan.
func ParsePlan(data []byte) (*NumberingPlan, error) {
	return parsePlan(data, "")
}

func parsePlan(data []byte, defaultRegion string) (*NumberingPlan, error) {
	var plan NumberingPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decoding numbering plan: %w", err)
	}
	if plan.Region == "" && plan.CountryCode == "" {
		plan.Region = defaultRegion
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate checks the plan and fills CountryCode from Region when missing.
func (p *NumberingPlan) Validate() error {
	p.Region = strings.ToUpper(strings.TrimSpace(p.Region))
	p.CountryCode = strings.TrimPrefix(strings.TrimSpace(p.CountryCode), "+")
	if p.CountryCode == "" {
		code := CountryCodeForRegion(p.Region)
		if code == 0 {
			return fmt.Errorf("numbering plan: no country code and unknown region %q", p.Region)
		}
		p.CountryCode = strconv.Itoa(code)
	}
	if !isDigits(p.CountryCode) {
		return fmt.Errorf("numbering plan: country code %q is not numeric", p.CountryCode)
	}
	if p.NationalLength <= 0 {
		return fmt.Errorf("numbering plan: national_length must be positive, got %d", p.NationalLength)
	}
	for _, prefix := range p.NationalPrefixes {
		if !isDigits(prefix) {
			return fmt.Errorf("numbering plan: national prefix %q is not numeric", prefix)
		}
	}
	for _, op := range p.Operators {
		if _, err := domain.ParseOperatorTag(string(op.Tag)); err != nil {
			return fmt.Errorf("numbering plan: %w", err)
		}
		if op.Tag == domain.OperatorUnknown {
			return fmt.Errorf("numbering plan: %s cannot own prefixes", domain.OperatorUnknown)
		}
		for _, prefix := range op.Prefixes {
			if !isDigits(prefix) {
				return fmt.Errorf("numbering plan: operator %s prefix %q is not numeric", op.Tag, prefix)
			}
		}
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
