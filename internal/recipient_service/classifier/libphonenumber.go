package classifier

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"

	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
)

// CountryCodeForRegion returns the calling code of an ISO region, or 0 when
// libphonenumber does not know the region.
func CountryCodeForRegion(region string) int {
	if region == "" {
		return 0
	}
	return phonenumbers.GetCountryCodeForRegion(region)
}

func (c *Classifier) libphonenumberAccepts(national string) bool {
	num, err := phonenumbers.Parse("+"+c.plan.CountryCode+national, "")
	if err != nil {
		return false
	}
	if c.plan.Region == "" {
		return phonenumbers.IsValidNumber(num)
	}
	return phonenumbers.IsValidNumberForRegion(num, c.plan.Region)
}

// ToE164 formats a number the classifier accepts as correct in E.164 form,
// e.g. "612345678" and "237612345678" both become "+237612345678".
func (c *Classifier) ToE164(number string) (string, error) {
	if !c.Classify(number).IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFormat, number)
	}
	national, _ := c.nationalNumber(number)
	num, err := phonenumbers.Parse("+"+c.plan.CountryCode+national, "")
	if err != nil {
		return "", fmt.Errorf("parsing %q: %w", number, err)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
