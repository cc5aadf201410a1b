package domain

import "time"

// TargetCriteria selects bulk-send recipients. Fields are ANDed together;
// values inside a multi-valued field are ORed.
type TargetCriteria struct {
	Roles             []UserRole `json:"roles" validate:"omitempty,dive,oneof=admin case_worker finance_manager user"`
	Departments       []string   `json:"departments" validate:"omitempty,dive,required"`
	EligibilityStatus []string   `json:"eligibility_status" validate:"omitempty,dive,oneof=pending under_review eligible not_eligible suspended"`
	Categories        []string   `json:"categories" validate:"omitempty,dive,required"`
	AgeRange          *AgeRange  `json:"age_range,omitempty"`
}

type AgeRange struct {
	Min *int `json:"min,omitempty" validate:"omitempty,min=0,max=150"`
	Max *int `json:"max,omitempty" validate:"omitempty,min=0,max=150"`
}

func (c TargetCriteria) IsEmpty() bool {
	return len(c.Roles) == 0 && len(c.Departments) == 0 && len(c.EligibilityStatus) == 0 &&
		len(c.Categories) == 0 && (c.AgeRange == nil || (c.AgeRange.Min == nil && c.AgeRange.Max == nil))
}

// BirthDateBounds converts an age range into date-of-birth limits relative to
// today's date. A minimum age of N means born on or before today-N years; a
// maximum age of M means born on or after today-M years. Bounds are UTC
// midnights since date_of_birth carries no time of day.
func (a *AgeRange) BirthDateBounds(now time.Time) (bornOnOrBefore, bornOnOrAfter *time.Time) {
	if a == nil {
		return nil, nil
	}
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if a.Min != nil {
		t := today.AddDate(-*a.Min, 0, 0)
		bornOnOrBefore = &t
	}
	if a.Max != nil {
		t := today.AddDate(-*a.Max, 0, 0)
		bornOnOrAfter = &t
	}
	return bornOnOrBefore, bornOnOrAfter
}

func (c TargetCriteria) Validate() error {
	if err := Validate(c); err != nil {
		return err
	}
	if a := c.AgeRange; a != nil && a.Min != nil && a.Max != nil && *a.Min > *a.Max {
		return BadRequest("age_range.min must not exceed age_range.max")
	}
	return nil
}
