package temple

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// Accepted timestamp layouts for ceremony and event dates.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var timestampRule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, ok := parseTimestamp(s); !ok {
		return errors.New("must be a valid date")
	}
	return nil
})

// CeremonyInput is the wire shape of a special ceremony.
type CeremonyInput struct {
	Name     string `json:"name"`
	DateTime string `json:"dateTime"`
}

func (c CeremonyInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.DateTime, validation.Required, timestampRule),
	)
}

func (c CeremonyInput) toCeremony() Ceremony {
	ts, _ := parseTimestamp(c.DateTime)
	return Ceremony{Name: strings.TrimSpace(c.Name), DateTime: ts}
}

// EventInput is the wire shape of an upcoming event.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"eventDate"`
}

func (e EventInput) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required),
		validation.Field(&e.EventDate, validation.Required, timestampRule),
	)
}

func (e EventInput) toEvent() Event {
	ts, _ := parseTimestamp(e.EventDate)
	return Event{
		Title:       strings.TrimSpace(e.Title),
		Description: strings.TrimSpace(e.Description),
		EventDate:   ts,
	}
}

// CreateRequest is the single structured creation payload. Sub-collections arrive
// as JSON arrays; nothing is decoded from embedded strings.
type CreateRequest struct {
	TempleName            string          `json:"templeName"`
	Location              Location        `json:"location"`
	Description           string          `json:"description"`
	History               string          `json:"history"`
	DarshanTimings        DarshanTimings  `json:"darshanTimings"`
	ActivitiesAndServices string          `json:"activitiesAndServices"`
	ContactDetails        ContactDetails  `json:"contactDetails"`
	SpecialCeremonies     []CeremonyInput `json:"specialCeremonies"`
	UpcomingEvents        []EventInput    `json:"upcomingEvents"`
	VerificationRemarks   string          `json:"verificationRemarks"`
}

func (r *CreateRequest) normalize() {
	r.TempleName = strings.TrimSpace(r.TempleName)
	r.Location.Address = strings.TrimSpace(r.Location.Address)
	r.Location.City = strings.TrimSpace(r.Location.City)
	r.Location.State = strings.TrimSpace(r.Location.State)
	r.Location.Country = strings.TrimSpace(r.Location.Country)
	r.Description = strings.TrimSpace(r.Description)
	r.History = strings.TrimSpace(r.History)
	r.DarshanTimings.Morning = strings.TrimSpace(r.DarshanTimings.Morning)
	r.DarshanTimings.Evening = strings.TrimSpace(r.DarshanTimings.Evening)
	r.ActivitiesAndServices = strings.TrimSpace(r.ActivitiesAndServices)
	r.ContactDetails.Email = strings.ToLower(strings.TrimSpace(r.ContactDetails.Email))
	r.ContactDetails.Phone = strings.TrimSpace(r.ContactDetails.Phone)
	r.ContactDetails.Facebook = strings.TrimSpace(r.ContactDetails.Facebook)
	r.ContactDetails.Instagram = strings.TrimSpace(r.ContactDetails.Instagram)
	r.ContactDetails.Website = strings.TrimSpace(r.ContactDetails.Website)
}

// Validate checks required fields and formats. It does not consult persistence.
func (r CreateRequest) Validate() error {
	err := validation.Errors{
		"templeName":             validation.Validate(r.TempleName, validation.Required),
		"location.city":          validation.Validate(r.Location.City, validation.Required),
		"description":            validation.Validate(r.Description, validation.Required),
		"history":                validation.Validate(r.History, validation.Required),
		"darshanTimings.morning": validation.Validate(r.DarshanTimings.Morning, validation.Required),
		"darshanTimings.evening": validation.Validate(r.DarshanTimings.Evening, validation.Required),
		"activitiesAndServices":  validation.Validate(r.ActivitiesAndServices, validation.Required),
		"contactDetails.email": validation.Validate(r.ContactDetails.Email,
			validation.Required, validation.Match(emailPattern).Error("must be a valid email address")),
		"contactDetails.phone": validation.Validate(r.ContactDetails.Phone,
			validation.Required, validation.Match(phonePattern).Error("must be exactly 10 digits")),
		"contactDetails.website": validation.Validate(r.ContactDetails.Website, is.URL),
	}.Filter()
	if err != nil {
		return err
	}

	for _, c := range r.SpecialCeremonies {
		if err := c.Validate(); err != nil {
			return validation.Errors{"specialCeremonies": err}
		}
	}
	for _, e := range r.UpcomingEvents {
		if err := e.Validate(); err != nil {
			return validation.Errors{"upcomingEvents": err}
		}
	}
	return nil
}

// toTemple builds the document from a validated request.
func (r CreateRequest) toTemple() *Temple {
	t := &Temple{
		TempleName:            r.TempleName,
		Location:              r.Location,
		Description:           r.Description,
		History:               r.History,
		DarshanTimings:        r.DarshanTimings,
		ActivitiesAndServices: r.ActivitiesAndServices,
		ContactDetails:        r.ContactDetails,
	}
	for _, c := range r.SpecialCeremonies {
		t.SpecialCeremonies = append(t.SpecialCeremonies, c.toCeremony())
	}
	for _, e := range r.UpcomingEvents {
		t.UpcomingEvents = append(t.UpcomingEvents, e.toEvent())
	}
	return t
}

// LocationPatch and the other *Patch types mark presence with non-nil pointers.
type LocationPatch struct {
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`
}

type DarshanTimingsPatch struct {
	Morning *string `json:"morning"`
	Evening *string `json:"evening"`
}

type ContactDetailsPatch struct {
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Facebook  *string `json:"facebook"`
	Instagram *string `json:"instagram"`
	Website   *string `json:"website"`
}

// Patch is a sparse update. A nil or blank value leaves the stored field untouched.
type Patch struct {
	TempleName            *string              `json:"templeName"`
	Location              *LocationPatch       `json:"location"`
	Description           *string              `json:"description"`
	History               *string              `json:"history"`
	DarshanTimings        *DarshanTimingsPatch `json:"darshanTimings"`
	ActivitiesAndServices *string              `json:"activitiesAndServices"`
	ContactDetails        *ContactDetailsPatch `json:"contactDetails"`

	IsVerified          *bool   `json:"isVerified"`
	VerificationRemarks *string `json:"verificationRemarks"`
}

// Changes maps each modified field path to its new value.
type Changes map[string]any

func (c Changes) Paths() []string {
	paths := make([]string, 0, len(c))
	for p := range c {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (c Changes) Has(path string) bool {
	_, ok := c[path]
	return ok
}

// validationError converts ozzo errors into the registry's InvalidInput kind.
func validationError(err error) *Error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for _, field := range sortedKeys(verrs) {
			return &Error{Kind: KindInvalidInput, Field: field, Message: field + ": " + verrs[field].Error()}
		}
	}
	return &Error{Kind: KindInvalidInput, Message: err.Error()}
}

func sortedKeys(m validation.Errors) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
