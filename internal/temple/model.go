package temple

import (
	"time"

	"gorm.io/datatypes"
)

type Location struct {
	Address string `gorm:"size:500" json:"address"`
	City    string `gorm:"size:100;not null;uniqueIndex:idx_temple_name_city;index" json:"city"`
	State   string `gorm:"size:100;index" json:"state"`
	Country string `gorm:"size:100" json:"country"`
}

type DarshanTimings struct {
	Morning string `gorm:"size:100" json:"morning"`
	Evening string `gorm:"size:100" json:"evening"`
}

type ContactDetails struct {
	Email     string `gorm:"size:255;index" json:"email"`
	Phone     string `gorm:"size:20;index" json:"phone"`
	Facebook  string `gorm:"size:255" json:"facebook"`
	Instagram string `gorm:"size:255" json:"instagram"`
	Website   string `gorm:"size:255" json:"website"`
}

type Ceremony struct {
	Name     string    `json:"name"`
	DateTime time.Time `json:"dateTime"`
}

type Event struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"eventDate"`
}

// MediaRef pairs a stored URL with the media store's own identifier for it.
type MediaRef struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Temple is the registry's root document.
type Temple struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug string `gorm:"size:255;index" json:"slug"`

	TempleName string   `gorm:"size:255;not null;uniqueIndex:idx_temple_name_city" json:"templeName"`
	Location   Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`

	Description           string         `gorm:"type:text" json:"description"`
	History               string         `gorm:"type:text" json:"history"`
	DarshanTimings        DarshanTimings `gorm:"embedded;embeddedPrefix:darshan_" json:"darshanTimings"`
	ActivitiesAndServices string         `gorm:"type:text" json:"activitiesAndServices"`
	ContactDetails        ContactDetails `gorm:"embedded;embeddedPrefix:contact_" json:"contactDetails"`

	CoverImage   string                       `gorm:"size:1024;not null" json:"coverImage"`
	CoverImageID string                       `gorm:"size:512" json:"-"`
	PhotoGallery datatypes.JSONSlice[string]  `gorm:"type:jsonb" json:"photoGallery"`
	MediaRefs    datatypes.JSONSlice[MediaRef] `gorm:"type:jsonb" json:"-"`

	SpecialCeremonies datatypes.JSONSlice[Ceremony] `gorm:"type:jsonb" json:"specialCeremonies"`
	UpcomingEvents    datatypes.JSONSlice[Event]    `gorm:"type:jsonb" json:"upcomingEvents"`

	IsVerified          bool   `gorm:"default:false;index" json:"isVerified"`
	VerifiedBy          *uint  `json:"verifiedBy"`
	VerificationRemarks string `gorm:"type:text" json:"verificationRemarks"`

	RegisteredBy uint      `gorm:"not null;index" json:"registeredBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Temple) TableName() string {
	return "temples"
}

// Clone returns a deep copy; the merger and sub-collection edits work on clones.
func (t *Temple) Clone() *Temple {
	c := *t
	c.PhotoGallery = append(datatypes.JSONSlice[string](nil), t.PhotoGallery...)
	c.MediaRefs = append(datatypes.JSONSlice[MediaRef](nil), t.MediaRefs...)
	c.SpecialCeremonies = append(datatypes.JSONSlice[Ceremony](nil), t.SpecialCeremonies...)
	c.UpcomingEvents = append(datatypes.JSONSlice[Event](nil), t.UpcomingEvents...)
	if t.VerifiedBy != nil {
		v := *t.VerifiedBy
		c.VerifiedBy = &v
	}
	return &c
}

// PublicIDFor returns the stored media identifier for url, if one was recorded.
func (t *Temple) PublicIDFor(url string) (string, bool) {
	if url == t.CoverImage && t.CoverImageID != "" {
		return t.CoverImageID, true
	}
	for _, ref := range t.MediaRefs {
		if ref.URL == url && ref.PublicID != "" {
			return ref.PublicID, true
		}
	}
	return "", false
}

// dropMediaRef forgets every stored reference for url.
func (t *Temple) dropMediaRef(url string) {
	kept := t.MediaRefs[:0:0]
	for _, ref := range t.MediaRefs {
		if ref.URL != url {
			kept = append(kept, ref)
		}
	}
	t.MediaRefs = kept
}

// Card is the public listing projection of a verified temple.
type Card struct {
	TempleName  string       `json:"templeName"`
	Location    CardLocation `json:"location"`
	Description string       `json:"description"`
	CoverImage  string       `json:"coverImage"`
	Slug        string       `json:"slug"`
}

type CardLocation struct {
	City  string `json:"city"`
	State string `json:"state"`
}

func (t *Temple) Card() Card {
	return Card{
		TempleName:  t.TempleName,
		Location:    CardLocation{City: t.Location.City, State: t.Location.State},
		Description: t.Description,
		CoverImage:  t.CoverImage,
		Slug:        t.Slug,
	}
}

// Pagination mirrors the listing metadata returned alongside a page of temples.
type Pagination struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type ListResult struct {
	Temples    []map[string]any `json:"temples"`
	Pagination Pagination       `json:"pagination"`
}
