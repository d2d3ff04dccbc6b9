package schools

import (
	"encoding/json"
	"time"
)

// School is the stored school document.
type School struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Contact   Contact   `json:"contact"`
	Profile   Profile   `json:"profile"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Contact holds the school's phone and email.
type Contact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Profile carries descriptive school details.
type Profile struct {
	EstablishedYear int    `json:"establishedYear"`
	Website         string `json:"website,omitempty"`
	AdditionalInfo  string `json:"additionalInfo,omitempty"`
}

// CreateSchoolRequest is the payload for creating a school.
type CreateSchoolRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Address         string `json:"address" validate:"required,max=500"`
	Phone           string `json:"phone" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email,max=254"`
	EstablishedYear int    `json:"establishedYear" validate:"required"`
	Website         string `json:"website" validate:"omitempty,http_url"`
	AdditionalInfo  string `json:"additionalInfo" validate:"omitempty,max=2000"`
}

// UpdateSchoolRequest holds the whitelisted update fields. Nested fields may
// be sent either as objects or as dotted keys such as "contact.phone".
type UpdateSchoolRequest struct {
	Name    *string       `json:"name,omitempty"`
	Address *string       `json:"address,omitempty"`
	Contact *ContactPatch `json:"contact,omitempty"`
	Profile *ProfilePatch `json:"profile,omitempty"`
}

// ContactPatch updates contact fields.
type ContactPatch struct {
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// ProfilePatch updates profile fields.
type ProfilePatch struct {
	EstablishedYear *int    `json:"establishedYear,omitempty"`
	Website         *string `json:"website,omitempty"`
	AdditionalInfo  *string `json:"additionalInfo,omitempty"`
}

type dottedSchoolPatch struct {
	Phone           *string `json:"contact.phone"`
	Email           *string `json:"contact.email"`
	EstablishedYear *int    `json:"profile.establishedYear"`
	Website         *string `json:"profile.website"`
	AdditionalInfo  *string `json:"profile.additionalInfo"`
}

// UnmarshalJSON merges dotted keys into the nested patch structs.
func (u *UpdateSchoolRequest) UnmarshalJSON(b []byte) error {
	type plain UpdateSchoolRequest
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var d dottedSchoolPatch
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	if d.Phone != nil || d.Email != nil {
		if p.Contact == nil {
			p.Contact = &ContactPatch{}
		}
		if d.Phone != nil {
			p.Contact.Phone = d.Phone
		}
		if d.Email != nil {
			p.Contact.Email = d.Email
		}
	}
	if d.EstablishedYear != nil || d.Website != nil || d.AdditionalInfo != nil {
		if p.Profile == nil {
			p.Profile = &ProfilePatch{}
		}
		if d.EstablishedYear != nil {
			p.Profile.EstablishedYear = d.EstablishedYear
		}
		if d.Website != nil {
			p.Profile.Website = d.Website
		}
		if d.AdditionalInfo != nil {
			p.Profile.AdditionalInfo = d.AdditionalInfo
		}
	}
	*u = UpdateSchoolRequest(p)
	return nil
}

// Empty reports whether the request names no whitelisted field.
func (u UpdateSchoolRequest) Empty() bool {
	contactEmpty := u.Contact == nil || (u.Contact.Phone == nil && u.Contact.Email == nil)
	profileEmpty := u.Profile == nil ||
		(u.Profile.EstablishedYear == nil && u.Profile.Website == nil && u.Profile.AdditionalInfo == nil)
	return u.Name == nil && u.Address == nil && contactEmpty && profileEmpty
}
