package models

// Contact belongs to exactly one user (Owner).
type Contact struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Favorite bool   `json:"favorite"`
	Owner    string `json:"owner"`
}

// ContactPatch carries the fields of a partial update; nil means "keep".
type ContactPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Favorite *bool
}

// Empty reports whether the patch changes nothing.
func (p ContactPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Favorite == nil
}

// Apply copies the set fields onto c.
func (p ContactPatch) Apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Favorite != nil {
		c.Favorite = *p.Favorite
	}
}

// ContactFilter narrows a contact listing.
type ContactFilter struct {
	Favorite *bool
	Page     int
	Limit    int
}

const (
	DefaultContactLimit = 20
	MaxContactLimit     = 100
)

// Normalize fills defaults and clamps Page and Limit.
func (f ContactFilter) Normalize() ContactFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultContactLimit
	}
	if f.Limit > MaxContactLimit {
		f.Limit = MaxContactLimit
	}
	return f
}

// Offset is the number of rows to skip for the current page.
func (f ContactFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
