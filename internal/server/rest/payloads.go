package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a single JSON object into v and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, v validation.Validatable) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("Request body is required")
		}
		return badRequest("Invalid JSON body")
	}
	// Exactly one JSON value per body.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return badRequest("Invalid JSON body")
	}

	if err := v.Validate(); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r credentialsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		// bcrypt ignores everything past 72 bytes.
		validation.Field(&r.Password, validation.Required, validation.Length(6, 72)),
	)
}

type emailRequest struct {
	Email string `json:"email"`
}

func (r emailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type subscriptionRequest struct {
	Subscription string `json:"subscription"`
}

func (r subscriptionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Subscription, validation.Required,
			validation.In(string(models.TierStarter), string(models.TierPro), string(models.TierBusiness))),
	)
}

type contactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Favorite bool   `json:"favorite"`
}

func (r contactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 100), is.Email),
		validation.Field(&r.Phone, validation.Required, validation.Length(1, 20)),
	)
}

func (r contactRequest) contact() models.Contact {
	return models.Contact{Name: r.Name, Email: r.Email, Phone: r.Phone, Favorite: r.Favorite}
}

// contactPatchRequest leaves absent fields nil; an all-nil patch is
// rejected by the service.
type contactPatchRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Favorite *bool   `json:"favorite"`
}

func (r contactPatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, validation.Length(3, 100), is.Email),
		validation.Field(&r.Phone, validation.NilOrNotEmpty, validation.Length(1, 20)),
	)
}

func (r contactPatchRequest) patch() models.ContactPatch {
	return models.ContactPatch{Name: r.Name, Email: r.Email, Phone: r.Phone, Favorite: r.Favorite}
}

type favoriteRequest struct {
	Favorite *bool `json:"favorite"`
}

func (r favoriteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Favorite, validation.NotNil),
	)
}
