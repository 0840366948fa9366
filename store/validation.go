package store

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	msgBlank     = "can't be blank"
	msgInvalid   = "is invalid"
	msgInclusion = "is not included in the list"
	msgTaken     = "has already been taken"
	msgMustExist = "must exist"
)

var notBlank = validation.NewStringRuleWithError(
	func(s string) bool { return strings.TrimSpace(s) != "" },
	validation.NewError("validation_blank", msgBlank),
)

func validateUser(u *User) (*ValidationError, error) {
	err := validation.ValidateStruct(u,
		validation.Field(&u.Name, validation.Required.Error(msgBlank), notBlank),
		validation.Field(&u.Email, validation.Required.Error(msgBlank), notBlank, is.EmailFormat.Error(msgInvalid)),
		validation.Field(&u.Phone, validation.Required.Error(msgBlank), notBlank),
	)
	return collectErrors(err, "name", "email", "phone")
}

func validateJob(j *Job) (*ValidationError, error) {
	statuses := make([]any, len(JobStatuses))
	for i, s := range JobStatuses {
		statuses[i] = s
	}

	err := validation.ValidateStruct(j,
		validation.Field(&j.Title, validation.Required.Error(msgBlank), notBlank),
		validation.Field(&j.Description, validation.Required.Error(msgBlank), notBlank),
		validation.Field(&j.Status, validation.Required.Error(msgBlank), validation.In(statuses...).Error(msgInclusion)),
	)
	return collectErrors(err, "title", "description", "status")
}

// collectErrors flattens ozzo's field map into a ValidationError ordered
// by fields. Internal rule failures are returned as plain errors.
func collectErrors(err error, fields ...string) (*ValidationError, error) {
	verr := &ValidationError{}
	if err == nil {
		return verr, nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return nil, internal
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil, err
	}

	for _, field := range fields {
		if fe, ok := errs[field]; ok {
			verr.add(field, fe.Error())
		}
	}
	return verr, nil
}
