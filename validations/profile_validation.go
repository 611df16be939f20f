package validations

import (
	"context"

	domainProfile "github.com/commentify/commentify/domains/profile"
	pkgError "github.com/commentify/commentify/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateCreateProfile(ctx context.Context, request domainProfile.CreateProfileRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required),
		validation.Field(&request.Cookie, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
