package validations

import (
	"context"

	domainComment "github.com/commentify/commentify/domains/comment"
	pkgError "github.com/commentify/commentify/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateCreateComment(ctx context.Context, request domainComment.CreateCommentRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Text, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
