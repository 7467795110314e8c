package handler

import (
	"regexp"

	"github.com/docfold-labs/docfold/internal/ingestion"
	"github.com/docfold-labs/docfold/internal/store/postgres"
	"github.com/docfold-labs/docfold/pkg/apierr"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateEmail(email string) *apierr.Error {
	if email == "" {
		return apierr.EmailRequired()
	}
	if !emailRegex.MatchString(email) {
		return apierr.EmailInvalid()
	}
	return nil
}

func validatePassword(password string) *apierr.Error {
	if password == "" {
		return apierr.PasswordRequired()
	}
	if len(password) < 8 {
		return apierr.PasswordTooShort()
	}
	return nil
}

func validateTitle(title string) *apierr.Error {
	if title == "" {
		return apierr.TitleRequired()
	}
	if len(title) > 255 {
		return apierr.TitleTooLong()
	}
	return nil
}

var validRoles = map[string]bool{
	postgres.RoleAdmin:  true,
	postgres.RoleEditor: true,
	postgres.RoleViewer: true,
}

func validateRole(role string) *apierr.Error {
	if !validRoles[role] {
		return apierr.InvalidRole()
	}
	return nil
}

func validateIngestionType(t string) *apierr.Error {
	if !ingestion.Type(t).Valid() {
		return apierr.InvalidIngestionType()
	}
	return nil
}
