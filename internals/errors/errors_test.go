package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"dndbuilder_backend/internals/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "race not found",
			expected: "NOT_FOUND: race not found",
		},
		{
			name:     "conflict error",
			code:     errors.CodeConflict,
			message:  "race is referenced",
			expected: "CONFLICT: race is referenced",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, err.Code)
			s.Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	inner := errors.NotFoundf("class %d not found", 7)
	wrapped := errors.Wrap(inner, "load subclass parent")

	s.Equal(errors.CodeNotFound, wrapped.Code)
	s.True(errors.IsNotFound(wrapped))
	s.ErrorIs(wrapped, inner)
}

func (s *ErrorsTestSuite) TestWrapPlainErrorIsInternal() {
	wrapped := errors.Wrap(stderrors.New("boom"), "query races")

	s.Equal(errors.CodeInternal, errors.GetCode(wrapped))
	s.Equal("query races", errors.GetMessage(wrapped))
	s.Nil(errors.Wrap(nil, "ignored"))
}

func (s *ErrorsTestSuite) TestHTTPStatus() {
	s.Equal(http.StatusUnprocessableEntity, errors.CodeValidation.HTTPStatus())
	s.Equal(http.StatusNotFound, errors.CodeNotFound.HTTPStatus())
	s.Equal(http.StatusConflict, errors.CodeAlreadyExists.HTTPStatus())
	s.Equal(http.StatusConflict, errors.CodeConflict.HTTPStatus())
	s.Equal(http.StatusForbidden, errors.CodePermissionDenied.HTTPStatus())
	s.Equal(http.StatusUnauthorized, errors.CodeUnauthenticated.HTTPStatus())
	s.Equal(http.StatusInternalServerError, errors.Code("SOMETHING_ELSE").HTTPStatus())
}

func (s *ErrorsTestSuite) TestValidationBuilder() {
	s.Run("no errors builds nil", func() {
		vb := errors.NewValidationBuilder()
		errors.ValidateRange("level", 5, 1, 20, vb)
		s.NoError(vb.Build())
	})

	s.Run("collects every field", func() {
		vb := errors.NewValidationBuilder()
		errors.ValidateRange("level", 21, 1, 20, vb)
		errors.ValidateEnum("alignment", "Mostly Good", []string{"Lawful Good", "True Neutral"}, vb)
		vb.Field("hit_points", "cannot exceed max hit points")

		err := vb.Build()
		s.Require().Error(err)
		s.True(errors.IsValidation(err))

		fields := errors.FieldErrors(err)
		s.Equal([]string{"must be between 1 and 20"}, fields["level"])
		s.Equal([]string{"must be one of: Lawful Good, True Neutral"}, fields["alignment"])
		s.Equal([]string{"cannot exceed max hit points"}, fields["hit_points"])
	})

	s.Run("merge appends", func() {
		vb := errors.NewValidationBuilder().Field("name", "is required")
		vb.Merge(map[string][]string{"name": {"too short"}, "speed": {"must be >= 0"}})

		fields := errors.FieldErrors(vb.Build())
		s.Equal([]string{"is required", "too short"}, fields["name"])
		s.Len(fields, 2)
	})
}

func (s *ErrorsTestSuite) TestValidationErrorMessageIsSorted() {
	v := errors.NewValidationError()
	v.AddFieldError("speed", "must be >= 0")
	v.AddFieldError("level", "must be between 1 and 20")

	s.Equal("validation failed: level: must be between 1 and 20; speed: must be >= 0", v.Error())
}
