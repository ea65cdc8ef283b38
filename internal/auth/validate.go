package auth

import (
	"errors"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"

	"kanwiki/internal/common"
)

var (
	usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	passwordRE = regexp.MustCompile(`^.{3,20}$`)
	emailRE    = regexp.MustCompile(`^[\S]+@[\S]+\.[\S]+$`)
)

// Field messages shown on the signup form.
const (
	MsgInvalidUsername = "That's not a valid username."
	MsgInvalidPassword = "That wasn't a valid password."
	MsgPasswordsDiffer = "Your passwords didn't match."
	MsgInvalidEmail    = "That's not a valid email."
	MsgUserExists      = "That user already exists."
)

// SignupForm is the input of the signup form.
type SignupForm struct {
	Username string `form:"username" validate:"username"`
	Password string `form:"password" validate:"password"`
	Verify   string `form:"verify" validate:"eqfield=Password"`
	Email    string `form:"email" validate:"omitempty,email_shape"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	mustRegister(v, "username", usernameRE)
	mustRegister(v, "password", passwordRE)
	mustRegister(v, "email_shape", emailRE)
	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// ValidUsername reports whether name is 3-20 letters, digits, "_" or "-".
func ValidUsername(name string) bool {
	return validate.Var(name, "username") == nil
}

// ValidPassword reports whether password is 3-20 characters long.
func ValidPassword(password string) bool {
	return validate.Var(password, "password") == nil
}

// ValidEmail reports whether email is empty or shaped like local@domain.tld.
func ValidEmail(email string) bool {
	return validate.Var(email, "omitempty,email_shape") == nil
}

// Validate checks the form and returns common.ValidationErrors keyed by
// form field. Password mismatch is only reported for a valid password.
func (f SignupForm) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := common.ValidationErrors{}
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "username":
			errs["username"] = MsgInvalidUsername
		case "password":
			errs["password"] = MsgInvalidPassword
		case "verify":
			errs["verify"] = MsgPasswordsDiffer
		case "email":
			errs["email"] = MsgInvalidEmail
		}
	}
	if errs.Has("password") {
		delete(errs, "verify")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
