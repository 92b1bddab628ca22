// Package validation declares the form schemas used by the dashboard:
// login, user create/update, password reset and car forms. Field errors
// carry the user-facing messages verbatim.
package validation

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type CreateUserForm struct {
	Name     string  `validate:"required,min=4,max=200"`
	Username string  `validate:"required,min=8,max=30"`
	Email    string  `validate:"required,email"`
	Phone    *string `validate:"omitempty,min=14,max=15"`
	Role     string  `validate:"omitempty,oneof=Admin User"`
	Password string  `validate:"required,min=8,max=25,userpassword"`
}

// UpdateUserForm differs from the create schema in one place: an empty
// password means "keep the current one" and skips the password rules.
type UpdateUserForm struct {
	Name     string  `validate:"required,min=4,max=200"`
	Username string  `validate:"required,min=8,max=30"`
	Email    string  `validate:"required,email"`
	Phone    *string `validate:"omitempty,min=14,max=15"`
	Role     string  `validate:"omitempty,oneof=Admin User"`
	Password string  `validate:"omitempty,min=8,max=25,userpassword"`
}

type ForgotForm struct {
	Email string `validate:"required,email"`
}

type ResetPasswordForm struct {
	Token       string `validate:"required,len=8"`
	NewPassword string `validate:"required,min=8,max=25,userpassword"`
}

type CarForm struct {
	Name  string  `validate:"required"`
	Brand string  `validate:"required"`
	Model string  `validate:"required"`
	Price float64 `validate:"gte=0"`
}

// FieldErrors maps field name to its first failed-rule message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, msg := range e {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, " ")
}

// For returns the message for a field, or "" when the field is valid.
func (e FieldErrors) For(field string) string {
	return e[field]
}

var (
	passwordCharsetRe = regexp.MustCompile(`^[a-zA-Z\d@$!%*#-_?&]{8,}$`)
	lowercaseRe       = regexp.MustCompile(`[a-z]`)
	uppercaseRe       = regexp.MustCompile(`[A-Z]`)
)

// PasswordOK reports whether a password satisfies the dashboard rule:
// at least 8 characters from the allowed charset, with at least one
// lowercase and one uppercase letter.
func PasswordOK(password string) bool {
	return passwordCharsetRe.MatchString(password) &&
		lowercaseRe.MatchString(password) &&
		uppercaseRe.MatchString(password)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("userpassword", func(fl validator.FieldLevel) bool {
		return PasswordOK(fl.Field().String())
	})
	return v
}

const passwordMessage = "A senha deve possuir no mínimo 8 caracteres, uma letra minúscula e uma letra maiúscula."

var messages = map[string]string{
	"Name.required": "Nome é um campo obrigatório.",
	"Name.min":      "O nome deve possuir no mínimo 4 caracteres.",
	"Name.max":      "O nome deve possuir no máximo 200 caracteres.",

	"Username.required": "Nome de usuário é um campo obrigatório.",
	"Username.min":      "O nome de usuário deve possuir no mínimo 8 caracteres.",
	"Username.max":      "O nome de usuário deve possuir no máximo 30 caracteres.",

	"Email.required": "E-mail é um campo obrigatório.",
	"Email.email":    "O campo deve ser um e-mail válido.",

	"Phone.min": "O celular deve possuir no mínimo 14 caracteres.",
	"Phone.max": "O celular deve possuir no máximo 15 caracteres.",

	"Role.oneof": "A função deve ser um dos seguintes valores: Admin, User.",

	"Password.required":     "Senha é um campo obrigatório.",
	"Password.min":          "A senha deve possuir no mínimo 8 caracteres.",
	"Password.max":          "A senha deve possuir no máximo 25 caracteres.",
	"Password.userpassword": passwordMessage,

	"NewPassword.required":     "Senha é um campo obrigatório.",
	"NewPassword.min":          "A senha deve possuir no mínimo 8 caracteres.",
	"NewPassword.max":          "A senha deve possuir no máximo 25 caracteres.",
	"NewPassword.userpassword": passwordMessage,

	"Token.required": "Token é um campo obrigatório.",
	"Token.len":      "Token deve ter 8 caracteres.",

	"Brand.required": "Marca é um campo obrigatório.",
	"Model.required": "Modelo é um campo obrigatório.",
	"Price.gte":      "O preço deve ser maior ou igual a zero.",
}

// Struct runs the schema attached to the form's tags. On failure it
// returns FieldErrors with one message per offending field.
func Struct(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fieldErrs := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := fieldErrs[fe.Field()]; seen {
			continue
		}
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			fieldErrs[fe.Field()] = msg
		} else {
			fieldErrs[fe.Field()] = "Campo inválido."
		}
	}
	return fieldErrs
}
