package validation

import (
	"errors"
	"testing"
)

func TestPasswordOK(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Abcdefgh", true},
		{"abcdefgh", false},
		{"ABCDEFGH", false},
		{"Ab1", false},
		{"Abcdef1@", true},
		{"", false},
	}

	for _, tc := range cases {
		got := PasswordOK(tc.password)
		if got != tc.want {
			t.Errorf("PasswordOK(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}

func validCreateUserForm() CreateUserForm {
	return CreateUserForm{
		Name:     "Lucas Moraes",
		Username: "lucasmoraes",
		Email:    "lucas@verzel.com.br",
		Role:     "Admin",
		Password: "Abcdefgh",
	}
}

func TestCreateUserForm_Valid(t *testing.T) {
	form := validCreateUserForm()
	if err := Struct(form); err != nil {
		t.Fatalf("expected valid form, got: %v", err)
	}
}

func TestCreateUserForm_FieldMessages(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*CreateUserForm)
		field   string
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(f *CreateUserForm) { f.Name = "" },
			field:   "Name",
			message: "Nome é um campo obrigatório.",
		},
		{
			name:    "short name",
			mutate:  func(f *CreateUserForm) { f.Name = "abc" },
			field:   "Name",
			message: "O nome deve possuir no mínimo 4 caracteres.",
		},
		{
			name:    "short username",
			mutate:  func(f *CreateUserForm) { f.Username = "lucas" },
			field:   "Username",
			message: "O nome de usuário deve possuir no mínimo 8 caracteres.",
		},
		{
			name:    "bad email",
			mutate:  func(f *CreateUserForm) { f.Email = "not-an-email" },
			field:   "Email",
			message: "O campo deve ser um e-mail válido.",
		},
		{
			name: "short phone",
			mutate: func(f *CreateUserForm) {
				phone := "(11) 9876"
				f.Phone = &phone
			},
			field:   "Phone",
			message: "O celular deve possuir no mínimo 14 caracteres.",
		},
		{
			name:    "bad role",
			mutate:  func(f *CreateUserForm) { f.Role = "Root" },
			field:   "Role",
			message: "A função deve ser um dos seguintes valores: Admin, User.",
		},
		{
			name:    "password without uppercase",
			mutate:  func(f *CreateUserForm) { f.Password = "abcdefgh" },
			field:   "Password",
			message: "A senha deve possuir no mínimo 8 caracteres, uma letra minúscula e uma letra maiúscula.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validCreateUserForm()
			tc.mutate(&form)

			err := Struct(form)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			var fieldErrs FieldErrors
			if !errors.As(err, &fieldErrs) {
				t.Fatalf("expected FieldErrors, got %T: %v", err, err)
			}
			if got := fieldErrs.For(tc.field); got != tc.message {
				t.Errorf("message for %s = %q, want %q", tc.field, got, tc.message)
			}
		})
	}
}

func TestCreateUserForm_PhoneOptional(t *testing.T) {
	form := validCreateUserForm()
	form.Phone = nil
	if err := Struct(form); err != nil {
		t.Fatalf("expected nil phone to be valid, got: %v", err)
	}

	phone := "(11) 98765-4321"
	form.Phone = &phone
	if err := Struct(form); err != nil {
		t.Fatalf("expected formatted phone to be valid, got: %v", err)
	}
}

func TestUpdateUserForm_EmptyPasswordSkipsRules(t *testing.T) {
	form := UpdateUserForm{
		Name:     "Lucas Moraes",
		Username: "lucasmoraes",
		Email:    "lucas@verzel.com.br",
		Role:     "User",
	}
	if err := Struct(form); err != nil {
		t.Fatalf("expected empty password to pass on update, got: %v", err)
	}

	form.Password = "abcdefgh"
	if err := Struct(form); err == nil {
		t.Fatal("expected non-empty weak password to fail on update")
	}
}

func TestResetPasswordForm_TokenLength(t *testing.T) {
	form := ResetPasswordForm{Token: "abcd1234", NewPassword: "Abcdefgh"}
	if err := Struct(form); err != nil {
		t.Fatalf("expected valid reset form, got: %v", err)
	}

	form.Token = "abc"
	err := Struct(form)
	if err == nil {
		t.Fatal("expected short token to fail")
	}
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) || fieldErrs.For("Token") == "" {
		t.Fatalf("expected Token field error, got: %v", err)
	}
}

func TestCarForm(t *testing.T) {
	form := CarForm{Name: "Onix", Brand: "Chevrolet", Model: "LTZ", Price: 89990}
	if err := Struct(form); err != nil {
		t.Fatalf("expected valid car form, got: %v", err)
	}

	form.Brand = ""
	form.Price = -1
	err := Struct(form)
	if err == nil {
		t.Fatal("expected invalid car form to fail")
	}
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}
	if fieldErrs.For("Brand") != "Marca é um campo obrigatório." {
		t.Errorf("unexpected brand message: %q", fieldErrs.For("Brand"))
	}
	if fieldErrs.For("Price") != "O preço deve ser maior ou igual a zero." {
		t.Errorf("unexpected price message: %q", fieldErrs.For("Price"))
	}
}
