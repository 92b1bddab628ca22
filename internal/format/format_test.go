package format

import "testing"

func TestCellphone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"11987654321", "(11) 98765-4321"},
		{"1187654321", "(11) 8765-4321"},
		{"(11) 98765-4321", "(11) 98765-4321"},
		{"11 98765 4321", "(11) 98765-4321"},
		{"", ""},
	}

	for _, tc := range cases {
		got := Cellphone(tc.in)
		if got != tc.want {
			t.Errorf("Cellphone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCPF(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12345678901", "123.456.789-01"},
		{"123.456.789-01", "123.456.789-01"},
		{"123456789012345", "123.456.789-01"},
		{"", ""},
	}

	for _, tc := range cases {
		got := CPF(tc.in)
		if got != tc.want {
			t.Errorf("CPF(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCEP(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"01310100", "01.310-100"},
		{"01310-100", "01.310-100"},
		{"013101009999", "01.310-100"},
		{"", ""},
	}

	for _, tc := range cases {
		got := CEP(tc.in)
		if got != tc.want {
			t.Errorf("CEP(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123456", "1234,56"},
		{"9990", "99,90"},
		{"500", "0,500"},
		{"09990", "99,90"},
		{"", ""},
	}

	for _, tc := range cases {
		got := Currency(tc.in)
		if got != tc.want {
			t.Errorf("Currency(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
