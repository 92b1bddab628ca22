// Package format holds the display masks used by the dashboard forms:
// Brazilian cellphone, CPF, CEP and currency values.
package format

import "regexp"

var (
	nonDigitRe = regexp.MustCompile(`\D`)

	cellphoneAreaRe = regexp.MustCompile(`^(\d{2})(\d)`)
	cellphoneTailRe = regexp.MustCompile(`(\d)(\d{4})$`)

	cpfDotRe  = regexp.MustCompile(`(\d{3})(\d)`)
	cpfDashRe = regexp.MustCompile(`(\d{3})(\d{1,2})`)
	cpfCutRe  = regexp.MustCompile(`(-\d{2})\d+?$`)

	cepDotRe  = regexp.MustCompile(`(\d{2})(\d)`)
	cepDashRe = regexp.MustCompile(`(\d{3})(\d)`)
	cepCutRe  = regexp.MustCompile(`(-\d{3})\d+?$`)

	currencyCommaRe = regexp.MustCompile(`^(\d+)(\d{2})$`)
	leadingZerosRe  = regexp.MustCompile(`^0+`)
)

// replaceFirst rewrites only the first match, which is what the masks rely
// on when the same pattern occurs more than once in the input.
func replaceFirst(re *regexp.Regexp, s, template string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + string(re.ExpandString(nil, template, s, loc)) + s[loc[1]:]
}

// Cellphone masks a digit string as "(11) 98765-4321". Ten-digit landlines
// come out as "(11) 8765-4321". Non-digits are stripped first.
func Cellphone(value string) string {
	if value == "" {
		return ""
	}
	v := nonDigitRe.ReplaceAllString(value, "")
	v = replaceFirst(cellphoneAreaRe, v, "(${1}) ${2}")
	v = replaceFirst(cellphoneTailRe, v, "${1}-${2}")
	return v
}

// CPF masks a digit string as "123.456.789-01", truncating excess digits.
func CPF(value string) string {
	if value == "" {
		return ""
	}
	v := nonDigitRe.ReplaceAllString(value, "")
	v = replaceFirst(cpfDotRe, v, "${1}.${2}")
	v = replaceFirst(cpfDotRe, v, "${1}.${2}")
	v = replaceFirst(cpfDashRe, v, "${1}-${2}")
	v = replaceFirst(cpfCutRe, v, "${1}")
	return v
}

// CEP masks a digit string as "01.310-100", truncating excess digits.
func CEP(value string) string {
	if value == "" {
		return ""
	}
	v := nonDigitRe.ReplaceAllString(value, "")
	v = replaceFirst(cepDotRe, v, "${1}.${2}")
	v = replaceFirst(cepDashRe, v, "${1}-${2}")
	v = replaceFirst(cepCutRe, v, "${1}")
	return v
}

// Currency turns a raw digit string into a comma-decimal amount, treating
// the last two digits as cents: "123456" -> "1234,56". Values of three or
// fewer digits are padded under "0,".
func Currency(value string) string {
	v := nonDigitRe.ReplaceAllString(value, "")
	v = replaceFirst(leadingZerosRe, v, "")

	switch len(v) {
	case 0:
		return ""
	case 1:
		return "0,00" + v
	case 2:
		return "0,0" + v
	case 3:
		return "0," + v
	}
	return replaceFirst(currencyCommaRe, v, "${1},${2}")
}
