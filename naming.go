package shadergen

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A cases.Caser keeps state between calls, so each conversion gets its own.

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// enumName builds the k_<group>_<value> constant name used by templates to
// compare a selected ordinal against a named value.
func enumName(group, value string) string {
	return "k_" + lower(group) + "_" + lower(value)
}

// categoryName builds the category_<method>_option_<option> sentinel.
func categoryName(method, option string) string {
	return "category_" + lower(method) + "_option_" + lower(option)
}
