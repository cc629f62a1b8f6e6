package templates

// Lang is a template language variant.
type Lang string

const (
	Spanish Lang = "es"
	Basque  Lang = "eu"
)

// ParseLang maps a language code to a supported variant.
// Only the exact Basque code selects Basque; everything else is Spanish.
func ParseLang(code string) Lang {
	if Lang(code) == Basque {
		return Basque
	}
	return Spanish
}

// Langs lists the supported language variants.
func Langs() []Lang {
	return []Lang{Spanish, Basque}
}
