package services

// FormTemplate returns the canonical empty form-fill dictionary for the
// government hearing form. All fields are string-valued; "Im Auftrag" is the
// only field with a fixed default.
func FormTemplate() map[string]string {
	return map[string]string{
		// Personendaten
		"Name":                "",
		"Vorname":             "",
		"Geburtsdatum":        "",
		"Geburtsland":         "",
		"Geburtsort":          "",
		"Staatsangehorigkeit": "",
		"Geschlecht":          "",
		"Familienstand":       "",

		// Beeintrachtigungen
		"korperlich":             "",
		"seelisch":               "",
		"geistig":                "",
		"Sinnesbeeintrachtigung": "",

		// Vulnerabilitaten
		"Alleinerziehende":      "",
		"Schwangere":            "",
		"alter als 65 Jahre":    "",
		"Verlust oder Trennung von engen Familienangehorigen":                          "",
		"Soziale Isolation":     "",
		"Erfahrungen mit korperlicher oder seelischer Gewalt wahrend Flucht oder Aufenthalt": "",

		// Freitext
		"Praktische Hinweise zur Durchfuhrung der Anhorung": "",
		"Im Auftrag": "MayaCode",
	}
}

// mergeForm applies extracted updates onto the form under the append-only
// overwrite rule: unknown keys are ignored and empty values never clobber a
// field that already holds one.
func mergeForm(form map[string]string, updates map[string]string) {
	for key, value := range updates {
		if value == "" {
			continue
		}
		if _, known := form[key]; !known {
			continue
		}
		form[key] = value
	}
}
