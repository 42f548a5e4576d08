package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormTemplateDefaults(t *testing.T) {
	t.Parallel()

	form := FormTemplate()
	require.Equal(t, "MayaCode", form["Im Auftrag"])

	filled := 0
	for key, value := range form {
		if key == "Im Auftrag" {
			continue
		}
		if value != "" {
			filled++
		}
	}
	require.Zero(t, filled, "only the issuer field starts filled")
}

func TestMergeFormSkipsEmptyValues(t *testing.T) {
	t.Parallel()

	form := FormTemplate()
	mergeForm(form, map[string]string{"Vorname": "Omar"})
	mergeForm(form, map[string]string{"Vorname": ""})

	require.Equal(t, "Omar", form["Vorname"])
}

func TestMergeFormIgnoresUnknownKeys(t *testing.T) {
	t.Parallel()

	form := FormTemplate()
	mergeForm(form, map[string]string{"Passport Number": "X123"})

	_, exists := form["Passport Number"]
	require.False(t, exists)
}

func TestMergeFormOverwritesWithNewValue(t *testing.T) {
	t.Parallel()

	form := FormTemplate()
	mergeForm(form, map[string]string{"Geburtsland": "Syrien"})
	mergeForm(form, map[string]string{"Geburtsland": "Libanon"})

	require.Equal(t, "Libanon", form["Geburtsland"])
}

func TestMergeFormAccumulatesAcrossTurns(t *testing.T) {
	t.Parallel()

	form := FormTemplate()
	mergeForm(form, map[string]string{"Vorname": "Omar"})
	mergeForm(form, map[string]string{"Name": "Haddad", "Geschlecht": "mannlich"})

	require.Equal(t, "Omar", form["Vorname"])
	require.Equal(t, "Haddad", form["Name"])
	require.Equal(t, "mannlich", form["Geschlecht"])
}
