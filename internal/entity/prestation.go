package entity

var prestationLabels = map[string]string{
	"fin-chantier":       "Nettoyage fin de chantier",
	"etat-lieux":         "Nettoyage avant état des lieux",
	"bureaux":            "Entretien de bureaux",
	"copropriete":        "Nettoyage copropriété",
	"locaux-commerciaux": "Nettoyage locaux commerciaux",
	"industriel":         "Nettoyage industriel",
	"vitres":             "Nettoyage de vitres",
	"remise-etat":        "Remise en état",
	"autre":              "Autre",
}

// PrestationLabel maps a service code to its display label.
// Unknown codes are returned as-is; an empty code becomes "Demande".
func PrestationLabel(code string) string {
	if label, ok := prestationLabels[code]; ok {
		return label
	}
	if code == "" {
		return "Demande"
	}
	return code
}
