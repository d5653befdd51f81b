package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

//go:embed templates/lead_notification.html
var templateFS embed.FS

var (
	leadTemplate = template.Must(template.ParseFS(templateFS, "templates/lead_notification.html"))
	frenchPrice  = message.NewPrinter(language.French)
	telChars     = regexp.MustCompile(`[^0-9+]`)
)

type leadTemplateData struct {
	FormName   string
	FullName   string
	Email      string
	Telephone  string
	TelHref    template.URL
	Ville      string
	Prestation string
	Details    template.HTML
	LeadType   string
	PriceTTC   string
}

// Subject is "Nouveau lead – <prestation label> – <ville or N/A>".
func Subject(lead *entity.Lead) string {
	return "Nouveau lead – " + entity.PrestationLabel(lead.Prestation) + " – " + orNA(lead.Ville)
}

// Render builds the client notification. The lead type block is only shown when leadType is set.
func Render(lead *entity.Lead, leadType, priceTTC string) (Message, error) {
	formName := lead.FormName
	if formName == "" {
		formName = "devis"
	}

	details := lead.Details
	if strings.TrimSpace(details) == "" {
		details = "Aucun détail"
	}

	data := leadTemplateData{
		FormName:   formName,
		FullName:   lead.FullName(),
		Email:      lead.Email,
		Telephone:  lead.Telephone,
		TelHref:    template.URL("tel:" + telChars.ReplaceAllString(lead.Telephone, "")),
		Ville:      orNA(lead.Ville),
		Prestation: entity.PrestationLabel(lead.Prestation),
		Details:    template.HTML(detailsHTML(details)),
		LeadType:   leadType,
		PriceTTC:   FormatPrice(priceTTC),
	}

	var body bytes.Buffer
	if err := leadTemplate.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("failed to render notification: %w", err)
	}

	return Message{Subject: Subject(lead), HTML: body.String()}, nil
}

// FormatPrice renders a stored price the French way ("150,00 €"). Unparseable input is shown as is.
func FormatPrice(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "N/A"
	}
	d, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return raw + " €"
	}
	f, _ := d.Float64()
	return frenchPrice.Sprintf("%v €", number.Decimal(f, number.Scale(2)))
}

// detailsHTML escapes free text and keeps its line breaks.
func detailsHTML(s string) string {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
