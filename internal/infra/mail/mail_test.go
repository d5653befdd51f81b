package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
)

func sampleLead() *entity.Lead {
	return &entity.Lead{
		RowID:      2,
		FormName:   "devis-express",
		Nom:        "Martin",
		Prenom:     "Claire",
		Email:      "claire@example.fr",
		Telephone:  "06 12 34 56 78",
		Ville:      "Lyon",
		Prestation: "bureaux",
		Details:    "Open space 200m²\n<b>2 fois</b> par semaine",
		Status:     entity.StatusNew,
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Nouveau lead – Entretien de bureaux – Lyon", Subject(sampleLead()))
	assert.Equal(t, "Nouveau lead – Demande – N/A", Subject(&entity.Lead{}))
	assert.Equal(t, "Nouveau lead – tonte – N/A", Subject(&entity.Lead{Prestation: "tonte"}))
}

func TestRender(t *testing.T) {
	msg, err := Render(sampleLead(), "Bureaux", "150.00")
	require.NoError(t, err)

	assert.Equal(t, "Nouveau lead – Entretien de bureaux – Lyon", msg.Subject)
	assert.Contains(t, msg.HTML, "Formulaire : devis-express")
	assert.Contains(t, msg.HTML, "Claire Martin")
	assert.Contains(t, msg.HTML, "Entretien de bureaux")
	assert.Contains(t, msg.HTML, "Open space 200m²<br>&lt;b&gt;2 fois&lt;/b&gt; par semaine")
	assert.NotContains(t, msg.HTML, "<b>2 fois</b>")
	assert.Contains(t, msg.HTML, "Type de lead")
	assert.Contains(t, msg.HTML, "150,00")
	assert.Contains(t, msg.HTML, `href="tel:0612345678"`)
}

func TestRender_WithoutLeadType(t *testing.T) {
	lead := sampleLead()
	lead.Details = ""
	lead.Email = ""
	lead.FormName = ""

	msg, err := Render(lead, "", "")
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "Type de lead")
	assert.Contains(t, msg.HTML, "Aucun détail")
	assert.Contains(t, msg.HTML, "Formulaire : devis")
	assert.NotContains(t, msg.HTML, "mailto:")
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "N/A", FormatPrice(""))
	assert.Equal(t, "150,00 €", FormatPrice("150"))
	assert.Equal(t, "99,90 €", FormatPrice("99,9"))
	assert.Equal(t, "sur devis €", FormatPrice("sur devis"))
}

type fakeTransport struct {
	delivered []string
	fail      map[string]error
}

func (f *fakeTransport) Deliver(_ context.Context, _ Address, to string, _ Message) error {
	if err := f.fail[to]; err != nil {
		return err
	}
	f.delivered = append(f.delivered, to)
	return nil
}

func TestDispatcher_Send(t *testing.T) {
	transport := &fakeTransport{}
	d := NewDispatcher(transport, Address{Email: "from@oxyllium.fr"}, zerolog.Nop())

	res, err := d.Send(context.Background(), []string{"a@x.com", "b@x.com"}, Message{Subject: "s"})

	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, res.Sent)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, transport.delivered)
}

func TestDispatcher_SendPartialFailure(t *testing.T) {
	transport := &fakeTransport{fail: map[string]error{"a@x.com": errors.New("rejected")}}
	d := NewDispatcher(transport, Address{Email: "from@oxyllium.fr"}, zerolog.Nop())
	var hooked []string
	d.OnFailure(func(to string, _ error) { hooked = append(hooked, to) })

	res, err := d.Send(context.Background(), []string{"a@x.com", "b@x.com"}, Message{Subject: "s"})

	var de *DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "delivery failed for a@x.com (rejected)", de.Error())
	assert.Equal(t, []string{"b@x.com"}, res.Sent)
	assert.Equal(t, []string{"a@x.com"}, hooked)
}

func TestNewSMTPMessage(t *testing.T) {
	m := newSMTPMessage(Address{Email: "from@oxyllium.fr", Name: "Oxyllium Leads"}, "client@x.com", Message{Subject: "Hello", HTML: "<p>hi</p>"})

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "To: client@x.com")
	assert.Contains(t, raw, "Subject: Hello")
	assert.Contains(t, raw, "from@oxyllium.fr")
	assert.Contains(t, raw, "text/html")
}

func TestResendTransport(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	transport := NewResendTransport("re_test", 0)
	base, _ := url.Parse(srv.URL + "/")
	transport.client.BaseURL = base

	err := transport.Deliver(context.Background(), Address{Email: "from@oxyllium.fr", Name: "Oxyllium Leads"}, "client@x.com", Message{Subject: "S", HTML: "<p>x</p>"})

	require.NoError(t, err)
	assert.Equal(t, "Oxyllium Leads <from@oxyllium.fr>", got["from"])
	assert.Equal(t, []any{"client@x.com"}, got["to"])
	assert.True(t, strings.HasPrefix(got["html"].(string), "<p>"))
}
