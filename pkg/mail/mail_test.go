package mail

import (
	"context"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_TemplateAndRaw(t *testing.T) {
	tmpl := template.Must(template.New("order").Parse(`<p>Order {{.Number}}</p>`))
	m := To("buyer@example.com").CC("ops@example.com").
		Subject("Your order").
		Template(tmpl, map[string]string{"Number": "ORD-1"})

	require.NoError(t, m.Err())
	raw := string(m.Raw("Shop <shop@example.com>"))
	assert.Contains(t, raw, "To: buyer@example.com\r\n")
	assert.Contains(t, raw, "Cc: ops@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.Contains(t, raw, "<p>Order ORD-1</p>")
	assert.Equal(t, []string{"buyer@example.com", "ops@example.com"}, m.Recipients())
}

func TestMessage_Errors(t *testing.T) {
	assert.Error(t, To().Subject("x").Err())

	bad := template.Must(template.New("bad").Parse(`{{.Missing.Field}}`))
	m := To("a@b.c").Template(bad, map[string]interface{}{"Missing": 3})
	assert.ErrorContains(t, m.Err(), "render bad")

	err := NewSMTPSender(SMTP{Host: "localhost", Port: "1"}).Send(context.Background(), m)
	assert.ErrorContains(t, err, "render bad")
}

func TestMessage_Text(t *testing.T) {
	raw := string(To("a@b.c").Text("plain").Raw("x"))
	assert.Contains(t, raw, "Content-Type: text/plain")
}
