// Package notifications holds the shop's customer and staff notifications.
package notifications

import (
	"fmt"
	"html/template"

	"github.com/shashiranjanraj/honeyshop/pkg/mail"
	"github.com/shashiranjanraj/honeyshop/pkg/notification"
)

// OrderLine is one row of the confirmation mail.
type OrderLine struct {
	Title    string
	Quantity int
	Subtotal string
}

// OrderConfirmation is sent to the buyer after checkout; staff get a Slack
// ping when a webhook is configured.
type OrderConfirmation struct {
	OrderNumber  string
	CustomerName string
	Lines        []OrderLine
	Subtotal     string
	Shipping     string
	Tax          string
	Total        string
}

var confirmationTmpl = template.Must(template.New("order_confirmation").Parse(`<p>Hi {{.CustomerName}},</p>
<p>Thanks for your order <strong>{{.OrderNumber}}</strong>.</p>
<table>
{{range .Lines}}<tr><td>{{.Title}}</td><td>x{{.Quantity}}</td><td>{{.Subtotal}}</td></tr>
{{end}}</table>
<p>Subtotal: {{.Subtotal}}<br>Shipping: {{.Shipping}}<br>Tax: {{.Tax}}<br><strong>Total: {{.Total}}</strong></p>
<p>We will let you know when it ships.</p>`))

func (n OrderConfirmation) Via() []string {
	return []string{notification.ChannelMail, notification.ChannelSlack}
}

func (n OrderConfirmation) ToMail(address string) *mail.Message {
	return mail.To(address).
		Subject("Your order "+n.OrderNumber).
		Template(confirmationTmpl, n)
}

func (n OrderConfirmation) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("New order %s", n.OrderNumber),
		Attachments: []notification.SlackAttachment{{
			Color: "#f2a900",
			Title: n.OrderNumber,
			Text:  fmt.Sprintf("%d line(s), total %s", len(n.Lines), n.Total),
		}},
	}
}
