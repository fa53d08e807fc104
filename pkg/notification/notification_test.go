package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/honeyshop/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct{ sent []*mail.Message }

func (c *capture) Send(_ context.Context, m *mail.Message) error {
	c.sent = append(c.sent, m)
	return nil
}

type shipped struct{ channels []string }

func (s shipped) Via() []string { return s.channels }
func (s shipped) ToMail(addr string) *mail.Message {
	return mail.To(addr).Subject("Shipped").Text("on its way")
}
func (s shipped) ToSlack() SlackData { return SlackData{Text: "order shipped"} }

type noSlack struct{}

func (noSlack) Via() []string { return []string{ChannelSlack} }

func TestSend_MailAndSlack(t *testing.T) {
	var got SlackData
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mailer := &capture{}
	n := New(mailer, srv.URL)
	errs := n.Send(context.Background(), "buyer@example.com", shipped{channels: []string{ChannelMail, ChannelSlack}})

	assert.Empty(t, errs)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Shipped", mailer.sent[0].SubjectLine())
	assert.Equal(t, "order shipped", got.Text)
}

func TestSend_SlackDisabledAndErrors(t *testing.T) {
	n := New(&capture{}, "")
	assert.Empty(t, n.Send(context.Background(), "a@b.c", shipped{channels: []string{ChannelSlack}}))

	errs := n.Send(context.Background(), "a@b.c", shipped{channels: []string{"pager"}})
	assert.Len(t, errs, 1)

	errs = New(&capture{}, "http://127.0.0.1:1").Send(context.Background(), "", noSlack{})
	assert.Len(t, errs, 1)
}

func TestSend_SlackNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	errs := New(&capture{}, srv.URL).Send(context.Background(), "", shipped{channels: []string{ChannelSlack}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "502")
}
