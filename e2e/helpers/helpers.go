package helpers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "Content-Type"
)

// Phone is one listing served by the fake retailer.
type Phone struct {
	ID    string
	Brand string
	Model string
	Price decimal.Decimal
}

// Name returns listing title.
func (p Phone) Name() string {
	return p.Brand + " " + p.Model
}

// Phones returns phones with stable IDs and prices.
func Phones() []Phone {
	return []Phone{
		{ID: "1", Brand: "Samsung", Model: "Galaxy S24 8/256GB", Price: decimal.RequireFromString("1899.99")},
		{ID: "2", Brand: "Apple", Model: "iPhone 15 128GB", Price: decimal.RequireFromString("2199")},
		{ID: "3", Brand: "Xiaomi", Model: "Redmi 13 6/128GB", Price: decimal.RequireFromString("329.90")},
		{ID: "4", Brand: "Samsung", Model: "Galaxy A15 4/128GB", Price: decimal.RequireFromString("349")},
		{ID: "5", Brand: "Honor", Model: "X8b 8/128GB", Price: decimal.RequireFromString("459")},
		{ID: "6", Brand: "Apple", Model: "iPhone 15 Pro Max 256GB", Price: decimal.RequireFromString("3499")},
	}
}

// PrepareMockedRetailer serves kontakt listing pages and telsat load-more pages.
// kontakt serves phones[:split] on page 1 and the rest on page 2, telsat serves all phones on one page.
// Every other retailer path responds 404.
func PrepareMockedRetailer(t *testing.T, phones []Phone, split int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/telefoniya/smartfonlar", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("p") {
		case "1":
			writeHTML(w, kontaktPage(phones[:split], `<a class="page last" href="?p=2">2</a>`))
		case "2":
			writeHTML(w, kontaktPage(phones[split:], ""))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/era_pagination.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("p") != "1" {
			writeHTML(w, `<button onclick="nextPage(0, 28)">Daha çox</button>`)
			return
		}
		writeHTML(w, telsatPage(phones))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func kontaktPage(phones []Phone, pagination string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>\n")
	for _, p := range phones {
		fmt.Fprintf(&sb, `<div class="product-item" id="%[1]s" data-sku="SKU-%[1]s" data-gtm='{"item_name":"%[2]s","item_id":"SKU-%[1]s","item_brand":"%[3]s","price":%[4]s,"discount":0}'>
  <a class="prodItem__img" href="/phone-%[1]s"><img src="/img/%[1]s.webp"></a>
  <div class="prodItem__prices"><b>%[5]s ₼</b></div>
</div>
`, p.ID, p.Name(), p.Brand, p.Price.String(), commaDecimal(p.Price))
	}
	sb.WriteString(pagination)
	sb.WriteString("\n</body></html>")
	return sb.String()
}

func telsatPage(phones []Phone) string {
	var sb strings.Builder
	for _, p := range phones {
		fmt.Fprintf(&sb, `<div class="col-6">
  <a class="card__product" href="/elan/%[1]s"><img class="img-fluid" src="/img/%[1]s.jpg"></a>
  <a class="era_fav" data-id="%[1]s"></a>
  <h3 class="product-title">%[2]s</h3>
  <p class="product-price">%[3]s AZN</p>
</div>
`, p.ID, p.Name(), p.Price.StringFixed(2))
	}
	sb.WriteString(`<button onclick="nextPage(0, 28)">Daha çox</button>`)
	return sb.String()
}

// commaDecimal formats price the way kontakt does, "1.899,99".
func commaDecimal(d decimal.Decimal) string {
	whole := d.Truncate(0).String()
	frac := d.Sub(d.Truncate(0)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	var grouped []string
	for len(whole) > 3 {
		grouped = append([]string{whole[len(whole)-3:]}, grouped...)
		whole = whole[:len(whole)-3]
	}
	grouped = append([]string{whole}, grouped...)

	return fmt.Sprintf("%s,%02d", strings.Join(grouped, "."), frac)
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set(contentType, "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

// DeclareRMQExchange is helper function for declaring RMQ exchange.
func DeclareRMQExchange(t *testing.T, ch *amqp.Channel, exchange string) {
	t.Helper()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		require.FailNow(t, "can't declare exchange", exchange, err)
	}
}

// DeclareRMQQueue is helper function for declaring RMQ queue and binding and cleaning them after test is finished.
func DeclareRMQQueue(t *testing.T, channel *amqp.Channel, queueName, exchange, routingKey string) {
	t.Helper()

	_, err := channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		require.FailNow(t, "can't declare queue", queueName, err)
	}

	err = channel.QueueBind(queueName, routingKey, exchange, false, nil)
	if err != nil {
		require.FailNow(t, "can't bind queue", queueName, routingKey, err)
	}

	t.Cleanup(func() {
		_, err := channel.QueueDelete(queueName, false, false, true)
		if err != nil {
			require.FailNow(t, "can't delete queue", queueName, err)
		}
	})
}

// WaitForMessage is blocking helper function, returns body of the first message in queue.
func WaitForMessage(t *testing.T, channel *amqp.Channel, queueName string, timeout time.Duration) []byte {
	t.Helper()

	deadline := time.After(timeout)
	for {
		msg, ok, err := channel.Get(queueName, true)
		require.NoError(t, err, "can't get message from queue")
		if ok {
			return msg.Body
		}

		select {
		case <-deadline:
			require.FailNow(t, "no message in queue", queueName)
		case <-time.After(100 * time.Millisecond):
		}
	}
}
