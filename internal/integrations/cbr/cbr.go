package cbr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/spend-calendar/internal/config"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Rate is the RUB price of Nominal units of a currency
type Rate struct {
	Code    string
	Nominal decimal.Decimal
	RUB     decimal.Decimal
}

// CBRClient fetches daily exchange rates from the Central Bank of Russia and
// converts them into units of a currency per US dollar.
type CBRClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
	now    func() time.Time

	mu     sync.Mutex
	day    string
	cached map[string]Rate
}

// NewCBRClient initializes a new CBR client
func NewCBRClient(cfg *config.Config, log *logrus.Logger) *CBRClient {
	return &CBRClient{
		url: cfg.CBRURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// buildSOAPRequest creates a SOAP request for the rates on a date
func (c *CBRClient) buildSOAPRequest(onDate time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<GetCursOnDate xmlns="http://web.cbr.ru/">
					<On_date>%s</On_date>
				</GetCursOnDate>
			</soap12:Body>
		</soap12:Envelope>`, onDate.Format("2006-01-02"))
}

// sendRequest sends SOAP request to CBR
func (c *CBRClient) sendRequest(ctx context.Context, soapRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/GetCursOnDate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("CBR XML response: %s", string(body))
	return body, nil
}

// parseXMLResponse extracts the rate table keyed by ISO currency code
func parseXMLResponse(rawBody []byte) (map[string]Rate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	elements := doc.FindElements("//ValuteData/ValuteCursOnDate")
	if len(elements) == 0 {
		return nil, fmt.Errorf("no exchange rate data found in XML")
	}

	rates := make(map[string]Rate, len(elements))
	for _, el := range elements {
		code := childText(el, "VchCode")
		if code == "" {
			continue
		}
		nominal, err := decimal.NewFromString(childText(el, "Vnom"))
		if err != nil || !nominal.IsPositive() {
			return nil, fmt.Errorf("invalid nominal for %s", code)
		}
		rub, err := decimal.NewFromString(childText(el, "Vcurs"))
		if err != nil || !rub.IsPositive() {
			return nil, fmt.Errorf("invalid rate for %s", code)
		}
		rates[code] = Rate{Code: code, Nominal: nominal, RUB: rub}
	}
	return rates, nil
}

func childText(el *etree.Element, tag string) string {
	child := el.FindElement("./" + tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// Rates returns today's rate table, fetching it at most once per day
func (c *CBRClient) Rates(ctx context.Context) (map[string]Rate, error) {
	today := c.now().Format("2006-01-02")

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.day == today && c.cached != nil {
		return c.cached, nil
	}

	body, err := c.sendRequest(ctx, c.buildSOAPRequest(c.now()))
	if err != nil {
		return nil, err
	}
	rates, err := parseXMLResponse(body)
	if err != nil {
		return nil, err
	}
	c.day, c.cached = today, rates
	c.log.Infof("Retrieved %d CBR exchange rates for %s", len(rates), today)
	return rates, nil
}

// UnitsPerUSD returns how many units of currency buy one US dollar
func (c *CBRClient) UnitsPerUSD(ctx context.Context, currency string) (decimal.Decimal, error) {
	currency = strings.ToUpper(currency)
	if currency == "USD" {
		return decimal.NewFromInt(1), nil
	}

	rates, err := c.Rates(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	usd, ok := rates["USD"]
	if !ok {
		return decimal.Zero, fmt.Errorf("USD rate missing from CBR response")
	}
	usdInRUB := usd.RUB.Div(usd.Nominal)
	if currency == "RUB" {
		return usdInRUB, nil
	}

	rate, ok := rates[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("no CBR rate for currency %s", currency)
	}
	return usdInRUB.Div(rate.RUB.Div(rate.Nominal)), nil
}
