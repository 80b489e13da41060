package cbr

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dan9191/spend-calendar/internal/config"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ratesResponse = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <GetCursOnDateResponse xmlns="http://web.cbr.ru/">
      <GetCursOnDateResult>
        <diffgr:diffgram xmlns:diffgr="urn:schemas-microsoft-com:xml-diffgram-v1">
          <ValuteData xmlns="">
            <ValuteCursOnDate>
              <Vname>US Dollar</Vname>
              <Vnom>1</Vnom>
              <Vcurs>92.0000</Vcurs>
              <Vcode>840</Vcode>
              <VchCode>USD</VchCode>
            </ValuteCursOnDate>
            <ValuteCursOnDate>
              <Vname>Indian Rupee</Vname>
              <Vnom>10</Vnom>
              <Vcurs>11.5000</Vcurs>
              <Vcode>356</Vcode>
              <VchCode>INR</VchCode>
            </ValuteCursOnDate>
          </ValuteData>
        </diffgr:diffgram>
      </GetCursOnDateResult>
    </GetCursOnDateResponse>
  </soap:Body>
</soap:Envelope>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *CBRClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c := NewCBRClient(&config.Config{CBRURL: srv.URL}, logger)
	c.now = func() time.Time { return time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestUnitsPerUSD(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		body, _ := io.ReadAll(r.Body)
		assert.True(t, strings.Contains(string(body), "<On_date>2026-10-18</On_date>"))
		assert.Equal(t, "http://web.cbr.ru/GetCursOnDate", r.Header.Get("SOAPAction"))
		w.Write([]byte(ratesResponse))
	})
	ctx := context.Background()

	rub, err := c.UnitsPerUSD(ctx, "rub")
	require.NoError(t, err)
	assert.True(t, rub.Equal(decimal.NewFromInt(92)))

	inr, err := c.UnitsPerUSD(ctx, "INR")
	require.NoError(t, err)
	assert.True(t, inr.Equal(decimal.NewFromInt(80)), inr.String())

	usd, err := c.UnitsPerUSD(ctx, "USD")
	require.NoError(t, err)
	assert.True(t, usd.Equal(decimal.NewFromInt(1)))

	_, err = c.UnitsPerUSD(ctx, "XYZ")
	assert.Error(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "rates are cached for the day")
}

func TestUnitsPerUSDServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.UnitsPerUSD(context.Background(), "RUB")
	assert.Error(t, err)
}

func TestParseXMLResponseWithoutRates(t *testing.T) {
	_, err := parseXMLResponse([]byte(`<Envelope><Body/></Envelope>`))
	assert.Error(t, err)

	_, err = parseXMLResponse([]byte(`not xml`))
	assert.Error(t, err)
}
