package alpaca

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrAttributeMissing is returned by Attr for keys absent from the response.
var ErrAttributeMissing = errors.New("attribute missing")

// Attributes is the raw JSON object a value object was decoded from. It gives
// access to keys the typed fields don't name; nothing is checked up front.
type Attributes map[string]json.RawMessage

func (a Attributes) lookup(key string) (json.RawMessage, error) {
	raw, ok := a[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAttributeMissing, key)
	}
	return raw, nil
}

// Attr decodes the value stored under key. Numbers come back as float64,
// objects as map[string]any and arrays as []any.
func (a Attributes) Attr(key string) (any, error) {
	raw, err := a.lookup(key)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode attribute %s: %w", key, err)
	}
	return v, nil
}

// Decimal parses the value under key as a decimal, quoted or not.
func (a Attributes) Decimal(key string) (decimal.Decimal, error) {
	raw, err := a.lookup(key)
	if err != nil {
		return decimal.Zero, err
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return decimal.Zero, fmt.Errorf("decode attribute %s: %w", key, err)
	}
	return d, nil
}

// Time parses the value under key as an RFC 3339 timestamp.
func (a Attributes) Time(key string) (time.Time, error) {
	raw, err := a.lookup(key)
	if err != nil {
		return time.Time{}, err
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil {
		return time.Time{}, fmt.Errorf("decode attribute %s: %w", key, err)
	}
	return t, nil
}

// Has reports whether key was present in the response.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// decodeWithAttributes fills attrs with the whole object, then each tagged
// field of dst on its own. A value that doesn't fit its field leaves the
// zero value; the raw value is still reachable through attrs.
func decodeWithAttributes(data []byte, dst any, attrs *Attributes) error {
	if err := json.Unmarshal(data, attrs); err != nil {
		return err
	}

	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		raw, ok := (*attrs)[name]
		if !ok {
			continue
		}
		field := v.Field(i)
		if err := json.Unmarshal(raw, field.Addr().Interface()); err != nil {
			field.Set(reflect.Zero(field.Type()))
		}
	}
	return nil
}

// Account is the trading account returned by v2/account.
type Account struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"account_number"`
	Status        string    `json:"status"`
	Currency      string    `json:"currency"`

	Cash                  decimal.Decimal `json:"cash"`
	PortfolioValue        decimal.Decimal `json:"portfolio_value"`
	Equity                decimal.Decimal `json:"equity"`
	LastEquity            decimal.Decimal `json:"last_equity"`
	BuyingPower           decimal.Decimal `json:"buying_power"`
	RegTBuyingPower       decimal.Decimal `json:"regt_buying_power"`
	DaytradingBuyingPower decimal.Decimal `json:"daytrading_buying_power"`
	LongMarketValue       decimal.Decimal `json:"long_market_value"`
	ShortMarketValue      decimal.Decimal `json:"short_market_value"`
	InitialMargin         decimal.Decimal `json:"initial_margin"`
	MaintenanceMargin     decimal.Decimal `json:"maintenance_margin"`
	LastMaintenanceMargin decimal.Decimal `json:"last_maintenance_margin"`
	SMA                   decimal.Decimal `json:"sma"`
	Multiplier            decimal.Decimal `json:"multiplier"`
	DaytradeCount         int64           `json:"daytrade_count"`

	PatternDayTrader     bool `json:"pattern_day_trader"`
	TradingBlocked       bool `json:"trading_blocked"`
	TransfersBlocked     bool `json:"transfers_blocked"`
	AccountBlocked       bool `json:"account_blocked"`
	TradeSuspendedByUser bool `json:"trade_suspended_by_user"`
	ShortingEnabled      bool `json:"shorting_enabled"`

	CreatedAt    time.Time `json:"created_at"`
	BalanceAsOf  *string   `json:"balance_asof"`  // null until the first close
	CryptoStatus *string   `json:"crypto_status"` // absent on equity-only accounts

	Attributes `json:"-"`
}

func (a *Account) UnmarshalJSON(data []byte) error {
	type plain Account
	return decodeWithAttributes(data, (*plain)(a), &a.Attributes)
}

// UUID parses ID.
func (a Account) UUID() (uuid.UUID, error) {
	return uuid.Parse(a.ID)
}

// Asset is a tradable instrument from v2/assets.
type Asset struct {
	ID           string    `json:"id"`
	Class        string    `json:"class"`
	Exchange     string    `json:"exchange"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	Tradable     bool      `json:"tradable"`
	Marginable   bool      `json:"marginable"`
	Shortable    bool      `json:"shortable"`
	EasyToBorrow bool      `json:"easy_to_borrow"`
	Fractionable bool      `json:"fractionable"`

	MaintenanceMarginRequirement *float64 `json:"maintenance_margin_requirement"`

	Attributes `json:"-"`
}

func (a *Asset) UnmarshalJSON(data []byte) error {
	type plain Asset
	return decodeWithAttributes(data, (*plain)(a), &a.Attributes)
}

// UUID parses ID.
func (a Asset) UUID() (uuid.UUID, error) {
	return uuid.Parse(a.ID)
}

// Bar is one OHLCV interval from v1/bars.
type Bar struct {
	T      int64   `json:"t"` // interval start, unix seconds
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume int64   `json:"v"`

	Attributes `json:"-"`
}

func (b *Bar) UnmarshalJSON(data []byte) error {
	type plain Bar
	return decodeWithAttributes(data, (*plain)(b), &b.Attributes)
}

// Time returns the interval start.
func (b Bar) Time() time.Time {
	return time.Unix(b.T, 0)
}

// CalendarDay is one trading day from v2/calendar. Times are market-local
// wall clock strings as sent ("09:30", "0400").
type CalendarDay struct {
	Date         string  `json:"date"`
	Open         string  `json:"open"`
	Close        string  `json:"close"`
	SessionOpen  *string `json:"session_open"`
	SessionClose *string `json:"session_close"`

	Attributes `json:"-"`
}

func (d *CalendarDay) UnmarshalJSON(data []byte) error {
	type plain CalendarDay
	return decodeWithAttributes(data, (*plain)(d), &d.Attributes)
}

// Day parses Date in loc.
func (d CalendarDay) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, d.Date, loc)
}

// Clock is the market session state from v2/clock.
type Clock struct {
	Timestamp time.Time `json:"timestamp"`
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`

	Attributes `json:"-"`
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	type plain Clock
	return decodeWithAttributes(data, (*plain)(c), &c.Attributes)
}
