// Package synccode turns a unit's missing items for a day into a copy/paste
// token and back. The token is base64 over a small JSON document whose short
// keys (mi, mn, dt, it, n, d, c, h) are shared with older clients.
package synccode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// CurrentVersion is written into every new token.
const CurrentVersion = 1

const dateLayout = "2006-01-02"

// ErrInvalidCode is wrapped by every Decode failure.
var ErrInvalidCode = errors.New("invalid code")

// Item is one deficit line.
type Item struct {
	Name          string  `json:"n"`
	Deficit       float64 `json:"d"`
	Current       string  `json:"c"`
	HistoryNumber string  `json:"h"`
}

// Payload is the decoded token content.
type Payload struct {
	Version    int    `json:"v"`
	MobileID   string `json:"mi"`
	MobileName string `json:"mn"`
	Date       string `json:"dt"`
	Items      []Item `json:"it"`
}

// Build collects every missing check of the unit for the (clamped) day.
func Build(user models.User, state *models.InventoryState, day int, now time.Time) Payload {
	day = models.ClampDay(day)
	catalog := models.ItemsFor(user.Kind)

	p := Payload{
		Version:    CurrentVersion,
		MobileID:   user.ID,
		MobileName: user.DisplayName,
		Date:       now.Format(dateLayout),
		Items:      []Item{},
	}
	if state == nil {
		return p
	}

	for _, c := range state.Checks {
		if c.Day != day || c.Status != models.StatusMissing {
			continue
		}
		name := "?"
		required := 0
		if item, ok := models.FindItem(catalog, c.ItemID); ok {
			name = item.Name
			required = item.RequiredStock
		}
		p.Items = append(p.Items, Item{
			Name:          name,
			Deficit:       Deficit(required, c.CurrentStock),
			Current:       c.CurrentStock,
			HistoryNumber: c.HistoryNumber,
		})
	}
	return p
}

// Deficit is required minus current, floored at zero. Unparseable current counts as zero.
func Deficit(required int, current string) float64 {
	cur := models.DayCheck{CurrentStock: current}.CurrentStockValue()
	return math.Max(0, float64(required)-cur)
}

// Encode serializes a payload into the opaque token.
func Encode(p Payload) (string, error) {
	if p.Version == 0 {
		p.Version = CurrentVersion
	}
	if p.Items == nil {
		p.Items = []Item{}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal sync payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

type wireItem struct {
	Name          *string         `json:"n"`
	Deficit       json.RawMessage `json:"d"`
	Current       json.RawMessage `json:"c"`
	HistoryNumber string          `json:"h"`
}

type wirePayload struct {
	Version    *int            `json:"v"`
	MobileID   json.RawMessage `json:"mi"`
	MobileName *string         `json:"mn"`
	Date       string          `json:"dt"`
	Items      *[]wireItem     `json:"it"`
}

// Decode validates an untrusted token. Failures wrap ErrInvalidCode and a
// domain.ValidationError naming the offending field.
func Decode(token string) (Payload, error) {
	token = strings.Join(strings.Fields(token), "")
	if token == "" {
		return Payload{}, invalid("code", "is empty")
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Payload{}, invalid("code", "is not base64")
	}
	raw = latin1ToUTF8(raw)

	var w wirePayload
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&w); err != nil {
		return Payload{}, invalid("code", "is not a JSON document")
	}

	// Tokens from older clients carry no version and are read as version 1.
	p := Payload{Version: CurrentVersion, Date: w.Date}
	if w.Version != nil && *w.Version != CurrentVersion {
		return Payload{}, invalid("v", fmt.Sprintf("unsupported version %d", *w.Version))
	}

	id, ok := scalarString(w.MobileID)
	if !ok || id == "" {
		return Payload{}, invalid("mi", "is required")
	}
	p.MobileID = id

	if w.MobileName == nil || strings.TrimSpace(*w.MobileName) == "" {
		return Payload{}, invalid("mn", "is required")
	}
	p.MobileName = *w.MobileName

	if w.Items == nil {
		return Payload{}, invalid("it", "is required")
	}

	p.Items = make([]Item, 0, len(*w.Items))
	for i, wi := range *w.Items {
		if wi.Name == nil || *wi.Name == "" {
			return Payload{}, invalid(fmt.Sprintf("it[%d].n", i), "is required")
		}
		var deficit float64
		if err := json.Unmarshal(wi.Deficit, &deficit); err != nil || deficit < 0 {
			return Payload{}, invalid(fmt.Sprintf("it[%d].d", i), "must be a non-negative number")
		}
		current, ok := scalarString(wi.Current)
		if !ok {
			return Payload{}, invalid(fmt.Sprintf("it[%d].c", i), "must be a number or string")
		}
		p.Items = append(p.Items, Item{
			Name:          *wi.Name,
			Deficit:       deficit,
			Current:       current,
			HistoryNumber: wi.HistoryNumber,
		})
	}

	return p, nil
}

// latin1ToUTF8 re-encodes tokens whose accented text was written as single
// Latin-1 bytes. Valid UTF-8 is returned untouched.
func latin1ToUTF8(raw []byte) []byte {
	if utf8.Valid(raw) {
		return raw
	}
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return []byte(string(runes))
}

// scalarString accepts a JSON string or number; absent values read as "".
func scalarString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %w", ErrInvalidCode, domain.NewValidationError(field, msg))
}
