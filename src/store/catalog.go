package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Infradevandops/cumapp/src/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Catalog is the seed inventory loaded at startup: marketplace numbers and
// subscription plans.
type Catalog struct {
	Numbers []CatalogNumber `json:"numbers"`
	Plans   []CatalogPlan   `json:"plans"`
}

// CatalogNumber is one marketplace listing in the seed file. Price is a
// string so the JSONC stays exact ("1.25", never a float).
type CatalogNumber struct {
	E164         string   `json:"e164"`
	Country      string   `json:"country"`
	Capabilities []string `json:"capabilities"`
	MonthlyUSD   string   `json:"monthly_usd"`
}

// CatalogPlan is one subscription tier in the seed file.
type CatalogPlan struct {
	Name       string `json:"name"`
	MonthlyUSD string `json:"monthly_usd"`
	SMSQuota   int    `json:"sms_quota"`
}

// StripJSONC loads a JSONC file (lines beginning with // are ignored) and returns raw JSON bytes.
func StripJSONC(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, scanner.Err()
}

// LoadCatalog parses a JSONC catalog file into domain records.
func LoadCatalog(path string) ([]types.PhoneNumber, []types.Plan, error) {
	raw, err := StripJSONC(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}
	var cat Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, nil, fmt.Errorf("parse catalog: %w", err)
	}
	return buildCatalog(cat)
}

func buildCatalog(cat Catalog) ([]types.PhoneNumber, []types.Plan, error) {
	numbers := make([]types.PhoneNumber, 0, len(cat.Numbers))
	for _, n := range cat.Numbers {
		if !strings.HasPrefix(n.E164, "+") {
			return nil, nil, fmt.Errorf("catalog number %q: not E.164", n.E164)
		}
		price, err := decimal.NewFromString(n.MonthlyUSD)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog number %q: bad price %q", n.E164, n.MonthlyUSD)
		}
		numbers = append(numbers, types.PhoneNumber{
			ID:           uuid.NewString(),
			E164:         n.E164,
			Country:      strings.ToUpper(n.Country),
			Capabilities: n.Capabilities,
			MonthlyUSD:   price,
		})
	}
	plans := make([]types.Plan, 0, len(cat.Plans))
	for _, p := range cat.Plans {
		price, err := decimal.NewFromString(p.MonthlyUSD)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog plan %q: bad price %q", p.Name, p.MonthlyUSD)
		}
		plans = append(plans, types.Plan{
			ID:         uuid.NewString(),
			Name:       p.Name,
			MonthlyUSD: price,
			SMSQuota:   p.SMSQuota,
		})
	}
	return numbers, plans, nil
}

// DefaultCatalog seeds a small inventory for deployments without a catalog
// file (dev, tests).
func DefaultCatalog() ([]types.PhoneNumber, []types.Plan) {
	numbers, plans, err := buildCatalog(Catalog{
		Numbers: []CatalogNumber{
			{E164: "+14155550100", Country: "US", Capabilities: []string{"sms", "voice"}, MonthlyUSD: "1.25"},
			{E164: "+14155550101", Country: "US", Capabilities: []string{"sms"}, MonthlyUSD: "1.00"},
			{E164: "+442079460000", Country: "GB", Capabilities: []string{"sms"}, MonthlyUSD: "1.50"},
			{E164: "+4915123456789", Country: "DE", Capabilities: []string{"sms", "mms"}, MonthlyUSD: "1.75"},
			{E164: "+819012345678", Country: "JP", Capabilities: []string{"sms"}, MonthlyUSD: "2.00"},
		},
		Plans: []CatalogPlan{
			{Name: "Starter", MonthlyUSD: "9.00", SMSQuota: 500},
			{Name: "Growth", MonthlyUSD: "29.00", SMSQuota: 5000},
			{Name: "Scale", MonthlyUSD: "99.00", SMSQuota: 50000},
		},
	})
	if err != nil {
		// the literals above are static; a failure here is a programming error
		panic(err)
	}
	return numbers, plans
}
