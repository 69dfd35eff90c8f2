package opendata

import (
	"fmt"
	"strings"

	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/utils"
)

type (
	SkipReason = domain.SkipReason
	Tally      = domain.Tally
)

const (
	SkipNotObject    SkipReason = "not_object"
	SkipUndecodable  SkipReason = "undecodable_string"
	SkipMissingField SkipReason = "missing_field"
	SkipBadNumber    SkipReason = "bad_number"
	SkipBadMonth     SkipReason = "month_out_of_range"
)

// Field names of the cyber-fraud feed.
const (
	FieldCyberYear         = "연도"
	FieldCyberCategory     = "구분"
	FieldCyberDirectTrade  = "직거래"
	FieldCyberShoppingMall = "쇼핑몰"
	FieldCyberGame         = "게임"
	FieldCyberEmailTrade   = "이메일 무역"
	FieldCyberRomance      = "연예빙자"
	FieldCyberInvestment   = "사이버투자"
	FieldCyberEtc          = "사이버사기_기타"
)

// Field names of the voice-phishing feed.
const (
	FieldVoiceYear  = "년"
	FieldVoiceMonth = "월"
	FieldVoiceCases = "전화금융사기 발생건수"
)

type CyberScamRow struct {
	Year         int
	Category     string
	DirectTrade  int
	ShoppingMall int
	Game         int
	EmailTrade   int
	Romance      int
	Investment   int
	Etc          int
}

func (r CyberScamRow) Record() domain.CyberScamYearly {
	return domain.CyberScamYearly{
		Year:         r.Year,
		Category:     r.Category,
		DirectTrade:  r.DirectTrade,
		ShoppingMall: r.ShoppingMall,
		Game:         r.Game,
		EmailTrade:   r.EmailTrade,
		Romance:      r.Romance,
		Investment:   r.Investment,
		Etc:          r.Etc,
	}
}

type VoicePhishingRow struct {
	Year  int
	Month int
	Cases int
}

func (r VoicePhishingRow) Record() domain.VoicePhishingMonthly {
	return domain.VoicePhishingMonthly{Year: r.Year, Month: r.Month, Cases: r.Cases}
}

// ParseCyberScamRow requires year and category. Counters that are absent
// or malformed become 0.
func ParseCyberScamRow(raw RawRow) (CyberScamRow, SkipReason) {
	yearRaw, ok := present(raw, FieldCyberYear)
	if !ok {
		return CyberScamRow{}, SkipMissingField
	}
	categoryRaw, ok := present(raw, FieldCyberCategory)
	if !ok {
		return CyberScamRow{}, SkipMissingField
	}

	year, ok := utils.ParseInt(yearRaw)
	if !ok || year <= 0 {
		return CyberScamRow{}, SkipBadNumber
	}

	return CyberScamRow{
		Year:         year,
		Category:     strings.TrimSpace(fmt.Sprint(categoryRaw)),
		DirectTrade:  utils.CoerceInt(raw[FieldCyberDirectTrade], 0),
		ShoppingMall: utils.CoerceInt(raw[FieldCyberShoppingMall], 0),
		Game:         utils.CoerceInt(raw[FieldCyberGame], 0),
		EmailTrade:   utils.CoerceInt(raw[FieldCyberEmailTrade], 0),
		Romance:      utils.CoerceInt(raw[FieldCyberRomance], 0),
		Investment:   utils.CoerceInt(raw[FieldCyberInvestment], 0),
		Etc:          utils.CoerceInt(raw[FieldCyberEtc], 0),
	}, ""
}

// ParseVoicePhishingRow requires year, month and case count to be present
// and numeric.
func ParseVoicePhishingRow(raw RawRow) (VoicePhishingRow, SkipReason) {
	values := make([]int, 0, 3)
	for _, field := range []string{FieldVoiceYear, FieldVoiceMonth, FieldVoiceCases} {
		v, ok := present(raw, field)
		if !ok {
			return VoicePhishingRow{}, SkipMissingField
		}
		n, ok := utils.ParseInt(v)
		if !ok {
			return VoicePhishingRow{}, SkipBadNumber
		}
		values = append(values, n)
	}

	row := VoicePhishingRow{Year: values[0], Month: values[1], Cases: values[2]}
	if row.Year <= 0 {
		return VoicePhishingRow{}, SkipBadNumber
	}
	if row.Month < 1 || row.Month > 12 {
		return VoicePhishingRow{}, SkipBadMonth
	}

	return row, ""
}

// present treats absent keys, nulls and blank strings alike.
func present(raw RawRow, field string) (any, bool) {
	v, ok := raw[field]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}
