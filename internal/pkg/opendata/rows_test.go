package opendata

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCyberScamRow(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawRow
		want     CyberScamRow
		wantSkip SkipReason
	}{
		{
			name: "full row",
			raw: RawRow{
				FieldCyberYear: json.Number("2021"), FieldCyberCategory: "발생건수",
				FieldCyberDirectTrade: "1,000", FieldCyberShoppingMall: json.Number("20"),
				FieldCyberGame: "3", FieldCyberEmailTrade: "-", FieldCyberRomance: 5.0,
				FieldCyberInvestment: "6", FieldCyberEtc: nil,
			},
			want: CyberScamRow{Year: 2021, Category: "발생건수", DirectTrade: 1000, ShoppingMall: 20, Game: 3, Romance: 5, Investment: 6},
		},
		{
			name:     "missing category",
			raw:      RawRow{FieldCyberYear: "2021"},
			wantSkip: SkipMissingField,
		},
		{
			name:     "blank year",
			raw:      RawRow{FieldCyberYear: " ", FieldCyberCategory: "검거건수"},
			wantSkip: SkipMissingField,
		},
		{
			name:     "unparseable year",
			raw:      RawRow{FieldCyberYear: "작년", FieldCyberCategory: "검거건수"},
			wantSkip: SkipBadNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skip := ParseCyberScamRow(tt.raw)
			if skip != tt.wantSkip {
				t.Fatalf("skip = %q, want %q", skip, tt.wantSkip)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("row mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseVoicePhishingRow(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawRow
		want     VoicePhishingRow
		wantSkip SkipReason
	}{
		{
			name: "numbers and strings",
			raw:  RawRow{FieldVoiceYear: "2019", FieldVoiceMonth: json.Number("7"), FieldVoiceCases: "3,210"},
			want: VoicePhishingRow{Year: 2019, Month: 7, Cases: 3210},
		},
		{
			name:     "null cases",
			raw:      RawRow{FieldVoiceYear: "2019", FieldVoiceMonth: "7", FieldVoiceCases: nil},
			wantSkip: SkipMissingField,
		},
		{
			name:     "empty month",
			raw:      RawRow{FieldVoiceYear: "2019", FieldVoiceMonth: "", FieldVoiceCases: "1"},
			wantSkip: SkipMissingField,
		},
		{
			name:     "zero cases are kept",
			raw:      RawRow{FieldVoiceYear: "2019", FieldVoiceMonth: "1", FieldVoiceCases: json.Number("0")},
			want:     VoicePhishingRow{Year: 2019, Month: 1, Cases: 0},
			wantSkip: "",
		},
		{
			name:     "text cases",
			raw:      RawRow{FieldVoiceYear: "2019", FieldVoiceMonth: "1", FieldVoiceCases: "n/a"},
			wantSkip: SkipBadNumber,
		},
		{
			name:     "month out of range",
			raw:      RawRow{FieldVoiceYear: "2019", FieldVoiceMonth: "13", FieldVoiceCases: "1"},
			wantSkip: SkipBadMonth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skip := ParseVoicePhishingRow(tt.raw)
			if skip != tt.wantSkip {
				t.Fatalf("skip = %q, want %q", skip, tt.wantSkip)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("row mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
