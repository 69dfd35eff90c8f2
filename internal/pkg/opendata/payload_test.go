package opendata

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeVoicePayload_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantRows int
		wantSkip Tally
	}{
		{
			name:     "object with data array",
			body:     `{"data":[{"년":2020,"월":1,"전화금융사기 발생건수":10}],"totalCount":1}`,
			wantRows: 1,
			wantSkip: Tally{},
		},
		{
			name:     "bare array",
			body:     `[{"년":2020,"월":1,"전화금융사기 발생건수":10},{"년":2020,"월":2,"전화금융사기 발생건수":12}]`,
			wantRows: 2,
			wantSkip: Tally{},
		},
		{
			name:     "double encoded elements",
			body:     `{"data":["{\"년\":2021,\"월\":3,\"전화금융사기 발생건수\":\"1,234\"}"]}`,
			wantRows: 1,
			wantSkip: Tally{},
		},
		{
			name:     "junk elements are dropped",
			body:     `{"data":[5,null,"not json","[1,2]",{"년":2021,"월":4,"전화금융사기 발생건수":7}]}`,
			wantRows: 1,
			wantSkip: Tally{SkipNotObject: 3, SkipUndecodable: 1},
		},
		{
			name:     "object without data",
			body:     `{"currentCount":0}`,
			wantRows: 0,
			wantSkip: Tally{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := DecodeVoicePayload([]byte(tt.body))
			if err != nil {
				t.Fatalf("DecodeVoicePayload: %v", err)
			}

			rows := 0
			for _, el := range payload.Elements {
				if el.Row != nil {
					rows++
				}
			}
			if rows != tt.wantRows {
				t.Errorf("rows = %d, want %d", rows, tt.wantRows)
			}
			if diff := cmp.Diff(tt.wantSkip, payload.Skipped); diff != "" {
				t.Errorf("Skipped mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeVoicePayload_NumbersKeepPrecision(t *testing.T) {
	payload, err := DecodeVoicePayload([]byte(`[{"전화금융사기 발생건수":12345678901}]`))
	if err != nil {
		t.Fatal(err)
	}
	got, ok := payload.Elements[0].Row[FieldVoiceCases].(json.Number)
	if !ok {
		t.Fatalf("cases decoded as %T, want json.Number", payload.Elements[0].Row[FieldVoiceCases])
	}
	if got.String() != "12345678901" {
		t.Errorf("cases = %s", got)
	}
}

func TestDecodeVoicePayload_ScalarTopLevel(t *testing.T) {
	_, err := DecodeVoicePayload([]byte(`"hello"`))
	if !errors.Is(err, ErrUnexpectedPayload) {
		t.Fatalf("err = %v, want ErrUnexpectedPayload", err)
	}
}

func TestDecodeCyberPayload(t *testing.T) {
	payload, err := DecodeCyberPayload([]byte(`{"data":[{"연도":2020,"구분":"발생건수"},"oops"],"totalCount":2}`))
	if err != nil {
		t.Fatal(err)
	}
	if payload.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", payload.TotalCount)
	}
	if len(payload.Elements) != 2 || payload.Elements[0].Row == nil || payload.Elements[1].Skip != SkipNotObject {
		t.Errorf("unexpected elements: %+v", payload.Elements)
	}

	if _, err = DecodeCyberPayload([]byte(`not json`)); !errors.Is(err, ErrUnexpectedPayload) {
		t.Errorf("err = %v, want ErrUnexpectedPayload", err)
	}
}
