package extract

import (
	"testing"
)

func TestExtractParameters(t *testing.T) {
	text := "Operating Voltage: 240 V\n" +
		"Speed = 3200 rpm\n" +
		"Weight: 12.5 kg\n" +
		"This is a plain prose sentence without any delimiter\n" +
		"Model: TX-500\n"

	params := NewParameterExtractor(DefaultMinConfidence).Extract(text, 3)

	byName := map[string]ExtractedParameter{}
	for _, p := range params {
		byName[p.Name] = p
	}

	tests := []struct {
		name  string
		value string
		unit  string
	}{
		{"Operating Voltage", "240", "V"},
		{"Speed", "3200", "rpm"},
		{"Weight", "12.5", "kg"},
		{"Model", "TX-500", ""},
	}

	for _, tt := range tests {
		p, ok := byName[tt.name]
		if !ok {
			t.Errorf("parameter %q not extracted", tt.name)
			continue
		}
		if p.Value != tt.value {
			t.Errorf("%s: value = %q, want %q", tt.name, p.Value, tt.value)
		}
		if p.Unit != tt.unit {
			t.Errorf("%s: unit = %q, want %q", tt.name, p.Unit, tt.unit)
		}
		if p.PageNumber != 3 {
			t.Errorf("%s: page = %d, want 3", tt.name, p.PageNumber)
		}
		if p.ID == "" {
			t.Errorf("%s: missing id", tt.name)
		}
		if p.Method != MethodTextLayer {
			t.Errorf("%s: method = %s, want %s", tt.name, p.Method, MethodTextLayer)
		}
		if p.Confidence < DefaultMinConfidence || p.Confidence > 1 {
			t.Errorf("%s: confidence = %f out of range", tt.name, p.Confidence)
		}
	}
}

func TestExtractNormalizesUnicode(t *testing.T) {
	// Fullwidth digits fold to ASCII under NFKC.
	params := NewParameterExtractor(DefaultMinConfidence).Extract("Count: １２３", 1)
	if len(params) != 1 {
		t.Fatalf("got %d parameters, want 1", len(params))
	}
	if params[0].Value != "123" {
		t.Errorf("value = %q, want 123", params[0].Value)
	}
}

func TestExtractDropsLowConfidence(t *testing.T) {
	// A long prose value scores below a strict threshold.
	text := "Notes: this value spans many words of descriptive prose commentary here\n"
	params := NewParameterExtractor(0.6).Extract(text, 1)
	if len(params) != 0 {
		t.Errorf("prose value should be dropped, got %v", params)
	}
}

func TestSplitValueUnit(t *testing.T) {
	tests := []struct {
		raw   string
		value string
		unit  string
	}{
		{"240 V", "240", "V"},
		{"240V", "240", "V"},
		{"12.5 mm", "12.5", "mm"},
		{"3,200 rpm", "3,200", "rpm"},
		{"-40 °C", "-40", "°C"},
		{"42", "42", ""},
		{"stainless steel", "stainless steel", ""},
	}

	for _, tt := range tests {
		value, unit := splitValueUnit(tt.raw)
		if value != tt.value || unit != tt.unit {
			t.Errorf("splitValueUnit(%q) = (%q, %q), want (%q, %q)",
				tt.raw, value, unit, tt.value, tt.unit)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	e := NewParameterExtractor(0)
	got := e.score("Voltage", "240", "V")
	if got <= 0.8 || got > 1 {
		t.Errorf("numeric value with unit should score high, got %f", got)
	}

	got = e.score("No", "one two three four five six seven eight nine", "")
	if got >= 0.5 {
		t.Errorf("long prose value should score low, got %f", got)
	}
}
