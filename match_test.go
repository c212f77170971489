package confkit

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalizeReason(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "matched header signature", "Matched Header Signature"},
		{"collapse whitespace", "  too   many\t spaces ", "Too Many Spaces"},
		{"hyphen boundary", "key-value assignment lines", "Key-Value Assignment Lines"},
		{"colon boundary", "variant:resx detected", "Variant:Resx Detected"},
		{"already cased", "REGEDIT4 Header", "REGEDIT4 Header"},
		{"leading digit", "5 tables found", "5 Tables Found"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeReason(tt.in); got != tt.want {
				t.Errorf("NormalizeReason(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeReasonsDedup(t *testing.T) {
	got := NormalizeReasons([]string{
		"matched header",
		"Matched  Header",
		"",
		"second reason",
		"matched header",
	})
	want := []string{"Matched Header", "Second Reason"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d reasons, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected reasons[%d] = %q, got %q", i, want[i], got[i])
		}
	}
}

func TestMatchJSONShape(t *testing.T) {
	m := &Match{
		Plugin:     "xml",
		Format:     "xml",
		Confidence: 0.85,
		Reasons:    []string{"Xml Declaration Present"},
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)

	if !strings.Contains(s, `"metadata":null`) {
		t.Errorf("Expected absent metadata to marshal as null, got %s", s)
	}
	if strings.Contains(s, `"variant"`) {
		t.Errorf("Expected empty variant to be omitted, got %s", s)
	}
	if !strings.Contains(s, `"plugin":"xml"`) {
		t.Errorf("Expected plugin field, got %s", s)
	}
}

func TestAddReasonDedup(t *testing.T) {
	m := &Match{}
	m.addReason("one")
	m.addReason("two")
	m.addReason("one")
	if len(m.Reasons) != 2 {
		t.Errorf("Expected 2 reasons, got %d: %v", len(m.Reasons), m.Reasons)
	}
}
