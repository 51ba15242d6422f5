package form

import (
	"errors"
	"net/url"
	"testing"

	"github.com/jetsetgo/qr-studio/internal/config"
)

func newTestValidator() *Validator {
	return NewValidator(config.Default().Form)
}

func TestValidateContent(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"", true},
		{"   ", true},
		{"example.com", true},
		{"https://example.com", true},
		{"http://localhost", true},
		{"https://", true},
		{"a.b", false},
		{"a.bc", true},
		{"not a url", false},
		{"localhost", false},
	}

	for _, tt := range tests {
		msg := ValidateContent(tt.value)
		if tt.valid && msg != "" {
			t.Errorf("ValidateContent(%q): expected valid, got %q", tt.value, msg)
		}
		if !tt.valid && msg != ContentMessage {
			t.Errorf("ValidateContent(%q): expected %q, got %q", tt.value, ContentMessage, msg)
		}
	}
}

func TestDecodeAppliesDefaults(t *testing.T) {
	v := newTestValidator()
	req, err := v.Decode(url.Values{"url": {"  example.com "}})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if req.URL != "example.com" {
		t.Errorf("expected trimmed url, got %q", req.URL)
	}
	if req.BoxSize != 10 || req.Border != 4 {
		t.Errorf("expected default sizes 10/4, got %d/%d", req.BoxSize, req.Border)
	}
	if req.FillColor != "#000000" || req.BackColor != "#ffffff" {
		t.Errorf("expected default colors, got %s/%s", req.FillColor, req.BackColor)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		field  string
	}{
		{"missing url", url.Values{}, FieldURL},
		{"not a url", url.Values{"url": {"not a url"}}, FieldURL},
		{"box size too large", url.Values{"url": {"example.com"}, "box_size": {"500"}}, FieldBoxSize},
		{"negative border", url.Values{"url": {"example.com"}, "border": {"-1"}}, FieldBorder},
		{"non numeric border", url.Values{"url": {"example.com"}, "border": {"wide"}}, FieldBorder},
		{"bad color", url.Values{"url": {"example.com"}, "fill_color": {"black"}}, FieldFillColor},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Decode(tt.values)
			if err == nil {
				t.Fatal("expected error")
			}
			var fe FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldErrors, got %T", err)
			}
			if _, ok := fe[tt.field]; !ok {
				t.Errorf("expected error on %q, got %v", tt.field, fe)
			}
		})
	}
}

func TestDecodeNotAURLMessage(t *testing.T) {
	_, err := newTestValidator().Decode(url.Values{"url": {"not a url"}})
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if fe[FieldURL] != ContentMessage {
		t.Errorf("expected %q, got %q", ContentMessage, fe[FieldURL])
	}
}

func TestEncode(t *testing.T) {
	req := GenerationRequest{
		URL:       "https://example.com",
		Headline:  "Hello",
		BoxSize:   12,
		Border:    2,
		FillColor: "#112233",
		BackColor: "#ffffff",
	}
	v := req.Encode()
	if v.Get("url") != "https://example.com" {
		t.Errorf("unexpected url %q", v.Get("url"))
	}
	if v.Get("box_size") != "12" || v.Get("border") != "2" {
		t.Errorf("unexpected sizes %q/%q", v.Get("box_size"), v.Get("border"))
	}
	if v.Get("fill_color") != "#112233" {
		t.Errorf("unexpected fill color %q", v.Get("fill_color"))
	}
}

func TestFieldErrorsString(t *testing.T) {
	fe := FieldErrors{"url": "URL is required", "border": "must be between 0 and 20"}
	want := "invalid form: border: must be between 0 and 20; url: URL is required"
	if fe.Error() != want {
		t.Errorf("expected %q, got %q", want, fe.Error())
	}
}
