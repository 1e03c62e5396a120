package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeUnknownProvider, "unknown tile provider: %q", "NoSuch.Provider")
	want := `UNKNOWN_PROVIDER: unknown tile provider: "NoSuch.Provider"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	cause := stderrors.New("read failed")
	wrapped := Wrap(ErrCodeInvalidDocument, cause, "failed to parse %s", "map.toml")
	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeConflictingArgs, "palette and colors are mutually exclusive")
	if !Is(err, ErrCodeConflictingArgs) {
		t.Error("Is should match the code")
	}
	if Is(err, ErrCodeInvalidBreaks) {
		t.Error("Is should not match a different code")
	}

	// Wrapped in a plain fmt error, the code should still be found.
	outer := fmt.Errorf("building legend: %w", err)
	if GetCode(outer) != ErrCodeConflictingArgs {
		t.Errorf("GetCode through wrapping = %q", GetCode(outer))
	}

	if GetCode(stderrors.New("plain")) != "" {
		t.Error("GetCode on a plain error should be empty")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidBreaks, "breaks must be equally spaced")
	if UserMessage(err) != "breaks must be equally spaced" {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
	plain := stderrors.New("boom")
	if UserMessage(plain) != "boom" {
		t.Errorf("UserMessage on plain error = %q", UserMessage(plain))
	}
}

func TestValidateLayerID(t *testing.T) {
	tests := []struct {
		id string
		ok bool
	}{
		{"states", true},
		{"tile-layer.1", true},
		{"", false},
		{"has\x00null", false},
		{string(make([]byte, 300)), false},
	}
	for _, tt := range tests {
		err := ValidateLayerID(tt.id)
		if tt.ok && err != nil {
			t.Errorf("ValidateLayerID(%q) unexpected error: %v", tt.id, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("ValidateLayerID(%q) should fail", tt.id)
		}
	}
}

func TestValidatePosition(t *testing.T) {
	for _, pos := range []string{"topright", "bottomright", "bottomleft", "topleft"} {
		if err := ValidatePosition(pos); err != nil {
			t.Errorf("ValidatePosition(%q) unexpected error: %v", pos, err)
		}
	}
	if err := ValidatePosition("center"); err == nil {
		t.Error("ValidatePosition(center) should fail")
	} else if GetCode(err) != ErrCodeInvalidPosition {
		t.Errorf("wrong code: %s", GetCode(err))
	}
}

func TestValidateHexColor(t *testing.T) {
	valid := []string{"#fff", "#03F", "#808080", "#80808000"}
	for _, c := range valid {
		if err := ValidateHexColor(c); err != nil {
			t.Errorf("ValidateHexColor(%q) unexpected error: %v", c, err)
		}
	}
	invalid := []string{"", "fff", "#ff", "#gggggg", "#12345"}
	for _, c := range invalid {
		if err := ValidateHexColor(c); err == nil {
			t.Errorf("ValidateHexColor(%q) should fail", c)
		}
	}
}
