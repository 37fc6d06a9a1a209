package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeInvalidSlot, "no slot at index %d", 3),
			want: "INVALID_SLOT: no slot at index 3",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeStore, stderrors.New("disk full"), "save gallery %q", "wall"),
			want: `STORE_ERROR: save gallery "wall": disk full`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeVariantNotFound, "no variant for 70x100")

	if !Is(err, ErrCodeVariantNotFound) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeCart) {
		t.Error("Is should not match a different code")
	}

	// Wrapped errors keep their code visible through the chain.
	wrapped := fmt.Errorf("resolving: %w", err)
	if !Is(wrapped, ErrCodeVariantNotFound) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeNotFound, true},
		{ErrCodeVariantNotFound, true},
		{ErrCodeGalleryNotFound, true},
		{ErrCodeProductNotFound, true},
		{ErrCodeCart, false},
		{ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsNotFound(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsNotFound(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}

	if IsNotFound(stderrors.New("plain")) {
		t.Error("IsNotFound should be false for plain errors")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetch cart")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidName, "gallery name cannot be empty")
	if got := UserMessage(err); got != "gallery name cannot be empty" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTimeout, "x")); got != ErrCodeTimeout {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeTimeout)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestValidateGalleryName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "Living room wall", false},
		{"Empty", "", true},
		{"Whitespace", "   ", true},
		{"TooLong", strings.Repeat("a", MaxGalleryNameLength+1), true},
		{"ControlChars", "wall\x00name", true},
		{"Unicode", "Galería de pósters", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGalleryName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGalleryName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("expected INVALID_NAME code, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateProductHandle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "vintage-botanical-print", false},
		{"Empty", "", true},
		{"Slash", "a/b", true},
		{"Query", "a?b", true},
		{"Percent", "a%20b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateProductHandle(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateProductHandle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateQuantity(t *testing.T) {
	if err := ValidateQuantity(1); err != nil {
		t.Errorf("quantity 1 should be valid: %v", err)
	}
	if err := ValidateQuantity(0); err == nil {
		t.Error("quantity 0 should be rejected")
	}
}
