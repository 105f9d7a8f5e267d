package errors

import (
	"testing"
)

func TestValidateExtensionID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "esbenp.prettier-vscode", false},
		{"hyphenated publisher", "ms-python.python", false},
		{"dotted name", "redhat.vscode.yaml", false},
		{"mixed case", "VisualStudioExptTeam.vscodeintellicode", false},

		{"empty", "", true},
		{"no dot", "prettier", true},
		{"leading dot", ".prettier", true},
		{"trailing dot", "esbenp.", true},
		{"slash", "esbenp/prettier", true},
		{"too long", "a." + string(make([]byte, 300)), true},
		{"control char", "a.b\x01", true},
		{"space", "a. b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtensionID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExtensionID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateExtensionID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "package.json", false},
		{"nested", "extensions/pack/package.json", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://open-vsx.org", false},
		{"http://localhost:8080", false},
		{"", true},
		{"ftp://example.com", true},
		{"file:///etc/passwd", true},
	}

	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
