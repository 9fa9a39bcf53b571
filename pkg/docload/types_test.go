package docload_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vvka-141/docload/pkg/docload"
)

func TestLoadConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    docload.LoadConfig
		wantError bool
	}{
		{
			name: "valid config",
			config: docload.LoadConfig{
				InputPath:        "feed.json",
				ConnectionString: "postgresql://localhost:5432/eventually",
				Table:            docload.DefaultTableConfig(),
			},
		},
		{
			name: "stdin input with timeout",
			config: docload.LoadConfig{
				InputPath:        docload.StdinPath,
				ConnectionString: "postgresql://localhost:5432/eventually",
				Table:            docload.DefaultTableConfig(),
				Timeout:          time.Minute,
			},
		},
		{
			name: "missing input path",
			config: docload.LoadConfig{
				ConnectionString: "postgresql://localhost:5432/eventually",
				Table:            docload.DefaultTableConfig(),
			},
			wantError: true,
		},
		{
			name: "missing connection string",
			config: docload.LoadConfig{
				InputPath: "feed.json",
				Table:     docload.DefaultTableConfig(),
			},
			wantError: true,
		},
		{
			name: "missing table",
			config: docload.LoadConfig{
				InputPath:        "feed.json",
				ConnectionString: "postgresql://localhost:5432/eventually",
			},
			wantError: true,
		},
		{
			name: "negative retries",
			config: docload.LoadConfig{
				InputPath:        "feed.json",
				ConnectionString: "postgresql://localhost:5432/eventually",
				Table:            docload.DefaultTableConfig(),
				ConnectRetries:   -1,
			},
			wantError: true,
		},
		{
			name: "negative timeout",
			config: docload.LoadConfig{
				InputPath:        "feed.json",
				ConnectionString: "postgresql://localhost:5432/eventually",
				Table:            docload.DefaultTableConfig(),
				Timeout:          -time.Second,
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantError {
				t.Fatalf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil && !errors.Is(err, docload.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseAuthMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    docload.AuthMethod
		wantErr bool
	}{
		{"", docload.AuthMethodStandard, false},
		{"standard", docload.AuthMethodStandard, false},
		{"aws-iam", docload.AuthMethodAWSIAM, false},
		{"google-iam", docload.AuthMethodGoogleIAM, false},
		{"azure-entra-id", docload.AuthMethodAzureEntraID, false},
		{"kerberos", docload.AuthMethodStandard, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := docload.ParseAuthMethod(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAuthMethod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, docload.ErrUnsupportedAuthMethod) {
				t.Errorf("error = %v, want ErrUnsupportedAuthMethod", err)
			}
			if got != tt.want {
				t.Errorf("ParseAuthMethod(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAuthMethod_String(t *testing.T) {
	if got := docload.AuthMethodAzureEntraID.String(); got != "Azure Entra ID" {
		t.Errorf("String() = %q", got)
	}
	if got := docload.AuthMethod(99).String(); got != "Unknown(99)" {
		t.Errorf("String() = %q", got)
	}
	if docload.AuthMethod(99).IsValid() {
		t.Error("AuthMethod(99).IsValid() = true")
	}
}
