package docload

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LoadConfig contains all parameters needed for one load run.
type LoadConfig struct {
	// InputPath is the newline-delimited JSON feed to read ("-" for stdin).
	InputPath string

	// ConnectionString is the PostgreSQL connection string (URI or ADO.NET format)
	// identifying the destination database.
	ConnectionString string

	// Auth selects the authentication mechanism for ConnectionString.
	Auth AuthConfig

	// Table names the destination table and its columns.
	Table TableConfig

	// Location interprets created values that carry no zone. Nil means UTC.
	Location *time.Location

	// ConnectRetries is the number of additional connection attempts on
	// transient network errors. Zero disables retries.
	ConnectRetries int

	// Timeout bounds the whole run. Zero means no timeout.
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.InputPath == "" {
		errs = append(errs, fmt.Errorf("InputPath is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if err := c.Table.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.ConnectRetries < 0 {
		errs = append(errs, fmt.Errorf("connect retries cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// FetchConfig contains the parameters needed to read documents back by key.
type FetchConfig struct {
	ConnectionString string
	Auth             AuthConfig
	Table            TableConfig
	ConnectRetries   int
	Timeout          time.Duration
	Verbose          bool
}

// Validate checks if the FetchConfig has all required fields and valid values.
func (c *FetchConfig) Validate() error {
	var errs []error

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}
	if err := c.Table.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.ConnectRetries < 0 {
		errs = append(errs, fmt.Errorf("connect retries cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// TableConfig names the document table and its two columns.
type TableConfig struct {
	// Schema is optional; empty means the connection's search_path decides.
	Schema       string
	Name         string
	IDColumn     string
	ObjectColumn string
}

// DefaultTableConfig returns the documents(doc_id, object) layout.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		Name:         DefaultTable,
		IDColumn:     DefaultIDColumn,
		ObjectColumn: DefaultObjectColumn,
	}
}

// Validate reports missing table or column names.
func (t TableConfig) Validate() error {
	var errs []error
	if t.Name == "" {
		errs = append(errs, fmt.Errorf("table name is required: %w", ErrInvalidConfig))
	}
	if t.IDColumn == "" {
		errs = append(errs, fmt.Errorf("id column is required: %w", ErrInvalidConfig))
	}
	if t.ObjectColumn == "" {
		errs = append(errs, fmt.Errorf("object column is required: %w", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// AuthConfig carries the authentication mechanism and its cloud parameters.
type AuthConfig struct {
	// Method indicates the authentication mechanism to use
	Method AuthMethod

	// Azure Entra ID parameters (used when Method is AuthMethodAzureEntraID)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required when Method is AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance), required when Method is AuthMethodGoogleIAM.
	GoogleInstance string
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	AWSRegion      string
	GoogleInstance string

	// ConnectRetries is the number of extra connection attempts on transient errors.
	ConnectRetries int
}

// Auth extracts the authentication settings of c.
func (c *ConnectionConfig) Auth() AuthConfig {
	return AuthConfig{
		Method:            c.AuthMethod,
		AzureTenantID:     c.AzureTenantID,
		AzureClientID:     c.AzureClientID,
		AzureClientSecret: c.AzureClientSecret,
		AWSRegion:         c.AWSRegion,
		GoogleInstance:    c.GoogleInstance,
	}
}

// ApplyAuth copies the authentication settings of a onto c.
func (c *ConnectionConfig) ApplyAuth(a AuthConfig) {
	c.AuthMethod = a.Method
	c.AzureTenantID = a.AzureTenantID
	c.AzureClientID = a.AzureClientID
	c.AzureClientSecret = a.AzureClientSecret
	c.AWSRegion = a.AWSRegion
	c.GoogleInstance = a.GoogleInstance
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod maps the configuration spelling of an auth method
// ("standard", "aws-iam", "google-iam", "azure-entra-id") to an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch s {
	case "", "standard":
		return AuthMethodStandard, nil
	case "aws-iam", "aws":
		return AuthMethodAWSIAM, nil
	case "google-iam", "google":
		return AuthMethodGoogleIAM, nil
	case "azure-entra-id", "azure":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("auth method %q: %w", s, ErrUnsupportedAuthMethod)
	}
}

// Document is one transformed feed record, ready to be written.
type Document struct {
	// ID is the canonical 128-bit key parsed from the record's id field.
	ID uuid.UUID

	// Body is the record re-serialized with created as integer epoch seconds.
	// The id field keeps its original text form.
	Body []byte
}

// Summary describes a finished load run.
type Summary struct {
	InputPath string
	Records   int
	Duration  time.Duration
}
