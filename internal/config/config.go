package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrMissing is wrapped by Validate when required settings are absent.
var ErrMissing = errors.New("missing configuration")

// ErrInvalid is wrapped by Validate when settings are present but malformed.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Perfect HR
	PerfectHRBaseURL        string `validate:"required,url"`
	PerfectHRAPIToken       string `validate:"required"`
	PerfectHRTimeoutSeconds int    `validate:"min=1"`

	// SFTP (optional upload of the output file)
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
	SFTPKnownHosts            string

	// Logging
	LogLevel string `validate:"oneof=debug info warn error"`
	LogJSON  bool
}

func Load() Config {
	return Config{
		// Perfect HR
		PerfectHRBaseURL:        strings.TrimSpace(os.Getenv("PERFECT_HR_BASE_URL")),
		PerfectHRAPIToken:       strings.TrimSpace(os.Getenv("PERFECT_HR_API_TOKEN")),
		PerfectHRTimeoutSeconds: getenvInt("PERFECT_HR_TIMEOUT_SECONDS", 20),

		// SFTP
		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
		SFTPKnownHosts:            os.Getenv("SFTP_KNOWN_HOSTS"),

		// Logging
		LogLevel: strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogJSON:  getenvBool("LOG_JSON", false),
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: stat env file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("config: env file %q is not a regular file", path)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load env file %s: %w", path, err)
	}
	return nil
}

// PerfectHRTimeout is the request timeout as a duration.
func (c Config) PerfectHRTimeout() time.Duration {
	return time.Duration(c.PerfectHRTimeoutSeconds) * time.Second
}

var validate = validator.New()

// Validate checks the settings needed to reach Perfect HR. Absent required
// values wrap ErrMissing; anything else wraps ErrInvalid.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w: %v", ErrInvalid, err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		name := envName(fe.Field())
		if fe.Tag() == "required" {
			missing = append(missing, name)
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s (%s)", name, fe.Tag()))
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: %w: %s must be set", ErrMissing, strings.Join(missing, " and "))
	}
	return fmt.Errorf("config: %w: %s", ErrInvalid, strings.Join(invalid, ", "))
}

// SFTPReady reports whether the SFTP upload settings are complete.
func (c Config) SFTPReady() bool {
	return c.SFTPHost != "" && c.SFTPUser != "" && c.SFTPPass != ""
}

func envName(field string) string {
	switch field {
	case "PerfectHRBaseURL":
		return "PERFECT_HR_BASE_URL"
	case "PerfectHRAPIToken":
		return "PERFECT_HR_API_TOKEN"
	case "PerfectHRTimeoutSeconds":
		return "PERFECT_HR_TIMEOUT_SECONDS"
	case "LogLevel":
		return "LOG_LEVEL"
	default:
		return field
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
