// Package config loads and validates the proxy's process-wide settings:
// the consul catalog location, the upstream playlist base URL, segment
// signing key/duration, JWT validation secret/pattern, and the HTTP bind
// address. Loading itself (file discovery, env overrides, defaulting) is
// ambient glue around viper; the shape of the merged Config is what the
// rest of the proxy depends on.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConsulUpdateInterval is how often the edge node registry
	// re-polls the catalog when consul.update_interval isn't set.
	DefaultConsulUpdateInterval = 1 * time.Second

	// DefaultSegmentSigningDuration is how long a signed segment URL
	// remains valid when playlist.segment_signing.duration isn't set.
	DefaultSegmentSigningDuration = 60 * time.Second

	// DefaultHTTPSocket is the bind address when http.socket isn't set.
	DefaultHTTPSocket = ":2350"

	// EdgeServiceName is the literal catalog service name the registry
	// queries. The source pins this the same way; kept as a constant
	// here pending future configurability (see SPEC_FULL.md §9).
	EdgeServiceName = "edge"
)

// Config is the fully-resolved, validated settings the rest of the
// process is constructed from. Every field is guaranteed populated.
type Config struct {
	Consul   Consul
	Playlist Playlist
	HTTP     HTTP
}

// Consul holds edge node catalog discovery settings.
type Consul struct {
	BaseURL        *url.URL
	UpdateInterval time.Duration
}

// Playlist holds upstream fetch, segment signing, and JWT validation settings.
type Playlist struct {
	UpstreamBaseURL *url.URL
	SegmentSigning  SegmentSigning
	JWTValidation   JWTValidation
}

// SegmentSigning holds the HMAC key and expiry window for signed segment URLs.
type SegmentSigning struct {
	Key      []byte
	Duration time.Duration
}

// JWTValidation holds the HS512 secret and the stream-name binding pattern.
type JWTValidation struct {
	Secret             []byte
	StreamNamePattern  *regexp.Regexp
}

// HTTP holds the proxy's own listen address.
type HTTP struct {
	Socket string
}

// rawSettings mirrors what viper unmarshals straight from file/env —
// every field optional, matching the "partial" layer the original
// settings.rs merges before validation.
type rawSettings struct {
	Consul struct {
		BaseURL        string `mapstructure:"base_url"`
		UpdateInterval string `mapstructure:"update_interval"`
	} `mapstructure:"consul"`
	Playlist struct {
		UpstreamBaseURL string `mapstructure:"upstream_base_url"`
		SegmentSigning  struct {
			Key      string `mapstructure:"key"`
			Duration string `mapstructure:"duration"`
		} `mapstructure:"segment_signing"`
		JWTValidation struct {
			Secret            string `mapstructure:"secret"`
			StreamNamePattern string `mapstructure:"stream_name_pattern"`
		} `mapstructure:"jwt_validation"`
	} `mapstructure:"playlist"`
	HTTP struct {
		Socket string `mapstructure:"socket"`
	} `mapstructure:"http"`
}

// MissingValueError reports a required setting with no default that was
// left unset after merging file, env, and defaults.
type MissingValueError struct {
	Path string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("missing settings value at %s", e.Path)
}

// Load reads settings from an optional YAML file at path (pass "" to skip),
// overlays environment variables (e.g. PLAYLIST_JWT_VALIDATION_SECRET),
// applies defaults for anything still unset, and validates required fields.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper already knows about; binding each one
	// lets environment variables supply settings absent from the file.
	for _, key := range []string{
		"consul.base_url", "consul.update_interval",
		"playlist.upstream_base_url",
		"playlist.segment_signing.key", "playlist.segment_signing.duration",
		"playlist.jwt_validation.secret", "playlist.jwt_validation.stream_name_pattern",
		"http.socket",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var raw rawSettings
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return merge(raw)
}

func merge(raw rawSettings) (*Config, error) {
	cfg := &Config{}
	var errs []error

	if raw.Consul.BaseURL == "" {
		errs = append(errs, &MissingValueError{Path: "consul.base_url"})
	} else if u, err := url.Parse(raw.Consul.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("consul.base_url: %w", err))
	} else {
		cfg.Consul.BaseURL = u
	}

	cfg.Consul.UpdateInterval = DefaultConsulUpdateInterval
	if raw.Consul.UpdateInterval != "" {
		d, err := time.ParseDuration(raw.Consul.UpdateInterval)
		if err != nil {
			errs = append(errs, fmt.Errorf("consul.update_interval: %w", err))
		} else {
			cfg.Consul.UpdateInterval = d
		}
	}

	if raw.Playlist.UpstreamBaseURL == "" {
		errs = append(errs, &MissingValueError{Path: "playlist.upstream_base_url"})
	} else if u, err := url.Parse(raw.Playlist.UpstreamBaseURL); err != nil {
		errs = append(errs, fmt.Errorf("playlist.upstream_base_url: %w", err))
	} else {
		cfg.Playlist.UpstreamBaseURL = u
	}

	if raw.Playlist.SegmentSigning.Key == "" {
		errs = append(errs, &MissingValueError{Path: "playlist.segment_signing.key"})
	} else {
		cfg.Playlist.SegmentSigning.Key = []byte(raw.Playlist.SegmentSigning.Key)
	}

	cfg.Playlist.SegmentSigning.Duration = DefaultSegmentSigningDuration
	if raw.Playlist.SegmentSigning.Duration != "" {
		d, err := time.ParseDuration(raw.Playlist.SegmentSigning.Duration)
		if err != nil {
			errs = append(errs, fmt.Errorf("playlist.segment_signing.duration: %w", err))
		} else {
			cfg.Playlist.SegmentSigning.Duration = d
		}
	}

	if raw.Playlist.JWTValidation.Secret == "" {
		errs = append(errs, &MissingValueError{Path: "playlist.jwt_validation.secret"})
	} else {
		cfg.Playlist.JWTValidation.Secret = []byte(raw.Playlist.JWTValidation.Secret)
	}

	if raw.Playlist.JWTValidation.StreamNamePattern == "" {
		errs = append(errs, &MissingValueError{Path: "playlist.jwt_validation.stream_name_pattern"})
	} else {
		re, err := regexp.Compile(raw.Playlist.JWTValidation.StreamNamePattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("playlist.jwt_validation.stream_name_pattern: %w", err))
		} else {
			cfg.Playlist.JWTValidation.StreamNamePattern = re
		}
	}

	cfg.HTTP.Socket = DefaultHTTPSocket
	if raw.HTTP.Socket != "" {
		cfg.HTTP.Socket = raw.HTTP.Socket
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return cfg, nil
}
