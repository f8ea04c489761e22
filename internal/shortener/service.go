package shortener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/nkemjika/shortly/codegen"
	"github.com/nkemjika/shortly/internal/errx"
)

const (
	DefaultCodeLength  = 6
	DefaultMaxAttempts = 5

	// Custom codes follow a looser policy than generated ones: 3-32
	// characters of [A-Za-z0-9_-], no leading or trailing dash/underscore.
	MinCustomCodeLength = 3
	MaxCustomCodeLength = 32

	MaxURLLength = 2048

	defaultStoreTimeout = 3 * time.Second
	defaultCacheSize    = 10000
)

// ShortenRequest represents the parameters for creating a new short link.
type ShortenRequest struct {
	URL        string
	CustomCode string // Optional: if empty, a code will be generated
}

// Service defines the business logic of the shortener: creating links,
// resolving them for redirects, and reporting statistics.
type Service interface {
	Shorten(ctx context.Context, req ShortenRequest) (ShortLink, error)
	Resolve(ctx context.Context, code string) (string, error)
	Stats(ctx context.Context, code string) (ShortLink, error)
}

// service implements the Service interface.
type service struct {
	store        Store
	cache        *Cache
	codes        codegen.Generator
	codeLength   int
	maxAttempts  int
	storeTimeout time.Duration
	logger       *slog.Logger
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Cache        *Cache
	CodeGen      codegen.Generator
	CodeLength   int
	MaxAttempts  int // attempts when generating a unique code (default: 5)
	StoreTimeout time.Duration
	Logger       *slog.Logger
}

// NewService creates a new service instance.
func NewService(store Store, config *ServiceConfig) (Service, error) {
	if config == nil {
		config = &ServiceConfig{}
	}

	gen := config.CodeGen
	if gen == nil {
		gen = codegen.NewBase62()
	}

	cache := config.Cache
	if cache == nil {
		var err error
		cache, err = NewCache(defaultCacheSize)
		if err != nil {
			return nil, err
		}
	}

	codeLength := config.CodeLength
	if codeLength < MinCustomCodeLength || codeLength > MaxCustomCodeLength {
		codeLength = DefaultCodeLength
	}

	attempts := config.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	storeTimeout := config.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		store:        store,
		cache:        cache,
		codes:        gen,
		codeLength:   codeLength,
		maxAttempts:  attempts,
		storeTimeout: storeTimeout,
		logger:       logger,
	}, nil
}

// Shorten creates a new short link with an optional custom code.
func (s *service) Shorten(ctx context.Context, req ShortenRequest) (ShortLink, error) {
	const op = "shortener.service.Shorten"

	if err := validateURL(req.URL); err != nil {
		return ShortLink{}, errx.E(op, errx.Invalid, err)
	}

	// Custom code path: validate and insert once, conflicts surface to
	// the caller.
	if req.CustomCode != "" {
		if err := validateCustomCode(req.CustomCode); err != nil {
			return ShortLink{}, errx.E(op, errx.Invalid, err)
		}

		created, err := s.insert(ctx, ShortLink{
			Code:        req.CustomCode,
			OriginalURL: req.URL,
			Custom:      true,
		})
		if err != nil {
			if errx.KindOf(err) == errx.Conflict {
				return ShortLink{}, errx.E(op, errx.Conflict,
					fmt.Errorf("code %q is already taken", req.CustomCode))
			}
			return ShortLink{}, errx.E(op, errx.KindOf(err), err)
		}
		return created, nil
	}

	// Generated code path: a collision means another link (possibly a
	// concurrently racing request) already owns the candidate, so retry
	// with a fresh one. The caller never sees the collision.
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code, err := s.codes.Generate(s.codeLength)
		if err != nil {
			return ShortLink{}, errx.E(op, errx.Internal, err)
		}

		created, err := s.insert(ctx, ShortLink{
			Code:        code,
			OriginalURL: req.URL,
		})
		if err == nil {
			return created, nil
		}

		if errx.KindOf(err) != errx.Conflict {
			return ShortLink{}, errx.E(op, errx.KindOf(err), err)
		}
	}

	// Running out of attempts means the code space is too occupied for
	// the configured length. Operational alarm, not a routine error.
	s.logger.Error("short code generation exhausted",
		"attempts", s.maxAttempts,
		"code_length", s.codeLength,
	)
	return ShortLink{}, errx.E(op, errx.Internal,
		fmt.Errorf("could not generate a unique code after %d attempts", s.maxAttempts))
}

// insert runs a store insert under the configured timeout.
func (s *service) insert(ctx context.Context, link ShortLink) (ShortLink, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.Insert(ctx, link)
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("url cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("url too long (max %d characters)", MaxURLLength)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid url format")
	}
	if parsed.Scheme == "" {
		return errors.New("url must include scheme (http or https)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if parsed.Host == "" {
		return errors.New("url must include host")
	}
	return nil
}

func validateCustomCode(code string) error {
	if len(code) < MinCustomCodeLength {
		return fmt.Errorf("code too short (minimum %d characters)", MinCustomCodeLength)
	}
	if len(code) > MaxCustomCodeLength {
		return fmt.Errorf("code too long (maximum %d characters)", MaxCustomCodeLength)
	}

	if strings.HasPrefix(code, "-") || strings.HasPrefix(code, "_") ||
		strings.HasSuffix(code, "-") || strings.HasSuffix(code, "_") {
		return errors.New("code cannot start or end with dash or underscore")
	}

	for _, char := range code {
		if !isValidCodeChar(char) {
			return errors.New("code contains invalid characters (only alphanumeric, dash, and underscore allowed)")
		}
	}
	return nil
}

func isValidCodeChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	default:
		return false
	}
}
