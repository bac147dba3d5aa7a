// Package secret resolves API key references from the configuration.
//
// A key is either a literal or a reference:
//
//	env:AIRTABLE_KEY          environment variable
//	ssm:/airfetch/reading     AWS SSM Parameter Store (SecureString)
//	file:~/.config/airtable   first line of a file
package secret

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SSMClient is the subset of *ssm.Client methods used by the resolver.
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Reference prefixes.
const (
	PrefixEnv  = "env:"
	PrefixSSM  = "ssm:"
	PrefixFile = "file:"
)

// Resolver turns key references into key values.
type Resolver struct {
	logger *slog.Logger

	mu     sync.Mutex
	ssm    SSMClient
	newSSM func(ctx context.Context) (SSMClient, error)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSSMClient uses client instead of one built from the default AWS config.
func WithSSMClient(client SSMClient) Option {
	return func(r *Resolver) { r.ssm = client }
}

// WithLogger sets the logger used to warn about literal keys.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver creates a Resolver. The SSM client is only built when an
// ssm: reference is first resolved.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{newSSM: defaultSSM}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultSSM(ctx context.Context) (SSMClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// IsReference reports whether value points somewhere instead of being the key.
func IsReference(value string) bool {
	return strings.HasPrefix(value, PrefixEnv) ||
		strings.HasPrefix(value, PrefixSSM) ||
		strings.HasPrefix(value, PrefixFile)
}

// Resolve returns the key value behind ref. An empty ref resolves to "".
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	switch {
	case ref == "":
		return "", nil

	case strings.HasPrefix(ref, PrefixEnv):
		name := strings.TrimPrefix(ref, PrefixEnv)
		val, ok := os.LookupEnv(name)
		if !ok || val == "" {
			return "", fmt.Errorf("environment variable %q is not set", name)
		}
		return val, nil

	case strings.HasPrefix(ref, PrefixSSM):
		return r.fromSSM(ctx, strings.TrimPrefix(ref, PrefixSSM))

	case strings.HasPrefix(ref, PrefixFile):
		return fromFile(strings.TrimPrefix(ref, PrefixFile))

	default:
		if r.logger != nil {
			r.logger.Warn("api key stored in plain text; consider an env:, ssm: or file: reference")
		}
		return ref, nil
	}
}

func (r *Resolver) fromSSM(ctx context.Context, name string) (string, error) {
	client, err := r.ssmClient(ctx)
	if err != nil {
		return "", err
	}

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("ssm get parameter %q: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("ssm parameter %q has no value", name)
	}
	return *out.Parameter.Value, nil
}

func (r *Resolver) ssmClient(ctx context.Context) (SSMClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ssm != nil {
		return r.ssm, nil
	}
	client, err := r.newSSM(ctx)
	if err != nil {
		return nil, err
	}
	r.ssm = client
	return client, nil
}

func fromFile(path string) (string, error) {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand ~: %w", err)
		}
		path = filepath.Join(home, rest)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read key file: %w", err)
	}
	line, _, _ := strings.Cut(string(b), "\n")
	key := strings.TrimSpace(line)
	if key == "" {
		return "", fmt.Errorf("key file %s is empty", path)
	}
	return key, nil
}
