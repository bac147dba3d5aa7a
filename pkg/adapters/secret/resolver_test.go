package secret

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

type fakeSSMClient struct {
	params map[string]string
	calls  int
}

func (f *fakeSSMClient) GetParameter(_ context.Context, input *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.calls++
	if !*input.WithDecryption {
		return nil, fmt.Errorf("expected decryption")
	}
	val, ok := f.params[*input.Name]
	if !ok {
		return nil, fmt.Errorf("parameter not found: %s", *input.Name)
	}
	return &ssm.GetParameterOutput{
		Parameter: &ssmtypes.Parameter{
			Name:  input.Name,
			Value: aws.String(val),
		},
	}, nil
}

func TestResolve_SSM(t *testing.T) {
	client := &fakeSSMClient{params: map[string]string{"/airfetch/reading": "keyFromSSM"}}
	r := NewResolver(WithSSMClient(client))

	val, err := r.Resolve(context.Background(), "ssm:/airfetch/reading")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "keyFromSSM" {
		t.Fatalf("expected %q, got %q", "keyFromSSM", val)
	}

	if _, err := r.Resolve(context.Background(), "ssm:/airfetch/missing"); err == nil {
		t.Fatal("expected error for missing parameter, got nil")
	}
}

func TestResolve_SSMClientBuiltLazily(t *testing.T) {
	built := 0
	client := &fakeSSMClient{params: map[string]string{"/a": "1"}}
	r := NewResolver()
	r.newSSM = func(context.Context) (SSMClient, error) {
		built++
		return client, nil
	}

	_, _ = r.Resolve(context.Background(), "env:HOME")
	if built != 0 {
		t.Fatal("ssm client built for env reference")
	}
	for range 2 {
		if _, err := r.Resolve(context.Background(), "ssm:/a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if built != 1 {
		t.Fatalf("expected client built once, got %d", built)
	}
}

func TestResolve_Env(t *testing.T) {
	t.Setenv("AIRFETCH_TEST_KEY", "keyFromEnv")
	r := NewResolver()

	val, err := r.Resolve(context.Background(), "env:AIRFETCH_TEST_KEY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "keyFromEnv" {
		t.Fatalf("expected %q, got %q", "keyFromEnv", val)
	}

	if _, err := r.Resolve(context.Background(), "env:AIRFETCH_TEST_UNSET"); err == nil {
		t.Fatal("expected error for unset variable, got nil")
	}
}

func TestResolve_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  keyFromFile  \nignored\n"), 0600); err != nil {
		t.Fatal(err)
	}
	r := NewResolver()

	val, err := r.Resolve(context.Background(), "file:"+path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "keyFromFile" {
		t.Fatalf("expected %q, got %q", "keyFromFile", val)
	}

	empty := filepath.Join(t.TempDir(), "empty")
	_ = os.WriteFile(empty, nil, 0600)
	if _, err := r.Resolve(context.Background(), "file:"+empty); err == nil {
		t.Fatal("expected error for empty key file")
	}
}

func TestResolve_LiteralWarns(t *testing.T) {
	var buf bytes.Buffer
	r := NewResolver(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	val, err := r.Resolve(context.Background(), "keyPlain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "keyPlain" {
		t.Fatalf("expected literal back, got %q", val)
	}
	if !bytes.Contains(buf.Bytes(), []byte("plain text")) {
		t.Errorf("expected warning, got %q", buf.String())
	}

	if val, _ := r.Resolve(context.Background(), ""); val != "" {
		t.Errorf("expected empty key, got %q", val)
	}
}

func TestIsReference(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"env:KEY", true},
		{"ssm:/a/b", true},
		{"file:/tmp/k", true},
		{"keyABC123", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsReference(tc.input); got != tc.expected {
			t.Errorf("IsReference(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}
