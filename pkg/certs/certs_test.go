// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package certs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"

	"github.com/tetratelabs/istio/pkg/errors"
	"github.com/tetratelabs/istio/pkg/manifest"
)

// fakeRunner writes deterministic PEM-looking files for every -keyout and
// -out argument instead of invoking openssl.
type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	// failOn makes the nth call (1-based) exit non-zero.
	failOn int
	// skipOutput makes the tool "succeed" without writing files.
	skipOutput bool
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, args)

	res := &Result{Command: "openssl " + strings.Join(args, " ")}
	if f.failOn == len(f.calls) {
		res.ExitCode = 1
		res.Output = "unable to load CA private key"
		return res, fmt.Errorf("exit status 1")
	}
	if f.skipOutput {
		return res, nil
	}

	for i := 0; i < len(args)-1; i++ {
		switch args[i] {
		case "-keyout", "-out":
			name := args[i+1]
			content := fmt.Sprintf("-----BEGIN %s-----\n%s\n-----END-----\n", strings.ToUpper(filepath.Ext(name)[1:]), name)
			if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newProvisioner(t *testing.T, r Runner) *Provisioner {
	t.Helper()
	p, err := NewProvisioner(filepath.Join(t.TempDir(), "cert"), r)
	require.NoError(t, err)
	return p
}

func TestEnsureRootCA(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	p := newProvisioner(t, runner)

	b, err := p.EnsureRootCA(context.Background())
	require.NoError(t, err)
	assert.Equal(t, b.CertPath, b.CAPath)
	assert.FileExists(t, b.CertPath)
	assert.FileExists(t, b.KeyPath)

	require.Equal(t, 1, runner.count())
	args := strings.Join(runner.calls[0], " ")
	assert.Contains(t, args, "req -x509 -sha256 -nodes -days 365 -newkey rsa:4096")
	assert.Contains(t, args, "/C=US/ST=CA/O=Tetrateio/CN=tetrate.test.com")
}

func TestEnsureIdempotent(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	p := newProvisioner(t, runner)
	ctx := context.Background()

	first, err := p.EnsureLeafCert(ctx, "ns.tetrate.test.com")
	require.NoError(t, err)
	calls := runner.count()
	certBefore, err := first.ReadCert()
	require.NoError(t, err)

	second, err := p.EnsureLeafCert(ctx, "ns.tetrate.test.com")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, calls, runner.count(), "second call must not invoke openssl")

	certAfter, err := second.ReadCert()
	require.NoError(t, err)
	assert.Equal(t, certBefore, certAfter)

	_, err = p.EnsureRootCA(ctx)
	require.NoError(t, err)
	assert.Equal(t, calls, runner.count())

	generated, reused := p.Stats()
	assert.Equal(t, 2, generated)
	assert.Equal(t, 3, reused)
}

func TestLeafSignedByRoot(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	p := newProvisioner(t, runner)

	b, err := p.EnsureLeafCert(context.Background(), "t0-w0-c1-htbnnb0f.tetrate.test.com")
	require.NoError(t, err)
	require.Equal(t, 3, runner.count())

	csr := strings.Join(runner.calls[1], " ")
	assert.Contains(t, csr, "-newkey rsa:2048")
	assert.Contains(t, csr, "/CN=t0-w0-c1-htbnnb0f.tetrate.test.com/O=bookinfo organization")

	sign := strings.Join(runner.calls[2], " ")
	assert.Contains(t, sign, "-CA "+p.RootBundle().CertPath)
	assert.Contains(t, sign, "-set_serial 0")
	assert.Equal(t, p.RootBundle().CertPath, b.CAPath)

	entries, err := os.ReadDir(p.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".gen-"), "temporary directory %s left behind", e.Name())
		assert.NotEqual(t, ".csr", filepath.Ext(e.Name()))
	}
}

func TestWildcardCert(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	p := newProvisioner(t, runner)

	b, err := p.EnsureWildcardCert(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wildcard.tetrate.test.com.crt", filepath.Base(b.CertPath))
	assert.Contains(t, strings.Join(runner.calls[1], " "), "/CN=*.tetrate.test.com/")
}

func TestFailureLeavesNoFiles(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{failOn: 3}
	p := newProvisioner(t, runner)
	ctx := context.Background()

	_, err := p.EnsureLeafCert(ctx, "ns.tetrate.test.com")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCertificateGeneration, errors.CodeOf(err))

	var se *errors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Context["exit_code"])
	assert.Equal(t, "unable to load CA private key", se.Context["output"])

	leaf := p.bundle("ns.tetrate.test.com")
	assert.NoFileExists(t, leaf.CertPath)
	assert.NoFileExists(t, leaf.KeyPath)

	entries, err := os.ReadDir(p.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"tetrate.test.com.crt", "tetrate.test.com.key"}, names)

	// a later run regenerates instead of trusting partial output
	runner.failOn = 0
	_, err = p.EnsureLeafCert(ctx, "ns.tetrate.test.com")
	require.NoError(t, err)
	assert.FileExists(t, leaf.CertPath)
}

func TestSilentToolFailure(t *testing.T) {
	t.Parallel()
	p := newProvisioner(t, &fakeRunner{skipOutput: true})

	_, err := p.EnsureRootCA(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCertificateGeneration, errors.CodeOf(err))
	assert.NoFileExists(t, p.RootBundle().CertPath)
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	p := newProvisioner(t, runner)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.EnsureRootCA(ctx)
	require.Error(t, err)
	assert.Equal(t, 0, runner.count())
}

func TestInvalidHostname(t *testing.T) {
	t.Parallel()
	runner := &fakeRunner{}
	p := newProvisioner(t, runner)

	_, err := p.EnsureLeafCert(context.Background(), "Bad_Host")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidName, errors.CodeOf(err))
	assert.Equal(t, 0, runner.count())
}

func TestSecretManifestsRoundTrip(t *testing.T) {
	t.Parallel()
	p := newProvisioner(t, &fakeRunner{})
	b, err := p.EnsureLeafCert(context.Background(), "ns.tetrate.test.com")
	require.NoError(t, err)

	out := t.TempDir()
	tlsPath := filepath.Join(out, "secret.yaml")
	caPath := filepath.Join(out, "ca.yaml")
	require.NoError(t, RenderSecretManifest(b, "ns", "ns-credential", tlsPath))
	require.NoError(t, RenderCABundleManifest(b, "ns", "ns-ca-cert", caPath))

	certPEM, err := b.ReadCert()
	require.NoError(t, err)
	keyPEM, err := b.ReadKey()
	require.NoError(t, err)
	caPEM, err := b.ReadCA()
	require.NoError(t, err)

	var tlsSecret corev1.Secret
	raw, err := os.ReadFile(tlsPath)
	require.NoError(t, err)
	require.NoError(t, manifest.Unmarshal(raw, &tlsSecret))
	assert.Equal(t, certPEM, tlsSecret.Data[corev1.TLSCertKey])
	assert.Equal(t, keyPEM, tlsSecret.Data[corev1.TLSPrivateKeyKey])
	assert.Equal(t, "ns-credential", tlsSecret.Name)

	var caSecret corev1.Secret
	raw, err = os.ReadFile(caPath)
	require.NoError(t, err)
	require.NoError(t, manifest.Unmarshal(raw, &caSecret))
	assert.Equal(t, caPEM, caSecret.Data[manifest.CAKey])
}

func TestSecretManifestMissingMaterial(t *testing.T) {
	t.Parallel()
	b := Bundle{CertPath: "/nonexistent/a.crt", KeyPath: "/nonexistent/a.key", CAPath: "/nonexistent/ca.crt"}
	err := RenderSecretManifest(b, "ns", "s", filepath.Join(t.TempDir(), "s.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFilesystem, errors.CodeOf(err))
}
