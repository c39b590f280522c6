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
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tetratelabs/istio/pkg/defaults"
	"github.com/tetratelabs/istio/pkg/errors"
	"github.com/tetratelabs/istio/pkg/manifest"
	"github.com/tetratelabs/istio/pkg/naming"
)

const (
	rootBase     = naming.HostDomain
	wildcardBase = "wildcard." + naming.HostDomain
	wildcardCN   = "*." + naming.HostDomain
)

// Bundle locates a certificate, its private key and the CA that signed it.
// For the root CA, CertPath and CAPath are the same file.
type Bundle struct {
	CertPath string
	KeyPath  string
	CAPath   string
}

// ReadCert returns the PEM certificate.
func (b Bundle) ReadCert() ([]byte, error) { return readPEM(b.CertPath) }

// ReadKey returns the PEM private key.
func (b Bundle) ReadKey() ([]byte, error) { return readPEM(b.KeyPath) }

// ReadCA returns the PEM CA certificate.
func (b Bundle) ReadCA() ([]byte, error) { return readPEM(b.CAPath) }

func readPEM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to read certificate material", err, map[string]any{"path": path})
	}
	return data, nil
}

// Provisioner creates and caches certificates in a single directory.
// Existence of both the certificate and its key means the pair is reused.
// The cache is not locked; concurrent runs against the same directory must
// be serialized by the caller.
type Provisioner struct {
	dir    string
	runner Runner

	generated int
	reused    int
}

// NewProvisioner returns a provisioner caching into dir.
func NewProvisioner(dir string, runner Runner) (*Provisioner, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to resolve certificate directory", err, map[string]any{"dir": dir})
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Provisioner{dir: abs, runner: runner}, nil
}

// Dir returns the absolute cache directory.
func (p *Provisioner) Dir() string { return p.dir }

// Stats returns how many certificates were generated and reused so far.
func (p *Provisioner) Stats() (generated, reused int) { return p.generated, p.reused }

func (p *Provisioner) bundle(base string) Bundle {
	return Bundle{
		CertPath: filepath.Join(p.dir, base+".crt"),
		KeyPath:  filepath.Join(p.dir, base+".key"),
		CAPath:   filepath.Join(p.dir, rootBase+".crt"),
	}
}

// RootBundle returns the root CA paths without generating anything.
func (p *Provisioner) RootBundle() Bundle { return p.bundle(rootBase) }

// EnsureRootCA generates the self-signed root CA unless it is cached.
func (p *Provisioner) EnsureRootCA(ctx context.Context) (Bundle, error) {
	b := p.RootBundle()
	if exists(b) {
		p.reused++
		slog.Debug("reusing root CA", "cert", b.CertPath)
		return b, nil
	}

	steps := [][]string{{
		"req", "-x509", "-sha256", "-nodes",
		"-days", strconv.Itoa(defaults.CertValidityDays),
		"-newkey", "rsa:" + strconv.Itoa(defaults.RootKeyBits),
		"-subj", defaults.RootSubject,
		"-keyout", rootBase + ".key",
		"-out", rootBase + ".crt",
	}}
	if err := p.generate(ctx, rootBase, steps); err != nil {
		return Bundle{}, err
	}
	slog.Info("root CA generated", "cert", b.CertPath)
	return b, nil
}

// EnsureLeafCert generates a certificate for host signed by the root CA
// unless it is cached. The root CA is ensured first.
func (p *Provisioner) EnsureLeafCert(ctx context.Context, host string) (Bundle, error) {
	if err := naming.ValidateSubdomain("hostname", host); err != nil {
		return Bundle{}, err
	}
	return p.ensureLeaf(ctx, host, host)
}

// EnsureWildcardCert generates the *.tetrate.test.com certificate shared by
// every instance of the single-namespace drivers.
func (p *Provisioner) EnsureWildcardCert(ctx context.Context) (Bundle, error) {
	return p.ensureLeaf(ctx, wildcardBase, wildcardCN)
}

func (p *Provisioner) ensureLeaf(ctx context.Context, base, commonName string) (Bundle, error) {
	root, err := p.EnsureRootCA(ctx)
	if err != nil {
		return Bundle{}, err
	}

	b := p.bundle(base)
	if exists(b) {
		p.reused++
		slog.Debug("reusing certificate", "host", commonName, "cert", b.CertPath)
		return b, nil
	}

	subject := fmt.Sprintf("/CN=%s/O=%s", commonName, defaults.LeafOrganization)
	steps := [][]string{
		{
			"req", "-out", base + ".csr",
			"-newkey", "rsa:" + strconv.Itoa(defaults.LeafKeyBits), "-nodes",
			"-keyout", base + ".key",
			"-subj", subject,
		},
		{
			"x509", "-req", "-sha256",
			"-days", strconv.Itoa(defaults.CertValidityDays),
			"-CA", root.CertPath,
			"-CAkey", root.KeyPath,
			"-set_serial", "0",
			"-in", base + ".csr",
			"-out", base + ".crt",
		},
	}
	if err := p.generate(ctx, base, steps); err != nil {
		return Bundle{}, err
	}
	slog.Debug("certificate generated", "host", commonName, "cert", b.CertPath)
	return b, nil
}

// generate runs steps in a private directory inside the cache and moves
// <base>.key then <base>.crt into place only after every step succeeded.
// A failed run leaves nothing behind that exists() would accept.
func (p *Provisioner) generate(ctx context.Context, base string, steps [][]string) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to create certificate directory", err, map[string]any{"dir": p.dir})
	}

	tmp, err := os.MkdirTemp(p.dir, ".gen-")
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeFilesystem,
			"failed to create temporary certificate directory", err, map[string]any{"dir": p.dir})
	}
	defer func() {
		if rmErr := os.RemoveAll(tmp); rmErr != nil {
			slog.Warn("failed to remove temporary certificate directory", "dir", tmp, "error", rmErr)
		}
	}()

	for _, args := range steps {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeCertificateGeneration, "certificate generation cancelled", err)
		}
		res, runErr := p.runner.Run(ctx, tmp, args...)
		if runErr != nil {
			ctxMap := map[string]any{"certificate": base}
			if res != nil {
				ctxMap["exit_code"] = res.ExitCode
				ctxMap["output"] = res.Output
			}
			return errors.WrapWithContext(errors.ErrCodeCertificateGeneration,
				fmt.Sprintf("openssl %s failed for %s", args[0], base), runErr, ctxMap)
		}
	}

	for _, ext := range []string{".key", ".crt"} {
		src := filepath.Join(tmp, base+ext)
		info, statErr := os.Stat(src)
		if statErr != nil || info.Size() == 0 {
			return errors.NewWithContext(errors.ErrCodeCertificateGeneration,
				fmt.Sprintf("openssl did not produce %s%s", base, ext),
				map[string]any{"certificate": base})
		}
	}
	for _, ext := range []string{".key", ".crt"} {
		src := filepath.Join(tmp, base+ext)
		dst := filepath.Join(p.dir, base+ext)
		if err := os.Rename(src, dst); err != nil {
			return errors.WrapWithContext(errors.ErrCodeFilesystem,
				"failed to publish certificate", err, map[string]any{"path": dst})
		}
	}

	p.generated++
	return nil
}

func exists(b Bundle) bool {
	for _, path := range []string{b.CertPath, b.KeyPath} {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// RenderSecretManifest writes a kubernetes.io/tls Secret carrying the
// bundle's certificate and key.
func RenderSecretManifest(b Bundle, namespace, name, path string) error {
	cert, err := b.ReadCert()
	if err != nil {
		return err
	}
	key, err := b.ReadKey()
	if err != nil {
		return err
	}
	return manifest.WriteFile(path, manifest.TLSSecret(namespace, name, cert, key))
}

// RenderCABundleManifest writes an Opaque Secret carrying only the CA
// certificate of the bundle.
func RenderCABundleManifest(b Bundle, namespace, name, path string) error {
	ca, err := b.ReadCA()
	if err != nil {
		return err
	}
	return manifest.WriteFile(path, manifest.CASecret(namespace, name, ca))
}
