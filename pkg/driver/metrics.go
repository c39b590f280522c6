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

package driver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tetratelabs/istio/pkg/naming"
	"github.com/tetratelabs/istio/pkg/output"
)

// runMetrics are the per-run metrics written to the optional textfile. Each
// run owns its registry so repeated runs in one process do not accumulate.
type runMetrics struct {
	registry *prometheus.Registry

	instances *prometheus.CounterVec
	renders   *prometheus.CounterVec
	certs     *prometheus.GaugeVec
	files     prometheus.Gauge
	bytes     prometheus.Gauge
	duration  prometheus.Gauge
}

func newRunMetrics(app naming.App) *runMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"app": app.String()}

	return &runMetrics{
		registry: reg,
		instances: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "tsbutil_instances_total",
				Help:        "Application instances generated",
				ConstLabels: constLabels,
			},
			[]string{"mode"},
		),
		renders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "tsbutil_template_renders_total",
				Help:        "Templates rendered into the output tree",
				ConstLabels: constLabels,
			},
			[]string{"template"},
		),
		certs: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "tsbutil_certificates",
				Help:        "Certificates provisioned during the run",
				ConstLabels: constLabels,
			},
			[]string{"result"}, // generated or reused
		),
		files: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "tsbutil_output_files",
			Help:        "Files published into the output directory",
			ConstLabels: constLabels,
		}),
		bytes: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "tsbutil_output_bytes",
			Help:        "Total size of the published files",
			ConstLabels: constLabels,
		}),
		duration: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "tsbutil_run_duration_seconds",
			Help:        "Wall time of the run",
			ConstLabels: constLabels,
		}),
	}
}

func (m *runMetrics) observe(sum *output.Summary) {
	m.certs.WithLabelValues("generated").Set(float64(sum.CertsGenerated))
	m.certs.WithLabelValues("reused").Set(float64(sum.CertsReused))
	m.files.Set(float64(len(sum.Files)))
	m.bytes.Set(float64(sum.TotalSize))
	m.duration.Set(sum.Duration.Seconds())
}

func (m *runMetrics) writeTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
