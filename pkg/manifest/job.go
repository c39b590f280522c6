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

package manifest

import (
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/tetratelabs/istio/pkg/defaults"
)

const (
	// CAMountPath is where the traffic generator finds the CA bundle.
	CAMountPath = "/etc/bookinfo"
	// CAFileName is the file name of the CA bundle inside CAMountPath.
	CAFileName = "bookinfo-ca.crt"
)

// TrafficGenJob describes the job that sends requests through an ingress
// gateway forever.
type TrafficGenJob struct {
	Name           string
	Namespace      string
	ServiceAccount string
	CASecret       string
	Script         string
	Image          string
}

// Build constructs the Job specification.
func (j TrafficGenJob) Build() *batchv1.Job {
	image := j.Image
	if image == "" {
		image = defaults.TrafficGenImage
	}
	podLabels := labels(map[string]string{"app": j.Name})

	return &batchv1.Job{
		TypeMeta: metav1.TypeMeta{APIVersion: "batch/v1", Kind: "Job"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      j.Name,
			Namespace: j.Namespace,
			Labels:    podLabels,
		},
		Spec: batchv1.JobSpec{
			Completions:  ptr.To(int32(1)),
			Parallelism:  ptr.To(int32(1)),
			BackoffLimit: ptr.To(defaults.TrafficGenBackoffLimit),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: podLabels,
					Annotations: map[string]string{
						"sidecar.istio.io/inject": "false",
					},
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: j.ServiceAccount,
					RestartPolicy:      corev1.RestartPolicyOnFailure,
					Containers: []corev1.Container{
						{
							Name:    "trafficgen",
							Image:   image,
							Command: []string{"/bin/sh", "-c"},
							Args:    []string{j.Script},
							VolumeMounts: []corev1.VolumeMount{
								{
									Name:      "ca",
									MountPath: CAMountPath,
									ReadOnly:  true,
								},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: "ca",
							VolumeSource: corev1.VolumeSource{
								Secret: &corev1.SecretVolumeSource{
									SecretName: j.CASecret,
									Items: []corev1.KeyToPath{
										{Key: CAKey, Path: CAFileName},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}
