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
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// ManagedByLabel marks every object built here.
	ManagedByLabel = "app.kubernetes.io/managed-by"
	managedBy      = "tsbutil"

	rbacGroup = "rbac.authorization.k8s.io"
)

func labels(extra map[string]string) map[string]string {
	l := map[string]string{ManagedByLabel: managedBy}
	for k, v := range extra {
		l[k] = v
	}
	return l
}

// Namespace returns an Istio-injected namespace.
func Namespace(name string) *corev1.Namespace {
	return &corev1.Namespace{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Namespace"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: labels(map[string]string{"istio-injection": "enabled"}),
		},
	}
}

// ServiceAccount returns a service account in namespace.
func ServiceAccount(namespace, name string) *corev1.ServiceAccount {
	return &corev1.ServiceAccount{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    labels(nil),
		},
	}
}

// TrafficGenRBAC returns the service account of a traffic generator and the
// permissions its script needs: reading services in its own namespace to
// find the gateway node port, and reading nodes cluster-wide to find an
// address. The cluster-scoped objects are named after the service account,
// which embeds the namespace and is therefore unique per instance.
func TrafficGenRBAC(namespace, serviceAccount string) []any {
	subject := []rbacv1.Subject{{
		Kind:      rbacv1.ServiceAccountKind,
		Name:      serviceAccount,
		Namespace: namespace,
	}}

	role := &rbacv1.Role{
		TypeMeta: metav1.TypeMeta{APIVersion: rbacGroup + "/v1", Kind: "Role"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceAccount,
			Namespace: namespace,
			Labels:    labels(nil),
		},
		Rules: []rbacv1.PolicyRule{
			{
				APIGroups: []string{""},
				Resources: []string{"services"},
				Verbs:     []string{"get", "list"},
			},
		},
	}

	rb := &rbacv1.RoleBinding{
		TypeMeta: metav1.TypeMeta{APIVersion: rbacGroup + "/v1", Kind: "RoleBinding"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceAccount,
			Namespace: namespace,
			Labels:    labels(nil),
		},
		Subjects: subject,
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacGroup,
			Kind:     "Role",
			Name:     serviceAccount,
		},
	}

	cr := &rbacv1.ClusterRole{
		TypeMeta: metav1.TypeMeta{APIVersion: rbacGroup + "/v1", Kind: "ClusterRole"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   serviceAccount,
			Labels: labels(nil),
		},
		Rules: []rbacv1.PolicyRule{
			{
				APIGroups: []string{""},
				Resources: []string{"nodes"},
				Verbs:     []string{"get", "list"},
			},
		},
	}

	crb := &rbacv1.ClusterRoleBinding{
		TypeMeta: metav1.TypeMeta{APIVersion: rbacGroup + "/v1", Kind: "ClusterRoleBinding"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   serviceAccount,
			Labels: labels(nil),
		},
		Subjects: subject,
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacGroup,
			Kind:     "ClusterRole",
			Name:     serviceAccount,
		},
	}

	return []any{ServiceAccount(namespace, serviceAccount), role, rb, cr, crb}
}

// EditorRBAC grants the ServiceRoute editor access to the TSB front envoy
// service and to the VirtualServices it reweights in direct mode.
func EditorRBAC(namespace, serviceAccount string) []any {
	cr := &rbacv1.ClusterRole{
		TypeMeta: metav1.TypeMeta{APIVersion: rbacGroup + "/v1", Kind: "ClusterRole"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   serviceAccount,
			Labels: labels(nil),
		},
		Rules: []rbacv1.PolicyRule{
			{
				APIGroups: []string{""},
				Resources: []string{"services"},
				Verbs:     []string{"get", "list"},
			},
			{
				APIGroups: []string{"networking.istio.io"},
				Resources: []string{"virtualservices"},
				Verbs:     []string{"get", "list", "update", "patch"},
			},
		},
	}

	crb := &rbacv1.ClusterRoleBinding{
		TypeMeta: metav1.TypeMeta{APIVersion: rbacGroup + "/v1", Kind: "ClusterRoleBinding"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   serviceAccount,
			Labels: labels(nil),
		},
		Subjects: []rbacv1.Subject{{
			Kind:      rbacv1.ServiceAccountKind,
			Name:      serviceAccount,
			Namespace: namespace,
		}},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacGroup,
			Kind:     "ClusterRole",
			Name:     serviceAccount,
		},
	}

	return []any{cr, crb}
}
