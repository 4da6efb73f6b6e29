package integration

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// KernelClient stores and reads extended object attributes in the platform
// kernel. All calls run under the "kernel" resilience policy.
//
// A failed store is absorbed: the attributes always remain in the job's local
// custom-fields column, so job creation never fails because the kernel is
// down. (The paired fallback keeps that contract explicit.)
type KernelClient struct {
	baseURL string
	client  *http.Client
	policy  *Policy
}

// NewKernelClient constructs a client for the kernel at baseURL.
func NewKernelClient(baseURL string, client *http.Client, policy *Policy) *KernelClient {
	return &KernelClient{baseURL: baseURL, client: client, policy: policy}
}

// StoreExtendedAttributes persists attrs for the given object in the kernel.
// The returned error reports delivery failure after retries/circuit break;
// callers treat it as informational, never as a reason to fail their own
// operation.
func (c *KernelClient) StoreExtendedAttributes(ctx context.Context, objectID, objectType string, attrs map[string]any) error {
	url := fmt.Sprintf("%s/api/v1/objects/%s/attributes", c.baseURL, objectID)
	payload := map[string]any{
		"objectType": objectType,
		"attributes": attrs,
	}

	return c.policy.Do(ctx, func(ctx context.Context) error {
		return postJSON(ctx, c.client, url, payload)
	}, func(err error) {
		slog.Warn("kernel unavailable, attributes retained locally",
			"objectId", objectID, "objectType", objectType, "err", err)
	})
}

// GetExtendedAttributes reads an object's attributes back from the kernel.
// When the kernel is unavailable it falls back to an empty map.
func (c *KernelClient) GetExtendedAttributes(ctx context.Context, objectID string) map[string]any {
	url := fmt.Sprintf("%s/api/v1/objects/%s/attributes", c.baseURL, objectID)

	var attrs map[string]any
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		return getJSON(ctx, c.client, url, &attrs)
	}, func(err error) {
		slog.Warn("kernel unavailable, returning empty attributes",
			"objectId", objectID, "err", err)
	})
	if err != nil || attrs == nil {
		return map[string]any{}
	}
	return attrs
}
